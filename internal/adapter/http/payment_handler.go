package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"donatello-backend/internal/usecase/payment"
)

type PaymentHandler struct {
	uc    *payment.Usecase
	pager Pager
}

func NewPaymentHandler(uc *payment.Usecase, p Pager) *PaymentHandler {
	return &PaymentHandler{uc: uc, pager: p}
}

func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req payment.CreatePaymentInput
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CreatePayment(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *PaymentHandler) ProcessPayment(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var req payment.ProcessPaymentInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.PaymentID = id
	if ok, err := check(c, &req); !ok {
		return err
	}
	dto, err := h.uc.ProcessPayment(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PaymentHandler) GetPayment(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	dto, err := h.uc.GetPayment(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PaymentHandler) ListPending(c echo.Context) error {
	return listPage(c, h.pager, func() ([]payment.PaymentDTO, error) {
		return h.uc.GetPendingPayments(c.Request().Context())
	})
}

func (h *PaymentHandler) ListByEnrollment(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	return listPage(c, h.pager, func() ([]payment.PaymentDTO, error) {
		return h.uc.GetPaymentsByEnrollment(c.Request().Context(), id)
	})
}
