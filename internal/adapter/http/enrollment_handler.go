package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"donatello-backend/internal/usecase/enrollment"
)

type EnrollmentHandler struct {
	uc    *enrollment.Usecase
	pager Pager
}

func NewEnrollmentHandler(uc *enrollment.Usecase, p Pager) *EnrollmentHandler {
	return &EnrollmentHandler{uc: uc, pager: p}
}

func (h *EnrollmentHandler) CreateEnrollment(c echo.Context) error {
	var req enrollment.CreateEnrollmentInput
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CreateEnrollment(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// GetEnrollment includes the payments made so far.
func (h *EnrollmentHandler) GetEnrollment(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	dto, err := h.uc.GetEnrollmentWithPayments(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *EnrollmentHandler) ListByStudent(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	return listPage(c, h.pager, func() ([]enrollment.EnrollmentDTO, error) {
		return h.uc.GetEnrollmentsByStudent(c.Request().Context(), id)
	})
}

func (h *EnrollmentHandler) ListByCourse(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	return listPage(c, h.pager, func() ([]enrollment.EnrollmentDTO, error) {
		return h.uc.GetEnrollmentsByCourse(c.Request().Context(), id)
	})
}
