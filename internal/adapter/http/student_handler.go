package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"donatello-backend/internal/usecase/student"
	appErrors "donatello-backend/pkg/errors"
)

type StudentHandler struct {
	uc    *student.Usecase
	pager Pager
}

func NewStudentHandler(uc *student.Usecase, p Pager) *StudentHandler {
	return &StudentHandler{uc: uc, pager: p}
}

func (h *StudentHandler) CreateStudent(c echo.Context) error {
	var req student.CreateStudentInput
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CreateStudent(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *StudentHandler) ListStudents(c echo.Context) error {
	return listPage(c, h.pager, func() ([]student.StudentDTO, error) {
		return h.uc.ListStudents(c.Request().Context())
	})
}

func (h *StudentHandler) GetStudent(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	dto, err := h.uc.GetStudent(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *StudentHandler) GetStudentByNumber(c echo.Context) error {
	dto, err := h.uc.GetStudentByNumber(c.Request().Context(), c.Param("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *StudentHandler) DeleteStudent(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	deleted, err := h.uc.DeleteStudent(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "student " + id.String() + " not found", Code: string(appErrors.KindNotFound)})
	}
	return c.NoContent(http.StatusNoContent)
}
