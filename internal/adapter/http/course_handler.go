package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"donatello-backend/internal/domain"
	"donatello-backend/internal/usecase/course"
)

type CourseHandler struct {
	uc    *course.Usecase
	pager Pager
}

func NewCourseHandler(uc *course.Usecase, p Pager) *CourseHandler {
	return &CourseHandler{uc: uc, pager: p}
}

func (h *CourseHandler) CreateCourse(c echo.Context) error {
	var req course.CreateCourseInput
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CreateCourse(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// ListCourses returns the active catalogue.
func (h *CourseHandler) ListCourses(c echo.Context) error {
	return listPage(c, h.pager, func() ([]course.CourseDTO, error) {
		return h.uc.GetActiveCourses(c.Request().Context())
	})
}

func (h *CourseHandler) GetCourse(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	dto, err := h.uc.GetCourse(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CourseHandler) ListByCategory(c echo.Context) error {
	category := domain.LicenseCategory(c.Param("category"))
	return listPage(c, h.pager, func() ([]course.CourseDTO, error) {
		return h.uc.GetCoursesByCategory(c.Request().Context(), category)
	})
}

func (h *CourseHandler) SearchCourses(c echo.Context) error {
	name := c.QueryParam("name")
	return listPage(c, h.pager, func() ([]course.CourseDTO, error) {
		return h.uc.SearchCourses(c.Request().Context(), name)
	})
}
