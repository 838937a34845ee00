package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Handler struct{ db *gorm.DB }

// NewHandler takes the database the health check pings; nil skips the ping.
func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

func (h *Handler) Health(c echo.Context) error {
	status, code := "ok", http.StatusOK
	if h.db != nil {
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	return c.JSON(code, map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}
