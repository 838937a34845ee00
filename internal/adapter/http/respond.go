package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	appErrors "donatello-backend/pkg/errors"
)

func statusOf(kind appErrors.Kind) int {
	switch kind {
	case appErrors.KindInvalidArgument:
		return http.StatusBadRequest
	case appErrors.KindNotFound:
		return http.StatusNotFound
	case appErrors.KindAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a workflow error onto its status. Internal details stay in
// the logs; the client only sees the kind.
func writeError(c echo.Context, err error) error {
	e := appErrors.FromError(err)
	msg := e.Message
	if e.Kind == appErrors.KindInternal {
		msg = "internal error"
	}
	return c.JSON(statusOf(e.Kind), ErrorResponse{Error: msg, Code: string(e.Kind)})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: string(appErrors.KindInvalidArgument)})
}

// decode binds and validates req. When ok is false the response has already
// been written and err is what the handler should return.
func decode(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid body")
	}
	return check(c, req)
}

func check(c echo.Context, req any) (bool, error) {
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Code:    string(appErrors.KindInvalidArgument),
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// pathID parses a uuid path parameter.
func pathID(c echo.Context, name string) (uuid.UUID, bool, error) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		return uuid.Nil, false, badRequest(c, "missing "+name+" path param")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, badRequest(c, "invalid "+name+": must be a uuid")
	}
	return id, true, nil
}
