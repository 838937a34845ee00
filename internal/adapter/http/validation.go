package http

import (
	"github.com/go-playground/validator/v10"

	"donatello-backend/internal/usecase"
)

// Reusable error payload
type FieldError = usecase.FieldError

type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// CustomValidator plugs the workflow rules (dec2, license, payment_type, ...)
// into echo so malformed bodies are rejected with field details.
type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator { return &CustomValidator{v: usecase.NewValidator()} }

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError { return usecase.FieldErrors(err) }
