package usecase

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"donatello-backend/internal/domain"
	appErrors "donatello-backend/pkg/errors"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidator returns a validator that understands decimal amounts and the
// domain enums. Field names in errors are taken from json tags.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	// decimals are validated through their canonical string form
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("dec2", decimalRule(func(d decimal.Decimal) bool { return d.Equal(d.Round(2)) }))
	_ = v.RegisterValidation("dec_gt0", decimalRule(decimal.Decimal.IsPositive))
	_ = v.RegisterValidation("dec_gte0", decimalRule(func(d decimal.Decimal) bool { return !d.IsNegative() }))
	_ = v.RegisterValidation("license", func(fl validator.FieldLevel) bool {
		return domain.LicenseCategory(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("payment_type", func(fl validator.FieldLevel) bool {
		return domain.PaymentType(fl.Field().String()).Valid()
	})

	return v
}

func decimalRule(ok func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && ok(d)
	}
}

var (
	sharedOnce sync.Once
	shared     *validator.Validate
)

// Validate checks s and reports failures as InvalidArgument.
func Validate(s any) error {
	sharedOnce.Do(func() { shared = NewValidator() })
	err := shared.Struct(s)
	if err == nil {
		return nil
	}
	parts := make([]string, 0, 4)
	for _, fe := range FieldErrors(err) {
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	return appErrors.InvalidArgument("%s", strings.Join(parts, "; "))
}

// FieldErrors maps validator.ValidationErrors to readable messages.
func FieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "email":
			out = append(out, FieldError{Field: field, Message: "must be a valid email address"})
		case "dec2":
			out = append(out, FieldError{Field: field, Message: "must have at most 2 decimal places"})
		case "dec_gt0":
			out = append(out, FieldError{Field: field, Message: "must be greater than 0"})
		case "dec_gte0":
			out = append(out, FieldError{Field: field, Message: "must not be negative"})
		case "license":
			out = append(out, FieldError{Field: field, Message: "must be a known license category"})
		case "payment_type":
			out = append(out, FieldError{Field: field, Message: "must be one of cash, credit_card, bank_transfer, installment"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		case "max":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param() + " characters"})
		case "min":
			out = append(out, FieldError{Field: field, Message: "must be at least " + e.Param() + " characters"})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
