package http

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"donatello-backend/internal/domain"
)

func TestDec2Validation(t *testing.T) {
	type P struct {
		Rate decimal.Decimal `json:"rate" validate:"dec2"`
	}
	cv := NewValidator()

	for _, v := range []string{"1.29", "2.00", "0.9", "1200"} {
		if err := cv.Validate(P{Rate: decimal.RequireFromString(v)}); err != nil {
			t.Fatalf("expected dec2 OK for %v, got %v", v, err)
		}
	}
	for _, v := range []string{"1.234", "2.9999"} {
		err := cv.Validate(P{Rate: decimal.RequireFromString(v)})
		if err == nil {
			t.Fatalf("expected dec2 error for %v", v)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "rate", "at most 2 decimal places") {
			t.Fatalf("expected 'at most 2 decimal places' for %v, got %+v", v, fe)
		}
	}
}

func TestEnumValidation(t *testing.T) {
	type P struct {
		Category domain.LicenseCategory `json:"category" validate:"license"`
		Type     domain.PaymentType     `json:"type" validate:"payment_type"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{Category: domain.LicenseCE, Type: domain.PaymentInstallment}); err != nil {
		t.Fatalf("expected valid enums, got %v", err)
	}
	err := cv.Validate(P{Category: "B2", Type: "voucher"})
	if err == nil {
		t.Fatalf("expected enum errors")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "category", "license category") {
		t.Fatalf("missing license message: %+v", fe)
	}
	if !containsFieldMsg(fe, "type", "must be one of") {
		t.Fatalf("missing payment type message: %+v", fe)
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name   string          `json:"name" validate:"required"`
		Min    int             `json:"min" validate:"gte=10"`
		Max    int             `json:"max" validate:"lte=5"`
		Amount decimal.Decimal `json:"amount" validate:"dec_gt0"`
	}
	cv := NewValidator()

	// Intentionally violate all
	err := cv.Validate(P{Name: "", Min: 9, Max: 6, Amount: decimal.Zero})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "name", "is required") {
		t.Fatalf("missing 'is required' for name: %+v", fe)
	}
	if !containsFieldMsg(fe, "min", "greater than or equal to 10") {
		t.Fatalf("missing gte message for min: %+v", fe)
	}
	if !containsFieldMsg(fe, "max", "less than or equal to 5") {
		t.Fatalf("missing lte message for max: %+v", fe)
	}
	if !containsFieldMsg(fe, "amount", "greater than 0") {
		t.Fatalf("missing dec_gt0 message for amount: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
