package payment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"donatello-backend/internal/domain"
	"donatello-backend/internal/usecase/enrollment"
	"donatello-backend/pkg/datetime"
)

type CreatePaymentInput struct {
	EnrollmentID uuid.UUID          `json:"enrollment_id" validate:"required"`
	Amount       decimal.Decimal    `json:"amount" validate:"dec_gt0,dec2"`
	PaymentType  domain.PaymentType `json:"payment_type" validate:"required,payment_type"`
}

type ProcessPaymentInput struct {
	PaymentID      uuid.UUID `json:"-" validate:"required"`
	TransactionID  string    `json:"transaction_id" validate:"omitempty,max=100"`
	PaymentGateway string    `json:"payment_gateway" validate:"omitempty,max=50"`
}

type PaymentDTO struct {
	ID             string                    `json:"id"`
	EnrollmentID   string                    `json:"enrollment_id"`
	Amount         string                    `json:"amount"`
	PaymentType    string                    `json:"payment_type"`
	Status         string                    `json:"status"`
	TransactionID  string                    `json:"transaction_id,omitempty"`
	PaymentGateway string                    `json:"payment_gateway,omitempty"`
	PaidAt         string                    `json:"paid_at,omitempty"`
	CreatedAt      string                    `json:"created_at"`
	Enrollment     *enrollment.EnrollmentDTO `json:"enrollment,omitempty"`
}

func toDTO(d *domain.PaymentDetail) PaymentDTO {
	p := d.Payment
	dto := PaymentDTO{
		ID:           p.ID.String(),
		EnrollmentID: p.EnrollmentID.String(),
		Amount:       p.Amount.StringFixed(2),
		PaymentType:  string(p.PaymentType),
		Status:       string(p.Status),
		PaidAt:       datetime.FormatTimestampPtr(p.PaidAt),
		CreatedAt:    datetime.FormatTimestamp(p.CreatedAt),
	}
	if p.TransactionID != nil {
		dto.TransactionID = *p.TransactionID
	}
	if p.PaymentGateway != nil {
		dto.PaymentGateway = *p.PaymentGateway
	}
	if d.Enrollment.Enrollment.ID != uuid.Nil {
		e := enrollment.ToDTO(&d.Enrollment)
		dto.Enrollment = &e
	}
	return dto
}

func toDTOs(list []domain.PaymentDetail) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(list))
	for i := range list {
		out = append(out, toDTO(&list[i]))
	}
	return out
}
