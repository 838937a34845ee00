package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentCash         PaymentType = "cash"
	PaymentCreditCard   PaymentType = "credit_card"
	PaymentBankTransfer PaymentType = "bank_transfer"
	PaymentInstallment  PaymentType = "installment"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentCash, PaymentCreditCard, PaymentBankTransfer, PaymentInstallment:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	Base
	EnrollmentID   uuid.UUID       `gorm:"type:char(36);not null;index" json:"enrollment_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	PaymentType    PaymentType     `gorm:"size:20;not null" json:"payment_type"`
	Status         PaymentStatus   `gorm:"size:20;not null;index" json:"status"`
	TransactionID  *string         `gorm:"size:100" json:"transaction_id,omitempty"`
	PaymentGateway *string         `gorm:"size:50" json:"payment_gateway,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
}

func (Payment) TableName() string { return "payments" }

// PaymentDetail attaches the owning enrollment with its student and course.
type PaymentDetail struct {
	Payment    Payment
	Enrollment EnrollmentDetail
}

type PaymentRepository interface {
	Repository[Payment]
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*PaymentDetail, error)
	// GetByEnrollmentID orders newest first.
	GetByEnrollmentID(ctx context.Context, enrollmentID uuid.UUID) ([]PaymentDetail, error)
	// GetPendingPayments orders oldest first.
	GetPendingPayments(ctx context.Context) ([]PaymentDetail, error)
	SumCompletedByEnrollment(ctx context.Context, enrollmentID uuid.UUID) (decimal.Decimal, error)
}
