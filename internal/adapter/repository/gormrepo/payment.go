package gormrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"donatello-backend/internal/domain"
	appErrors "donatello-backend/pkg/errors"
)

type PaymentRepository struct {
	repository[domain.Payment, *domain.Payment]
}

var _ domain.PaymentRepository = (*PaymentRepository)(nil)

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return newPaymentRepository(fixed(db)) }

func newPaymentRepository(s session) *PaymentRepository {
	return &PaymentRepository{repository[domain.Payment, *domain.Payment]{s}}
}

func (r *PaymentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return r.getForUpdate(ctx, id)
}

func (r *PaymentRepository) GetDetail(ctx context.Context, id uuid.UUID) (*domain.PaymentDetail, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := paymentDetails(r.db(ctx), []domain.Payment{*p})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (r *PaymentRepository) GetByEnrollmentID(ctx context.Context, enrollmentID uuid.UUID) ([]domain.PaymentDetail, error) {
	var rows []domain.Payment
	err := r.visible(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, appErrors.Internal(err, "list payments by enrollment")
	}
	return paymentDetails(r.db(ctx), rows)
}

func (r *PaymentRepository) GetPendingPayments(ctx context.Context) ([]domain.PaymentDetail, error) {
	var rows []domain.Payment
	err := r.visible(ctx).
		Where("status = ?", domain.PaymentPending).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, appErrors.Internal(err, "list pending payments")
	}
	return paymentDetails(r.db(ctx), rows)
}

// SumCompletedByEnrollment adds amounts in fixed point rather than SQL SUM,
// which some drivers hand back as float.
func (r *PaymentRepository) SumCompletedByEnrollment(ctx context.Context, enrollmentID uuid.UUID) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := r.visible(ctx).
		Model(&domain.Payment{}).
		Where("enrollment_id = ? AND status = ?", enrollmentID, domain.PaymentCompleted).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, appErrors.Internal(err, "sum completed payments")
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}
