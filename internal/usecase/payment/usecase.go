package payment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"donatello-backend/internal/domain"
	"donatello-backend/internal/domain/uow"
	"donatello-backend/internal/usecase"
	appErrors "donatello-backend/pkg/errors"
	"donatello-backend/pkg/logger"
)

// Recorder receives every payment that reaches Completed.
type Recorder interface {
	PaymentApplied(amount float64, paidInFull bool)
}

type nopRecorder struct{}

func (nopRecorder) PaymentApplied(float64, bool) {}

type Usecase struct {
	uows uow.Factory
	log  *zap.Logger
	obs  usecase.Observer
	rec  Recorder
	now  func() time.Time
}

func NewUsecase(f uow.Factory, log *zap.Logger, obs usecase.Observer, rec Recorder) *Usecase {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Usecase{
		uows: f,
		log:  logger.OrNop(log).Named("payment"),
		obs:  usecase.OrNop(obs),
		rec:  rec,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// CreatePayment records a pending payment against an existing enrollment.
func (u *Usecase) CreatePayment(ctx context.Context, in CreatePaymentInput) (*PaymentDTO, error) {
	const op = "create_payment"
	if err := usecase.Validate(in); err != nil {
		return nil, usecase.Finish(u.log, u.obs, op, err)
	}
	fields := []zap.Field{zap.String("enrollment_id", in.EnrollmentID.String())}

	var created domain.Payment
	err := uow.WithinTx(ctx, u.uows, func(w uow.UnitOfWork) error {
		if _, err := w.Enrollments().GetByID(ctx, in.EnrollmentID); err != nil {
			return err
		}
		p, err := w.Payments().Add(ctx, &domain.Payment{
			EnrollmentID: in.EnrollmentID,
			Amount:       in.Amount.Round(2),
			PaymentType:  in.PaymentType,
			Status:       domain.PaymentPending,
		})
		if err != nil {
			return err
		}
		created = *p
		return nil
	})
	if err != nil {
		return nil, usecase.Finish(u.log, u.obs, op, err, fields...)
	}
	fields = append(fields, zap.String("payment_id", created.ID.String()))

	return u.committed(ctx, op, &domain.PaymentDetail{Payment: created}, fields), usecase.Finish(u.log, u.obs, op, nil, fields...)
}

// ProcessPayment completes a pending payment and credits its enrollment in one
// transaction. Both rows are locked, so concurrent calls against the same
// enrollment serialize; a payment that is no longer pending is rejected.
func (u *Usecase) ProcessPayment(ctx context.Context, in ProcessPaymentInput) (*PaymentDTO, error) {
	const op = "process_payment"
	in.TransactionID = strings.TrimSpace(in.TransactionID)
	in.PaymentGateway = strings.TrimSpace(in.PaymentGateway)
	if err := usecase.Validate(in); err != nil {
		return nil, usecase.Finish(u.log, u.obs, op, err)
	}
	fields := []zap.Field{zap.String("payment_id", in.PaymentID.String())}

	var (
		applied    float64
		paidInFull bool
		written    domain.PaymentDetail
	)
	err := uow.WithinTx(ctx, u.uows, func(w uow.UnitOfWork) error {
		p, err := w.Payments().GetByIDForUpdate(ctx, in.PaymentID)
		if err != nil {
			return err
		}
		if p.Status != domain.PaymentPending {
			return appErrors.InvalidArgument("payment %s is %s, only pending payments can be processed", p.ID, p.Status)
		}

		paidAt := u.now()
		p.Status = domain.PaymentCompleted
		p.TransactionID = optional(in.TransactionID)
		p.PaymentGateway = optional(in.PaymentGateway)
		p.PaidAt = &paidAt
		if _, err := w.Payments().Update(ctx, p); err != nil {
			return err
		}
		written.Payment = *p

		e, err := w.Enrollments().GetByIDForUpdate(ctx, p.EnrollmentID)
		if appErrors.IsNotFound(err) {
			// an orphaned payment still completes
			u.log.Warn("payment has no visible enrollment", zap.String("enrollment_id", p.EnrollmentID.String()))
			applied, _ = p.Amount.Float64()
			return nil
		}
		if err != nil {
			return err
		}

		e.PaidAmount = e.PaidAmount.Add(p.Amount)
		if e.PaidAmount.GreaterThanOrEqual(e.TotalAmount) &&
			(e.Status == domain.EnrollmentPreRegistered || e.Status == domain.EnrollmentActive) {
			paidInFull = e.Status != domain.EnrollmentActive
			e.Status = domain.EnrollmentActive
		}
		if _, err := w.Enrollments().Update(ctx, e); err != nil {
			return err
		}
		written.Enrollment.Enrollment = *e
		applied, _ = p.Amount.Float64()
		return nil
	})
	if err != nil {
		return nil, usecase.Finish(u.log, u.obs, op, err, fields...)
	}
	u.rec.PaymentApplied(applied, paidInFull)
	fields = append(fields, zap.Bool("paid_in_full", paidInFull))

	return u.committed(ctx, op, &written, fields), usecase.Finish(u.log, u.obs, op, nil, fields...)
}

// committed re-reads a payment after its transaction committed. A failed
// re-read falls back to the rows the transaction wrote.
func (u *Usecase) committed(ctx context.Context, op string, written *domain.PaymentDetail, fields []zap.Field) *PaymentDTO {
	dto, err := u.GetPayment(ctx, written.Payment.ID)
	if err == nil {
		return dto
	}
	u.log.Warn(op+": re-read failed", append(fields, zap.Error(err))...)
	fallback := toDTO(written)
	return &fallback
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (u *Usecase) GetPayment(ctx context.Context, paymentID uuid.UUID) (*PaymentDTO, error) {
	var out *PaymentDTO
	err := uow.Read(u.uows, func(w uow.UnitOfWork) error {
		d, err := w.Payments().GetDetail(ctx, paymentID)
		if err != nil {
			return err
		}
		dto := toDTO(d)
		out = &dto
		return nil
	})
	return out, usecase.Wrap(err)
}

// GetPendingPayments is oldest first.
func (u *Usecase) GetPendingPayments(ctx context.Context) ([]PaymentDTO, error) {
	var out []PaymentDTO
	err := uow.Read(u.uows, func(w uow.UnitOfWork) error {
		list, err := w.Payments().GetPendingPayments(ctx)
		if err != nil {
			return err
		}
		out = toDTOs(list)
		return nil
	})
	return out, usecase.Wrap(err)
}

// GetPaymentsByEnrollment is newest first; the enrollment must be visible.
func (u *Usecase) GetPaymentsByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]PaymentDTO, error) {
	var out []PaymentDTO
	err := uow.Read(u.uows, func(w uow.UnitOfWork) error {
		if _, err := w.Enrollments().GetByID(ctx, enrollmentID); err != nil {
			return err
		}
		list, err := w.Payments().GetByEnrollmentID(ctx, enrollmentID)
		if err != nil {
			return err
		}
		out = toDTOs(list)
		return nil
	})
	return out, usecase.Wrap(err)
}
