package enrollment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"donatello-backend/internal/domain"
	"donatello-backend/internal/domain/uow"
	"donatello-backend/internal/usecase"
	"donatello-backend/pkg/logger"
)

type Usecase struct {
	uows uow.Factory
	log  *zap.Logger
	obs  usecase.Observer
	now  func() time.Time
}

func NewUsecase(f uow.Factory, log *zap.Logger, obs usecase.Observer) *Usecase {
	return &Usecase{
		uows: f,
		log:  logger.OrNop(log).Named("enrollment"),
		obs:  usecase.OrNop(obs),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// CreateEnrollment registers a student on a course with nothing paid yet.
func (u *Usecase) CreateEnrollment(ctx context.Context, in CreateEnrollmentInput) (*EnrollmentDTO, error) {
	const op = "create_enrollment"
	if err := usecase.Validate(in); err != nil {
		return nil, usecase.Finish(u.log, u.obs, op, err)
	}
	fields := []zap.Field{
		zap.String("student_id", in.StudentID.String()),
		zap.String("course_id", in.CourseID.String()),
	}

	var created domain.Enrollment
	err := uow.WithinTx(ctx, u.uows, func(w uow.UnitOfWork) error {
		if _, err := w.Students().GetByID(ctx, in.StudentID); err != nil {
			return err
		}
		if _, err := w.Courses().GetByID(ctx, in.CourseID); err != nil {
			return err
		}
		e, err := w.Enrollments().Add(ctx, &domain.Enrollment{
			StudentID:      in.StudentID,
			CourseID:       in.CourseID,
			EnrollmentDate: u.now(),
			Status:         domain.EnrollmentPreRegistered,
			TotalAmount:    in.TotalAmount.Round(2),
		})
		if err != nil {
			return err
		}
		created = *e
		return nil
	})
	if err != nil {
		return nil, usecase.Finish(u.log, u.obs, op, err, fields...)
	}
	fields = append(fields, zap.String("enrollment_id", created.ID.String()))

	dto, err := u.GetEnrollment(ctx, created.ID)
	if err != nil {
		// the row is committed; answer with what was written
		u.log.Warn("create_enrollment: re-read failed", append(fields, zap.Error(err))...)
		fallback := ToDTO(&domain.EnrollmentDetail{Enrollment: created})
		dto = &fallback
	}
	return dto, usecase.Finish(u.log, u.obs, op, nil, fields...)
}

func (u *Usecase) GetEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*EnrollmentDTO, error) {
	var out *EnrollmentDTO
	err := uow.Read(u.uows, func(w uow.UnitOfWork) error {
		d, err := w.Enrollments().GetDetail(ctx, enrollmentID)
		if err != nil {
			return err
		}
		dto := ToDTO(d)
		out = &dto
		return nil
	})
	return out, usecase.Wrap(err)
}

// GetEnrollmentsByStudent is newest first; the student itself must be visible.
func (u *Usecase) GetEnrollmentsByStudent(ctx context.Context, studentID uuid.UUID) ([]EnrollmentDTO, error) {
	var out []EnrollmentDTO
	err := uow.Read(u.uows, func(w uow.UnitOfWork) error {
		if _, err := w.Students().GetByID(ctx, studentID); err != nil {
			return err
		}
		list, err := w.Enrollments().GetByStudentID(ctx, studentID)
		if err != nil {
			return err
		}
		out = make([]EnrollmentDTO, 0, len(list))
		for i := range list {
			out = append(out, ToDTO(&list[i]))
		}
		return nil
	})
	return out, usecase.Wrap(err)
}

func (u *Usecase) GetEnrollmentsByCourse(ctx context.Context, courseID uuid.UUID) ([]EnrollmentDTO, error) {
	var out []EnrollmentDTO
	err := uow.Read(u.uows, func(w uow.UnitOfWork) error {
		list, err := w.Enrollments().GetByCourseID(ctx, courseID)
		if err != nil {
			return err
		}
		out = make([]EnrollmentDTO, 0, len(list))
		for i := range list {
			out = append(out, ToDTO(&domain.EnrollmentDetail{Enrollment: list[i]}))
		}
		return nil
	})
	return out, usecase.Wrap(err)
}

func (u *Usecase) GetEnrollmentWithPayments(ctx context.Context, enrollmentID uuid.UUID) (*EnrollmentWithPaymentsDTO, error) {
	var out *EnrollmentWithPaymentsDTO
	err := uow.Read(u.uows, func(w uow.UnitOfWork) error {
		d, err := w.Enrollments().GetWithPayments(ctx, enrollmentID)
		if err != nil {
			return err
		}
		out = &EnrollmentWithPaymentsDTO{
			EnrollmentDTO: ToDTO(&d.EnrollmentDetail),
			Payments:      make([]PaymentSummary, 0, len(d.Payments)),
		}
		for i := range d.Payments {
			out.Payments = append(out.Payments, toPaymentSummary(&d.Payments[i]))
		}
		return nil
	})
	return out, usecase.Wrap(err)
}
