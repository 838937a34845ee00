package gormrepo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"donatello-backend/internal/domain"
	appErrors "donatello-backend/pkg/errors"
)

type EnrollmentRepository struct {
	repository[domain.Enrollment, *domain.Enrollment]
}

var _ domain.EnrollmentRepository = (*EnrollmentRepository)(nil)

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return newEnrollmentRepository(fixed(db))
}

func newEnrollmentRepository(s session) *EnrollmentRepository {
	return &EnrollmentRepository{repository[domain.Enrollment, *domain.Enrollment]{s}}
}

// GetByIDForUpdate issues SELECT ... FOR UPDATE; dialects without row locks ignore the clause.
func (r *EnrollmentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	return r.getForUpdate(ctx, id)
}

func (r *EnrollmentRepository) GetDetail(ctx context.Context, id uuid.UUID) (*domain.EnrollmentDetail, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := enrollmentDetails(r.db(ctx), []domain.Enrollment{*e})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (r *EnrollmentRepository) GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]domain.EnrollmentDetail, error) {
	var rows []domain.Enrollment
	err := r.visible(ctx).
		Where("student_id = ?", studentID).
		Order("enrollment_date DESC, created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, appErrors.Internal(err, "list enrollments by student")
	}
	return enrollmentDetails(r.db(ctx), rows)
}

func (r *EnrollmentRepository) GetByCourseID(ctx context.Context, courseID uuid.UUID) ([]domain.Enrollment, error) {
	var out []domain.Enrollment
	err := r.visible(ctx).
		Where("course_id = ?", courseID).
		Order("enrollment_date DESC, created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, appErrors.Internal(err, "list enrollments by course")
	}
	return out, nil
}

func (r *EnrollmentRepository) GetWithPayments(ctx context.Context, id uuid.UUID) (*domain.EnrollmentWithPayments, error) {
	d, err := r.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	var payments []domain.Payment
	err = r.db(ctx).
		Where("enrollment_id = ? AND "+notDeleted, id, false).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, appErrors.Internal(err, "list enrollment payments")
	}
	return &domain.EnrollmentWithPayments{EnrollmentDetail: *d, Payments: payments}, nil
}
