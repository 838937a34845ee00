package gormrepo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"donatello-backend/internal/domain"
	appErrors "donatello-backend/pkg/errors"
)

type StudentRepository struct {
	repository[domain.Student, *domain.Student]
}

var _ domain.StudentRepository = (*StudentRepository)(nil)

func NewStudentRepository(db *gorm.DB) *StudentRepository { return newStudentRepository(fixed(db)) }

func newStudentRepository(s session) *StudentRepository {
	return &StudentRepository{repository[domain.Student, *domain.Student]{s}}
}

func (r *StudentRepository) GetByIDWithUser(ctx context.Context, id uuid.UUID) (*domain.StudentDetail, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.attachOne(ctx, *s)
}

func (r *StudentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Student, error) {
	var out domain.Student
	err := r.visible(ctx).Where("user_id = ?", userID).Order("created_at ASC").Take(&out).Error
	if err != nil {
		return nil, notFoundOr(err, "students", userID)
	}
	return &out, nil
}

func (r *StudentRepository) GetByStudentNumber(ctx context.Context, number string) (*domain.StudentDetail, error) {
	var s domain.Student
	if err := r.visible(ctx).Where("student_number = ?", number).Take(&s).Error; err != nil {
		return nil, notFoundOr(err, "students", number)
	}
	return r.attachOne(ctx, s)
}

func (r *StudentRepository) StudentNumberExists(ctx context.Context, number string) (bool, error) {
	return r.exists(ctx, "student_number = ?", number)
}

func (r *StudentRepository) GetAllWithUser(ctx context.Context) ([]domain.StudentDetail, error) {
	var rows []domain.Student
	if err := r.visible(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, appErrors.Internal(err, "list students")
	}
	return studentDetails(r.db(ctx), rows)
}

func (r *StudentRepository) attachOne(ctx context.Context, s domain.Student) (*domain.StudentDetail, error) {
	out, err := studentDetails(r.db(ctx), []domain.Student{s})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}
