package repomock

import (
	"context"

	"github.com/google/uuid"

	"donatello-backend/internal/domain"
)

// Each Repo embeds the real repository and overrides only the methods whose
// function field is set. Use them with uowmock.Factory to inject faults.

type UserRepo struct {
	domain.UserRepository
	AddFn         func(ctx context.Context, u *domain.User) (*domain.User, error)
	EmailExistsFn func(ctx context.Context, email string) (bool, error)
}

func (m *UserRepo) Add(ctx context.Context, u *domain.User) (*domain.User, error) {
	if m.AddFn != nil {
		return m.AddFn(ctx, u)
	}
	return m.UserRepository.Add(ctx, u)
}

func (m *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.EmailExistsFn != nil {
		return m.EmailExistsFn(ctx, email)
	}
	return m.UserRepository.EmailExists(ctx, email)
}

type StudentRepo struct {
	domain.StudentRepository
	AddFn                 func(ctx context.Context, s *domain.Student) (*domain.Student, error)
	StudentNumberExistsFn func(ctx context.Context, number string) (bool, error)
	GetByIDWithUserFn     func(ctx context.Context, id uuid.UUID) (*domain.StudentDetail, error)
}

func (m *StudentRepo) Add(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	if m.AddFn != nil {
		return m.AddFn(ctx, s)
	}
	return m.StudentRepository.Add(ctx, s)
}

func (m *StudentRepo) StudentNumberExists(ctx context.Context, number string) (bool, error) {
	if m.StudentNumberExistsFn != nil {
		return m.StudentNumberExistsFn(ctx, number)
	}
	return m.StudentRepository.StudentNumberExists(ctx, number)
}

func (m *StudentRepo) GetByIDWithUser(ctx context.Context, id uuid.UUID) (*domain.StudentDetail, error) {
	if m.GetByIDWithUserFn != nil {
		return m.GetByIDWithUserFn(ctx, id)
	}
	return m.StudentRepository.GetByIDWithUser(ctx, id)
}

type EnrollmentRepo struct {
	domain.EnrollmentRepository
	AddFn              func(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error)
	UpdateFn           func(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error)
	GetByIDForUpdateFn func(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error)
	GetDetailFn        func(ctx context.Context, id uuid.UUID) (*domain.EnrollmentDetail, error)
}

func (m *EnrollmentRepo) Add(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error) {
	if m.AddFn != nil {
		return m.AddFn(ctx, e)
	}
	return m.EnrollmentRepository.Add(ctx, e)
}

func (m *EnrollmentRepo) Update(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, e)
	}
	return m.EnrollmentRepository.Update(ctx, e)
}

func (m *EnrollmentRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return m.EnrollmentRepository.GetByIDForUpdate(ctx, id)
}

func (m *EnrollmentRepo) GetDetail(ctx context.Context, id uuid.UUID) (*domain.EnrollmentDetail, error) {
	if m.GetDetailFn != nil {
		return m.GetDetailFn(ctx, id)
	}
	return m.EnrollmentRepository.GetDetail(ctx, id)
}

type PaymentRepo struct {
	domain.PaymentRepository
	AddFn       func(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	UpdateFn    func(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	GetDetailFn func(ctx context.Context, id uuid.UUID) (*domain.PaymentDetail, error)
}

func (m *PaymentRepo) Add(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	if m.AddFn != nil {
		return m.AddFn(ctx, p)
	}
	return m.PaymentRepository.Add(ctx, p)
}

func (m *PaymentRepo) Update(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, p)
	}
	return m.PaymentRepository.Update(ctx, p)
}

func (m *PaymentRepo) GetDetail(ctx context.Context, id uuid.UUID) (*domain.PaymentDetail, error) {
	if m.GetDetailFn != nil {
		return m.GetDetailFn(ctx, id)
	}
	return m.PaymentRepository.GetDetail(ctx, id)
}
