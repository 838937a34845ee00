package gormrepo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"donatello-backend/internal/domain"
	"donatello-backend/pkg/credential"
	appErrors "donatello-backend/pkg/errors"
)

type UserRepository struct {
	repository[domain.User, *domain.User]
}

var _ domain.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository { return newUserRepository(fixed(db)) }

func newUserRepository(s session) *UserRepository {
	return &UserRepository{repository[domain.User, *domain.User]{s}}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var out domain.User
	if err := r.visible(ctx).Where("email = ?", normEmail(email)).Take(&out).Error; err != nil {
		return nil, notFoundOr(err, "users", email)
	}
	return &out, nil
}

func (r *UserRepository) GetByNationalID(ctx context.Context, nationalID string) (*domain.User, error) {
	var out domain.User
	if err := r.visible(ctx).Where("national_id = ?", nationalID).Take(&out).Error; err != nil {
		return nil, notFoundOr(err, "users", nationalID)
	}
	return &out, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", normEmail(email))
}

func (r *UserRepository) NationalIDExists(ctx context.Context, nationalID string) (bool, error) {
	return r.exists(ctx, "national_id = ?", nationalID)
}

func (r *UserRepository) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	var out domain.User
	err := r.visible(ctx).
		Where("email = ? AND is_active = ?", normEmail(email), true).
		Take(&out).Error
	if err != nil {
		if appErrors.IsNotFound(notFoundOr(err, "users", email)) {
			return nil, appErrors.NotFound("invalid credentials")
		}
		return nil, appErrors.Internal(err, "authenticate user")
	}
	if !credential.Verify(out.PasswordHash, password) {
		return nil, appErrors.NotFound("invalid credentials")
	}
	return &out, nil
}

func (r *UserRepository) GetActiveUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := r.visible(ctx).
		Where("is_active = ?", true).
		Order("first_name ASC, last_name ASC").
		Find(&out).Error
	if err != nil {
		return nil, appErrors.Internal(err, "list active users")
	}
	return out, nil
}

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
