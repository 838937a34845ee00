package domain

import (
	"context"
	"time"
)

type User struct {
	Base
	Email        string    `gorm:"size:255;not null;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	PhoneNumber  string    `gorm:"size:20" json:"phone_number"`
	DateOfBirth  time.Time `gorm:"not null" json:"date_of_birth"`
	NationalID   string    `gorm:"column:national_id;size:11;not null;uniqueIndex:ux_users_national_id" json:"national_id"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Repository[User]
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByNationalID(ctx context.Context, nationalID string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	NationalIDExists(ctx context.Context, nationalID string) (bool, error)
	// Authenticate returns the active user whose credential hash matches password.
	Authenticate(ctx context.Context, email, password string) (*User, error)
	// GetActiveUsers orders by first then last name.
	GetActiveUsers(ctx context.Context) ([]User, error)
}
