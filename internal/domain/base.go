package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Base carries the identity, audit and soft-delete columns shared by every entity.
type Base struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	IsDeleted bool      `gorm:"not null;default:false;index" json:"-"`
}

// Meta gives generic code access to the embedded Base.
func (b *Base) Meta() *Base { return b }

// Entity is implemented by pointers to every persisted record.
type Entity interface {
	Meta() *Base
	TableName() string
}

// Repository is the data access contract shared by every entity family.
// Rows flagged deleted are invisible to every method.
type Repository[T any] interface {
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	GetAll(ctx context.Context) ([]T, error)
	// Find filters visible rows with a SQL predicate, e.g. Find(ctx, "status = ?", "pending").
	Find(ctx context.Context, query string, args ...any) ([]T, error)
	Add(ctx context.Context, e *T) (*T, error)
	Update(ctx context.Context, e *T) (*T, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
}
