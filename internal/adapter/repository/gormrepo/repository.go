package gormrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"donatello-backend/internal/domain"
	appErrors "donatello-backend/pkg/errors"
)

const notDeleted = "is_deleted = ?"

// session resolves the connection a repository talks to: the open
// transaction of its unit of work, or the root pool when none is open.
type session struct {
	conn  func() *gorm.DB
	track func(rows int64)
}

func fixed(db *gorm.DB) session {
	return session{conn: func() *gorm.DB { return db }, track: func(int64) {}}
}

type repository[T any, PT interface {
	*T
	domain.Entity
}] struct {
	session
}

func (r repository[T, PT]) db(ctx context.Context) *gorm.DB { return r.conn().WithContext(ctx) }

func (r repository[T, PT]) table() string { return PT(new(T)).TableName() }

func (r repository[T, PT]) visible(ctx context.Context) *gorm.DB {
	return r.db(ctx).Where(notDeleted, false)
}

func (r repository[T, PT]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var out T
	if err := r.visible(ctx).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, notFoundOr(err, r.table(), id)
	}
	return &out, nil
}

func (r repository[T, PT]) getForUpdate(ctx context.Context, id uuid.UUID) (*T, error) {
	var out T
	err := r.visible(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error
	if err != nil {
		return nil, notFoundOr(err, r.table(), id)
	}
	return &out, nil
}

func (r repository[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.visible(ctx).Find(&out).Error; err != nil {
		return nil, appErrors.Internal(err, "list "+r.table())
	}
	return out, nil
}

func (r repository[T, PT]) Find(ctx context.Context, query string, args ...any) ([]T, error) {
	var out []T
	if err := r.visible(ctx).Where(query, args...).Find(&out).Error; err != nil {
		return nil, appErrors.Internal(err, "find "+r.table())
	}
	return out, nil
}

func (r repository[T, PT]) Add(ctx context.Context, e *T) (*T, error) {
	m := PT(e).Meta()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := nowUTC()
	m.CreatedAt, m.UpdatedAt, m.IsDeleted = now, now, false

	res := r.db(ctx).Create(e)
	if res.Error != nil {
		return nil, appErrors.Internal(res.Error, "insert "+r.table())
	}
	r.track(res.RowsAffected)
	return e, nil
}

func (r repository[T, PT]) Update(ctx context.Context, e *T) (*T, error) {
	m := PT(e).Meta()
	m.UpdatedAt = nowUTC()

	res := r.db(ctx).Model(e).
		Where(notDeleted, false).
		Select("*").Omit("id", "created_at", "is_deleted").
		Updates(e)
	if res.Error != nil {
		return nil, appErrors.Internal(res.Error, "update "+r.table())
	}
	if res.RowsAffected == 0 {
		return nil, appErrors.NotFound("%s %s not found", singular(r.table()), m.ID)
	}
	r.track(res.RowsAffected)
	return e, nil
}

func (r repository[T, PT]) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db(ctx).Model(PT(new(T))).
		Where("id = ? AND "+notDeleted, id, false).
		Updates(map[string]any{"is_deleted": true, "updated_at": nowUTC()})
	if res.Error != nil {
		return false, appErrors.Internal(res.Error, "soft delete "+r.table())
	}
	r.track(res.RowsAffected)
	return res.RowsAffected > 0, nil
}

// exists checks physical rows, deleted ones included, matching the unique indexes.
func (r repository[T, PT]) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var n int64
	if err := r.db(ctx).Model(PT(new(T))).Where(query, args...).Count(&n).Error; err != nil {
		return false, appErrors.Internal(err, "count "+r.table())
	}
	return n > 0, nil
}

func nowUTC() time.Time { return time.Now().UTC() }

func notFoundOr(err error, table string, key any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return appErrors.NotFound("%s %v not found", singular(table), key)
	}
	return appErrors.Internal(err, "query "+table)
}

func singular(table string) string {
	if n := len(table); n > 1 && table[n-1] == 's' {
		return table[:n-1]
	}
	return table
}
