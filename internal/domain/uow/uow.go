package uow

import (
	"context"

	"donatello-backend/internal/domain"
)

// UnitOfWork scopes one logical operation. Repositories are built lazily,
// once per instance, and share the open transaction when there is one.
// An instance must not be shared between concurrent operations.
type UnitOfWork interface {
	// Begin fails when a transaction is already open.
	Begin(ctx context.Context) error
	// SaveChanges flushes pending writes and returns how many rows they touched.
	SaveChanges(ctx context.Context) (int64, error)
	// Commit and Rollback are no-ops without an open transaction.
	Commit() error
	Rollback() error
	// Close rolls back anything still open; safe to call repeatedly.
	Close() error

	Users() domain.UserRepository
	Students() domain.StudentRepository
	Courses() domain.CourseRepository
	Enrollments() domain.EnrollmentRepository
	Payments() domain.PaymentRepository
}

// Factory hands out a fresh UnitOfWork per operation.
type Factory interface {
	New() UnitOfWork
}

// WithinTx runs fn inside a new unit of work: begin, fn, save, commit.
// Any error or panic from fn, SaveChanges or Commit rolls the transaction back.
func WithinTx(ctx context.Context, f Factory, fn func(u UnitOfWork) error) (err error) {
	u := f.New()
	defer u.Close()

	if err = u.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = u.Rollback()
			panic(p)
		}
		if err != nil {
			_ = u.Rollback()
		}
	}()

	if err = fn(u); err != nil {
		return err
	}
	if _, err = u.SaveChanges(ctx); err != nil {
		return err
	}
	return u.Commit()
}

// Read runs fn against a unit of work with no transaction open.
func Read(f Factory, fn func(u UnitOfWork) error) error {
	u := f.New()
	defer u.Close()
	return fn(u)
}
