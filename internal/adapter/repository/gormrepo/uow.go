package gormrepo

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"donatello-backend/internal/domain"
	"donatello-backend/internal/domain/uow"
	appErrors "donatello-backend/pkg/errors"
	"donatello-backend/pkg/logger"
)

var (
	ErrTransactionOpen = errors.New("transaction already open")
	ErrClosed          = errors.New("unit of work closed")
)

// GormUoW binds every repository it hands out to its open transaction.
// GORM executes statements eagerly, so SaveChanges reports the rows written
// through this unit of work since the previous call.
type GormUoW struct {
	db  *gorm.DB
	tx  *gorm.DB
	log *zap.Logger

	pending int64
	closed  bool

	users       *UserRepository
	students    *StudentRepository
	courses     *CourseRepository
	enrollments *EnrollmentRepository
	payments    *PaymentRepository
}

var _ uow.UnitOfWork = (*GormUoW)(nil)

func NewGormUoW(db *gorm.DB, log *zap.Logger) *GormUoW {
	return &GormUoW{db: db, log: logger.OrNop(log)}
}

func (u *GormUoW) conn() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *GormUoW) track(rows int64) { u.pending += rows }

func (u *GormUoW) session() session { return session{conn: u.conn, track: u.track} }

// InTransaction reports whether a transaction is open.
func (u *GormUoW) InTransaction() bool { return u.tx != nil }

func (u *GormUoW) Begin(ctx context.Context) error {
	if u.closed {
		return appErrors.Internal(ErrClosed, "begin transaction")
	}
	if u.tx != nil {
		return appErrors.Internal(ErrTransactionOpen, "begin transaction")
	}
	// the transaction is bound to ctx: cancellation rolls it back
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Error("uow: begin failed", zap.Error(tx.Error))
		return appErrors.Internal(tx.Error, "begin transaction")
	}
	u.tx = tx
	u.pending = 0
	u.log.Debug("uow: begin")
	return nil
}

func (u *GormUoW) SaveChanges(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, appErrors.Internal(err, "save changes")
	}
	n := u.pending
	u.pending = 0
	u.log.Info("uow: changes saved", zap.Int64("rows", n), zap.Bool("in_tx", u.tx != nil))
	return n, nil
}

func (u *GormUoW) Commit() error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit().Error; err != nil {
		u.log.Error("uow: commit failed", zap.Error(err))
		return appErrors.Internal(err, "commit transaction")
	}
	u.log.Debug("uow: commit")
	return nil
}

func (u *GormUoW) Rollback() error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	u.pending = 0
	if err := tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		u.log.Error("uow: rollback failed", zap.Error(err))
		return appErrors.Internal(err, "rollback transaction")
	}
	u.log.Debug("uow: rollback")
	return nil
}

func (u *GormUoW) Close() error {
	err := u.Rollback()
	u.closed = true
	return err
}

func (u *GormUoW) Users() domain.UserRepository {
	if u.users == nil {
		u.users = newUserRepository(u.session())
	}
	return u.users
}

func (u *GormUoW) Students() domain.StudentRepository {
	if u.students == nil {
		u.students = newStudentRepository(u.session())
	}
	return u.students
}

func (u *GormUoW) Courses() domain.CourseRepository {
	if u.courses == nil {
		u.courses = newCourseRepository(u.session())
	}
	return u.courses
}

func (u *GormUoW) Enrollments() domain.EnrollmentRepository {
	if u.enrollments == nil {
		u.enrollments = newEnrollmentRepository(u.session())
	}
	return u.enrollments
}

func (u *GormUoW) Payments() domain.PaymentRepository {
	if u.payments == nil {
		u.payments = newPaymentRepository(u.session())
	}
	return u.payments
}

// Factory builds one GormUoW per logical operation over a shared pool.
type Factory struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ uow.Factory = (*Factory)(nil)

func NewFactory(db *gorm.DB, log *zap.Logger) *Factory {
	return &Factory{db: db, log: logger.OrNop(log)}
}

func (f *Factory) New() uow.UnitOfWork { return NewGormUoW(f.db, f.log) }
