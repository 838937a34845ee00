package uowmock

import (
	"context"
	"sync"

	"donatello-backend/internal/domain"
	"donatello-backend/internal/domain/uow"
)

var (
	_ uow.Factory    = (*Factory)(nil)
	_ uow.UnitOfWork = (*UoW)(nil)
)

// Factory decorates a real factory: it counts lifecycle calls across every
// unit of work it hands out and lets a test override individual steps.
// Unset function fields delegate to the wrapped unit of work.
type Factory struct {
	Inner uow.Factory

	BeginFn       func(ctx context.Context, next uow.UnitOfWork) error
	SaveChangesFn func(ctx context.Context, next uow.UnitOfWork) (int64, error)
	CommitFn      func(next uow.UnitOfWork) error

	// Repository decorators, applied once per unit of work.
	UsersFn       func(domain.UserRepository) domain.UserRepository
	StudentsFn    func(domain.StudentRepository) domain.StudentRepository
	EnrollmentsFn func(domain.EnrollmentRepository) domain.EnrollmentRepository
	PaymentsFn    func(domain.PaymentRepository) domain.PaymentRepository

	mu     sync.Mutex
	counts Counts
}

type Counts struct {
	New, Begin, SaveChanges, Commit, Rollback, Close int
}

func New(inner uow.Factory) *Factory { return &Factory{Inner: inner} }

func (f *Factory) Counts() Counts {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts
}

func (f *Factory) inc(fn func(c *Counts)) {
	f.mu.Lock()
	fn(&f.counts)
	f.mu.Unlock()
}

func (f *Factory) New() uow.UnitOfWork {
	f.inc(func(c *Counts) { c.New++ })
	return &UoW{f: f, next: f.Inner.New()}
}

// UoW forwards to the wrapped unit of work unless its Factory overrides a step.
type UoW struct {
	f    *Factory
	next uow.UnitOfWork

	users       domain.UserRepository
	students    domain.StudentRepository
	enrollments domain.EnrollmentRepository
	payments    domain.PaymentRepository
}

func (m *UoW) Begin(ctx context.Context) error {
	m.f.inc(func(c *Counts) { c.Begin++ })
	if m.f.BeginFn != nil {
		return m.f.BeginFn(ctx, m.next)
	}
	return m.next.Begin(ctx)
}

func (m *UoW) SaveChanges(ctx context.Context) (int64, error) {
	m.f.inc(func(c *Counts) { c.SaveChanges++ })
	if m.f.SaveChangesFn != nil {
		return m.f.SaveChangesFn(ctx, m.next)
	}
	return m.next.SaveChanges(ctx)
}

func (m *UoW) Commit() error {
	m.f.inc(func(c *Counts) { c.Commit++ })
	if m.f.CommitFn != nil {
		return m.f.CommitFn(m.next)
	}
	return m.next.Commit()
}

func (m *UoW) Rollback() error {
	m.f.inc(func(c *Counts) { c.Rollback++ })
	return m.next.Rollback()
}

func (m *UoW) Close() error {
	m.f.inc(func(c *Counts) { c.Close++ })
	return m.next.Close()
}

func (m *UoW) Users() domain.UserRepository {
	if m.users == nil {
		m.users = m.next.Users()
		if m.f.UsersFn != nil {
			m.users = m.f.UsersFn(m.users)
		}
	}
	return m.users
}

func (m *UoW) Students() domain.StudentRepository {
	if m.students == nil {
		m.students = m.next.Students()
		if m.f.StudentsFn != nil {
			m.students = m.f.StudentsFn(m.students)
		}
	}
	return m.students
}

func (m *UoW) Courses() domain.CourseRepository { return m.next.Courses() }

func (m *UoW) Enrollments() domain.EnrollmentRepository {
	if m.enrollments == nil {
		m.enrollments = m.next.Enrollments()
		if m.f.EnrollmentsFn != nil {
			m.enrollments = m.f.EnrollmentsFn(m.enrollments)
		}
	}
	return m.enrollments
}

func (m *UoW) Payments() domain.PaymentRepository {
	if m.payments == nil {
		m.payments = m.next.Payments()
		if m.f.PaymentsFn != nil {
			m.payments = m.f.PaymentsFn(m.payments)
		}
	}
	return m.payments
}
