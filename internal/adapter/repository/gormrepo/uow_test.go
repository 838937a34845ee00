package gormrepo

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"donatello-backend/internal/domain"
	"donatello-backend/internal/domain/uow"
	"donatello-backend/internal/testutil/dbtest"
	appErrors "donatello-backend/pkg/errors"
)

func TestGormUoW_LazyReposAreStable(t *testing.T) {
	db := dbtest.Open(t)
	u := NewGormUoW(db, nil)
	defer u.Close()

	if u.Users() != u.Users() || u.Students() != u.Students() || u.Courses() != u.Courses() ||
		u.Enrollments() != u.Enrollments() || u.Payments() != u.Payments() {
		t.Fatalf("repository accessors must return the same instance")
	}
}

func TestGormUoW_BeginTwiceFails(t *testing.T) {
	db := dbtest.Open(t)
	u := NewGormUoW(db, nil)
	defer u.Close()
	ctx := context.Background()

	if err := u.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := u.Begin(ctx); !errors.Is(err, ErrTransactionOpen) {
		t.Fatalf("second Begin err = %v, want ErrTransactionOpen", err)
	}
	if err := u.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
}

func TestGormUoW_NoOpLifecycleWithoutTransaction(t *testing.T) {
	db := dbtest.Open(t)
	u := NewGormUoW(db, nil)

	if err := u.Commit(); err != nil {
		t.Fatalf("Commit without tx: %v", err)
	}
	if err := u.Rollback(); err != nil {
		t.Fatalf("Rollback without tx: %v", err)
	}
	if err := u.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := u.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := u.Begin(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("Begin after Close err = %v", err)
	}
}

func TestGormUoW_WritesVisibleAcrossReposInsideTx(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := dbtest.Student(t, db)
	course := dbtest.Course(t, db)

	u := NewGormUoW(db, nil)
	defer u.Close()
	if err := u.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	e, err := u.Enrollments().Add(ctx, &domain.Enrollment{
		StudentID: student.ID, CourseID: course.ID,
		Status: domain.EnrollmentPreRegistered, TotalAmount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("add enrollment: %v", err)
	}
	if _, err := u.Payments().Add(ctx, &domain.Payment{
		EnrollmentID: e.ID, Amount: decimal.NewFromInt(5),
		PaymentType: domain.PaymentCash, Status: domain.PaymentPending,
	}); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	// read the enrollment back through a different repository path
	withPayments, err := u.Enrollments().GetWithPayments(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetWithPayments inside tx: %v", err)
	}
	if len(withPayments.Payments) != 1 {
		t.Fatalf("payment written in tx not visible: %+v", withPayments)
	}

	n, err := u.SaveChanges(ctx)
	if err != nil || n != 2 {
		t.Fatalf("SaveChanges = %d, %v; want 2", n, err)
	}
	n, err = u.SaveChanges(ctx)
	if err != nil || n != 0 {
		t.Fatalf("second SaveChanges = %d, %v; want 0", n, err)
	}
	if err := u.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if got := dbtest.Count(t, db, "payments", "enrollment_id = ?", e.ID); got != 1 {
		t.Fatalf("payments after commit = %d", got)
	}
}

func TestGormUoW_RollbackDiscardsEveryWrite(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	u := NewGormUoW(db, nil)
	if err := u.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	user, err := u.Users().Add(ctx, &domain.User{Email: "x@example.com", NationalID: "1", FirstName: "X", LastName: "Y", IsActive: true})
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	if _, err := u.Students().Add(ctx, &domain.Student{UserID: user.ID, StudentNumber: "STD20250042"}); err != nil {
		t.Fatalf("add student: %v", err)
	}
	if err := u.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	_ = u.Close()

	if n := dbtest.Count(t, db, "users", ""); n != 0 {
		t.Fatalf("users after rollback = %d", n)
	}
	if n := dbtest.Count(t, db, "students", ""); n != 0 {
		t.Fatalf("students after rollback = %d", n)
	}
}

func TestGormUoW_CloseRollsBackOpenTransaction(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	u := NewGormUoW(db, nil)
	if err := u.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := u.Courses().Add(ctx, &domain.Course{Name: "temp", LicenseCategory: domain.LicenseB}); err != nil {
		t.Fatalf("add course: %v", err)
	}
	if err := u.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := dbtest.Count(t, db, "courses", ""); n != 0 {
		t.Fatalf("courses after close = %d", n)
	}
}

func TestGormUoW_CancelledContextLeavesNoEffect(t *testing.T) {
	db := dbtest.Open(t)
	ctx, cancel := context.WithCancel(context.Background())

	u := NewGormUoW(db, nil)
	defer u.Close()
	if err := u.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := u.Courses().Add(ctx, &domain.Course{Name: "temp", LicenseCategory: domain.LicenseB}); err != nil {
		t.Fatalf("add course: %v", err)
	}
	cancel()

	if _, err := u.SaveChanges(ctx); !appErrors.IsInternal(err) {
		t.Fatalf("SaveChanges after cancel err = %v", err)
	}
	_ = u.Rollback()

	if n := dbtest.Count(t, db, "courses", ""); n != 0 {
		t.Fatalf("courses after cancel = %d", n)
	}
}

func TestWithinTx_CommitAndRollback(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	f := NewFactory(db, nil)

	err := uow.WithinTx(ctx, f, func(u uow.UnitOfWork) error {
		_, err := u.Courses().Add(ctx, &domain.Course{Name: "committed", LicenseCategory: domain.LicenseA, IsActive: true})
		return err
	})
	if err != nil {
		t.Fatalf("WithinTx commit: %v", err)
	}

	sentinel := errors.New("boom")
	err = uow.WithinTx(ctx, f, func(u uow.UnitOfWork) error {
		if _, err := u.Courses().Add(ctx, &domain.Course{Name: "discarded", LicenseCategory: domain.LicenseA}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx err = %v, want sentinel", err)
	}

	if n := dbtest.Count(t, db, "courses", "name = ?", "committed"); n != 1 {
		t.Fatalf("committed rows = %d", n)
	}
	if n := dbtest.Count(t, db, "courses", "name = ?", "discarded"); n != 0 {
		t.Fatalf("discarded rows = %d", n)
	}
}

func TestWithinTx_PanicRollsBack(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	f := NewFactory(db, nil)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_ = uow.WithinTx(ctx, f, func(u uow.UnitOfWork) error {
			if _, err := u.Courses().Add(ctx, &domain.Course{Name: "boom", LicenseCategory: domain.LicenseA}); err != nil {
				return err
			}
			panic("unexpected")
		})
	}()

	if n := dbtest.Count(t, db, "courses", ""); n != 0 {
		t.Fatalf("courses after panic = %d", n)
	}
}

func TestWithinTx_SecondWriteFailureUndoesFirst(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	f := NewFactory(db, nil)

	p := dbtest.Payment(t, db)
	dbtest.FailWrites(t, db, "update", "enrollments", errors.New("disk full"))

	err := uow.WithinTx(ctx, f, func(u uow.UnitOfWork) error {
		pay, err := u.Payments().GetByIDForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		pay.Status = domain.PaymentCompleted
		if _, err := u.Payments().Update(ctx, pay); err != nil {
			return err
		}
		e, err := u.Enrollments().GetByIDForUpdate(ctx, pay.EnrollmentID)
		if err != nil {
			return err
		}
		e.PaidAmount = e.PaidAmount.Add(pay.Amount)
		_, err = u.Enrollments().Update(ctx, e)
		return err
	})
	if !appErrors.IsInternal(err) {
		t.Fatalf("err = %v, want internal", err)
	}

	if got := dbtest.Reload[domain.Payment](t, db, p.ID); got.Status != domain.PaymentPending {
		t.Fatalf("payment status = %s after failed transaction", got.Status)
	}
}
