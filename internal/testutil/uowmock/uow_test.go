package uowmock

import (
	"context"
	"errors"
	"testing"

	"donatello-backend/internal/adapter/repository/gormrepo"
	"donatello-backend/internal/domain"
	"donatello-backend/internal/domain/uow"
	"donatello-backend/internal/testutil/dbtest"
	"donatello-backend/internal/testutil/repomock"
)

func TestFactory_CountsLifecycle(t *testing.T) {
	db := dbtest.Open(t)
	f := New(gormrepo.NewFactory(db, nil))

	err := uow.WithinTx(context.Background(), f, func(u uow.UnitOfWork) error {
		_, err := u.Courses().Add(context.Background(), &domain.Course{Name: "X", LicenseCategory: domain.LicenseB})
		return err
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	got := f.Counts()
	want := Counts{New: 1, Begin: 1, SaveChanges: 1, Commit: 1, Close: 1}
	if got != want {
		t.Fatalf("counts = %+v, want %+v", got, want)
	}
	if n := dbtest.Count(t, db, "courses", ""); n != 1 {
		t.Fatalf("courses = %d, want 1", n)
	}
}

func TestFactory_CommitOverrideRollsBack(t *testing.T) {
	db := dbtest.Open(t)
	f := New(gormrepo.NewFactory(db, nil))
	boom := errors.New("commit refused")
	f.CommitFn = func(uow.UnitOfWork) error { return boom }

	err := uow.WithinTx(context.Background(), f, func(u uow.UnitOfWork) error {
		_, err := u.Courses().Add(context.Background(), &domain.Course{Name: "X", LicenseCategory: domain.LicenseB})
		return err
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if c := f.Counts(); c.Rollback != 1 || c.Commit != 1 {
		t.Fatalf("counts = %+v", c)
	}
	if n := dbtest.Count(t, db, "courses", ""); n != 0 {
		t.Fatalf("courses = %d, want 0 after rollback", n)
	}
}

func TestFactory_RepositoryDecoratorAppliedOnce(t *testing.T) {
	db := dbtest.Open(t)
	f := New(gormrepo.NewFactory(db, nil))
	wraps := 0
	f.UsersFn = func(next domain.UserRepository) domain.UserRepository {
		wraps++
		return &repomock.UserRepo{
			UserRepository: next,
			EmailExistsFn:  func(context.Context, string) (bool, error) { return true, nil },
		}
	}

	err := uow.Read(f, func(u uow.UnitOfWork) error {
		if u.Users() != u.Users() {
			t.Fatalf("repository must be memoised per unit of work")
		}
		ok, err := u.Users().EmailExists(context.Background(), "nobody@example.com")
		if err != nil || !ok {
			t.Fatalf("override not applied: %v, %v", ok, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if wraps != 1 {
		t.Fatalf("decorator applied %d times, want 1", wraps)
	}
	if c := f.Counts(); c.Begin != 0 || c.Close != 1 {
		t.Fatalf("Read must not open a transaction: %+v", c)
	}
}
