package gormrepo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"donatello-backend/internal/domain"
	"donatello-backend/internal/testutil/dbtest"
	appErrors "donatello-backend/pkg/errors"
)

func TestEnrollmentRepository_GetByStudentID_NewestFirstWithContext(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	st := dbtest.Student(t, db)
	course := dbtest.Course(t, db, func(c *domain.Course) { c.Name = "Car" })
	old := dbtest.Enrollment(t, db, func(e *domain.Enrollment) {
		e.StudentID, e.CourseID = st.ID, course.ID
		e.EnrollmentDate = time.Now().UTC().Add(-48 * time.Hour)
	})
	recent := dbtest.Enrollment(t, db, func(e *domain.Enrollment) {
		e.StudentID, e.CourseID = st.ID, course.ID
	})
	dbtest.Enrollment(t, db) // another student
	dbtest.Enrollment(t, db, func(e *domain.Enrollment) { e.StudentID = st.ID; e.IsDeleted = true })

	got, err := repo.GetByStudentID(ctx, st.ID)
	if err != nil {
		t.Fatalf("GetByStudentID: %v", err)
	}
	if len(got) != 2 || got[0].Enrollment.ID != recent.ID || got[1].Enrollment.ID != old.ID {
		t.Fatalf("unexpected order: %+v", got)
	}
	for _, d := range got {
		if d.Student.Student.ID != st.ID || d.Student.User.ID != st.UserID || d.Course.Name != "Car" {
			t.Fatalf("context not attached: %+v", d)
		}
	}
}

func TestEnrollmentRepository_GetByCourseID(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewEnrollmentRepository(db)

	course := dbtest.Course(t, db)
	a := dbtest.Enrollment(t, db, func(e *domain.Enrollment) { e.CourseID = course.ID })
	dbtest.Enrollment(t, db)

	got, err := repo.GetByCourseID(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("GetByCourseID: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("GetByCourseID = %+v", got)
	}
}

func TestEnrollmentRepository_GetWithPayments(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	e := dbtest.Enrollment(t, db, func(e *domain.Enrollment) {
		e.TotalAmount = decimal.RequireFromString("250.00")
		e.PaidAmount = decimal.RequireFromString("100.00")
	})
	p1 := dbtest.Payment(t, db, func(p *domain.Payment) { p.EnrollmentID = e.ID })
	dbtest.Payment(t, db, func(p *domain.Payment) { p.EnrollmentID = e.ID; p.IsDeleted = true })
	dbtest.Payment(t, db)

	got, err := repo.GetWithPayments(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetWithPayments: %v", err)
	}
	if got.Enrollment.ID != e.ID || len(got.Payments) != 1 || got.Payments[0].ID != p1.ID {
		t.Fatalf("unexpected: %+v", got)
	}
	if !got.Enrollment.TotalAmount.Equal(decimal.RequireFromString("250")) || got.Course.ID != e.CourseID {
		t.Fatalf("detail not populated: %+v", got.EnrollmentDetail)
	}

	if _, err := repo.GetWithPayments(ctx, p1.ID); !appErrors.IsNotFound(err) {
		t.Fatalf("unknown enrollment err = %v", err)
	}
}

func TestEnrollmentRepository_GetByIDForUpdate(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	e := dbtest.Enrollment(t, db)
	got, err := repo.GetByIDForUpdate(ctx, e.ID)
	if err != nil || got.ID != e.ID {
		t.Fatalf("GetByIDForUpdate = %+v, %v", got, err)
	}

	if _, err := repo.SoftDelete(ctx, e.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if _, err := repo.GetByIDForUpdate(ctx, e.ID); !appErrors.IsNotFound(err) {
		t.Fatalf("locked read of deleted row err = %v", err)
	}
}
