package gormrepo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"donatello-backend/internal/domain"
	"donatello-backend/internal/testutil/dbtest"
	appErrors "donatello-backend/pkg/errors"
)

func TestRepository_AddAssignsIdentityAndTimestamps(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	c := &domain.Course{
		Name:            "Truck",
		LicenseCategory: domain.LicenseC,
		Price:           decimal.RequireFromString("1234.56"),
		IsActive:        true,
	}
	got, err := repo.Add(ctx, c)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got.ID == uuid.Nil {
		t.Fatalf("Add did not assign an id")
	}
	if got.CreatedAt.Before(before) || !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("timestamps not assigned: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}

	loaded, err := repo.GetByID(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !loaded.Price.Equal(decimal.RequireFromString("1234.56")) {
		t.Fatalf("price round trip = %s", loaded.Price)
	}
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewCourseRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !appErrors.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestRepository_UpdateRefreshesTimestamp(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	seeded := dbtest.Course(t, db, func(c *domain.Course) {
		c.CreatedAt = time.Now().UTC().Add(-time.Hour)
		c.UpdatedAt = c.CreatedAt
	})

	c, err := repo.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	c.Name = "Renamed"
	c.IsActive = false
	if _, err := repo.Update(ctx, c); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got := dbtest.Reload[domain.Course](t, db, seeded.ID)
	if got.Name != "Renamed" || got.IsActive {
		t.Fatalf("update not persisted: %+v", got)
	}
	if !got.UpdatedAt.After(seeded.UpdatedAt) {
		t.Fatalf("updated_at not refreshed: %v <= %v", got.UpdatedAt, seeded.UpdatedAt)
	}
	if !got.CreatedAt.Equal(seeded.CreatedAt) {
		t.Fatalf("created_at must not change: %v vs %v", got.CreatedAt, seeded.CreatedAt)
	}
}

func TestRepository_UpdateMissingRow(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewCourseRepository(db)

	ghost := &domain.Course{Base: domain.Base{ID: uuid.New()}, Name: "ghost", LicenseCategory: domain.LicenseB}
	if _, err := repo.Update(context.Background(), ghost); !appErrors.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	if n := dbtest.Count(t, db, "courses", ""); n != 0 {
		t.Fatalf("update must not insert, got %d rows", n)
	}
}

func TestRepository_SoftDeleteVisibility(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	keep := dbtest.Course(t, db, func(c *domain.Course) { c.Name = "keep" })
	gone := dbtest.Course(t, db, func(c *domain.Course) { c.Name = "gone" })

	ok, err := repo.SoftDelete(ctx, gone.ID)
	if err != nil || !ok {
		t.Fatalf("SoftDelete = %v, %v; want true, nil", ok, err)
	}

	if _, err := repo.GetByID(ctx, gone.ID); !appErrors.IsNotFound(err) {
		t.Fatalf("GetByID after delete: err = %v, want not found", err)
	}
	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 || all[0].ID != keep.ID {
		t.Fatalf("GetAll = %+v, want only the kept course", all)
	}
	found, err := repo.Find(ctx, "name = ?", "gone")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("Find returned a deleted row: %+v", found)
	}

	// the physical row is still there, flagged
	raw := dbtest.Reload[domain.Course](t, db, gone.ID)
	if !raw.IsDeleted {
		t.Fatalf("physical row not flagged deleted")
	}

	ok, err = repo.SoftDelete(ctx, gone.ID)
	if err != nil || ok {
		t.Fatalf("second SoftDelete = %v, %v; want false, nil", ok, err)
	}
	ok, err = repo.SoftDelete(ctx, uuid.New())
	if err != nil || ok {
		t.Fatalf("SoftDelete(unknown) = %v, %v; want false, nil", ok, err)
	}
}

func TestRepository_UpdateIgnoresDeletedRow(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	c := dbtest.Course(t, db, func(c *domain.Course) { c.IsDeleted = true })
	c.Name = "resurrected"
	if _, err := repo.Update(ctx, c); !appErrors.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	if got := dbtest.Reload[domain.Course](t, db, c.ID); !got.IsDeleted {
		t.Fatalf("update must not clear the deleted flag")
	}
}

func TestRepository_FindPredicate(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	e := dbtest.Enrollment(t, db)
	dbtest.Payment(t, db, func(p *domain.Payment) { p.EnrollmentID = e.ID; p.PaymentType = domain.PaymentCash })
	dbtest.Payment(t, db, func(p *domain.Payment) { p.EnrollmentID = e.ID; p.PaymentType = domain.PaymentCreditCard })

	got, err := repo.Find(ctx, "payment_type = ?", domain.PaymentCreditCard)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 || got[0].PaymentType != domain.PaymentCreditCard {
		t.Fatalf("Find = %+v", got)
	}
}
