// Package dbtest opens migrated in-memory sqlite databases and seeds rows
// directly through GORM, bypassing repositories.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"donatello-backend/internal/config"
	"donatello-backend/internal/domain"
	infradb "donatello-backend/internal/infrastructure/db"
)

// Open returns a fresh database with foreign keys enforced. sqlite keeps one
// connection per :memory: database, so the pool is capped at one; never read
// through the root handle while a transaction is open on it.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := infradb.OpenGorm(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   ":memory:?_foreign_keys=1",
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := infradb.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

var seq atomic.Int64

func next() int64 { return seq.Add(1) }

func mustCreate(t testing.TB, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}

func base(at time.Time) domain.Base {
	return domain.Base{ID: uuid.New(), CreatedAt: at, UpdatedAt: at}
}

func User(t testing.TB, db *gorm.DB, mutate ...func(*domain.User)) *domain.User {
	t.Helper()
	n := next()
	u := &domain.User{
		Base:        base(time.Now().UTC()),
		Email:       fmt.Sprintf("user%d@example.com", n),
		FirstName:   "First",
		LastName:    fmt.Sprintf("Last%d", n),
		DateOfBirth: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		NationalID:  fmt.Sprintf("%011d", n),
		IsActive:    true,
	}
	for _, m := range mutate {
		m(u)
	}
	mustCreate(t, db, u)
	return u
}

func Student(t testing.TB, db *gorm.DB, mutate ...func(*domain.Student)) *domain.Student {
	t.Helper()
	s := &domain.Student{
		Base:          base(time.Now().UTC()),
		StudentNumber: fmt.Sprintf("STD2025%04d", next()%10000),
		Address:       "Main Street 1",
	}
	for _, m := range mutate {
		m(s)
	}
	if s.UserID == uuid.Nil {
		s.UserID = User(t, db).ID
	}
	mustCreate(t, db, s)
	return s
}

func Course(t testing.TB, db *gorm.DB, mutate ...func(*domain.Course)) *domain.Course {
	t.Helper()
	c := &domain.Course{
		Base:            base(time.Now().UTC()),
		Name:            fmt.Sprintf("Course %d", next()),
		LicenseCategory: domain.LicenseB,
		Price:           decimal.RequireFromString("3500.00"),
		TheoryHours:     24,
		PracticeHours:   16,
		DurationDays:    45,
		IsActive:        true,
	}
	for _, m := range mutate {
		m(c)
	}
	mustCreate(t, db, c)
	return c
}

func Enrollment(t testing.TB, db *gorm.DB, mutate ...func(*domain.Enrollment)) *domain.Enrollment {
	t.Helper()
	now := time.Now().UTC()
	e := &domain.Enrollment{
		Base:           base(now),
		EnrollmentDate: now,
		Status:         domain.EnrollmentPreRegistered,
		TotalAmount:    decimal.RequireFromString("100.00"),
		PaidAmount:     decimal.Zero,
	}
	for _, m := range mutate {
		m(e)
	}
	if e.StudentID == uuid.Nil {
		e.StudentID = Student(t, db).ID
	}
	if e.CourseID == uuid.Nil {
		e.CourseID = Course(t, db).ID
	}
	mustCreate(t, db, e)
	return e
}

func Payment(t testing.TB, db *gorm.DB, mutate ...func(*domain.Payment)) *domain.Payment {
	t.Helper()
	p := &domain.Payment{
		Base:        base(time.Now().UTC()),
		Amount:      decimal.RequireFromString("10.00"),
		PaymentType: domain.PaymentCash,
		Status:      domain.PaymentPending,
	}
	for _, m := range mutate {
		m(p)
	}
	if p.EnrollmentID == uuid.Nil {
		p.EnrollmentID = Enrollment(t, db).ID
	}
	mustCreate(t, db, p)
	return p
}

// FailWrites makes every insert or update ("create"/"update") against table
// fail with err until the test ends.
func FailWrites(t testing.TB, db *gorm.DB, op, table string, err error) {
	t.Helper()
	name := fmt.Sprintf("dbtest:fail_%s_%s_%d", op, table, next())
	cb := func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(err)
		}
	}
	var reg interface {
		Register(name string, fn func(*gorm.DB)) error
	}
	var remove func() error
	switch strings.ToLower(op) {
	case "create":
		p := db.Callback().Create()
		reg = p.Before("gorm:create")
		remove = func() error { return p.Remove(name) }
	case "update":
		p := db.Callback().Update()
		reg = p.Before("gorm:update")
		remove = func() error { return p.Remove(name) }
	default:
		t.Fatalf("FailWrites: unsupported op %q", op)
	}
	if err := reg.Register(name, cb); err != nil {
		t.Fatalf("register callback: %v", err)
	}
	t.Cleanup(func() { _ = remove() })
}

// Reload fetches a row by id ignoring the deleted flag.
func Reload[T any](t testing.TB, db *gorm.DB, id uuid.UUID) *T {
	t.Helper()
	var out T
	if err := db.Where("id = ?", id).Take(&out).Error; err != nil {
		t.Fatalf("reload %T %s: %v", out, id, err)
	}
	return &out
}

// Count counts physical rows in table matching query.
func Count(t testing.TB, db *gorm.DB, table string, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Table(table)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
