package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type LicenseCategory string

const (
	LicenseA1 LicenseCategory = "A1"
	LicenseA2 LicenseCategory = "A2"
	LicenseA  LicenseCategory = "A"
	LicenseB  LicenseCategory = "B"
	LicenseBE LicenseCategory = "BE"
	LicenseC  LicenseCategory = "C"
	LicenseCE LicenseCategory = "CE"
	LicenseD  LicenseCategory = "D"
)

func (c LicenseCategory) Valid() bool {
	switch c {
	case LicenseA1, LicenseA2, LicenseA, LicenseB, LicenseBE, LicenseC, LicenseCE, LicenseD:
		return true
	}
	return false
}

type Course struct {
	Base
	Name            string          `gorm:"size:200;not null;index" json:"name"`
	Description     string          `gorm:"size:1000" json:"description"`
	LicenseCategory LicenseCategory `gorm:"size:4;not null;index" json:"license_category"`
	Price           decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	TheoryHours     int             `gorm:"not null" json:"theory_hours"`
	PracticeHours   int             `gorm:"not null" json:"practice_hours"`
	DurationDays    int             `gorm:"not null" json:"duration_days"`
	IsActive        bool            `gorm:"not null" json:"is_active"`
}

func (Course) TableName() string { return "courses" }

type CourseRepository interface {
	Repository[Course]
	// GetByLicenseCategory returns active courses only.
	GetByLicenseCategory(ctx context.Context, category LicenseCategory) ([]Course, error)
	GetActiveCourses(ctx context.Context) ([]Course, error)
	SearchByName(ctx context.Context, name string) ([]Course, error)
}
