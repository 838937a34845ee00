package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"donatello-backend/internal/domain"
)

// Schema mirrors: the domain records carry no navigation fields, so the
// foreign keys (restrict on delete) are declared here for migration only.
type userRow struct{ domain.User }

type courseRow struct{ domain.Course }

type studentRow struct {
	domain.Student
	User userRow `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

type enrollmentRow struct {
	domain.Enrollment
	Student studentRow `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Course  courseRow  `gorm:"foreignKey:CourseID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

type paymentRow struct {
	domain.Payment
	Enrollment enrollmentRow `gorm:"foreignKey:EnrollmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// Migrate creates or updates the five tables, parents first.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userRow{},
		&courseRow{},
		&studentRow{},
		&enrollmentRow{},
		&paymentRow{},
	)
}

var (
	seedCourseA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	seedCourseB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	seedAt      = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

// SeedCourses inserts the two catalogue courses; existing ids are left untouched.
func SeedCourses(db *gorm.DB) error {
	courses := []domain.Course{
		{
			Base:            domain.Base{ID: seedCourseA, CreatedAt: seedAt, UpdatedAt: seedAt},
			Name:            "Motorcycle License (A Class)",
			LicenseCategory: domain.LicenseA,
			Price:           decimal.NewFromInt(2500),
			TheoryHours:     12,
			PracticeHours:   8,
			DurationDays:    30,
			IsActive:        true,
		},
		{
			Base:            domain.Base{ID: seedCourseB, CreatedAt: seedAt, UpdatedAt: seedAt},
			Name:            "Car License (B Class)",
			LicenseCategory: domain.LicenseB,
			Price:           decimal.NewFromInt(3500),
			TheoryHours:     24,
			PracticeHours:   16,
			DurationDays:    45,
			IsActive:        true,
		},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&courses).Error
}
