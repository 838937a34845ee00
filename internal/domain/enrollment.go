package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EnrollmentStatus string

const (
	EnrollmentPreRegistered EnrollmentStatus = "pre_registered"
	EnrollmentActive        EnrollmentStatus = "active"
	EnrollmentCompleted     EnrollmentStatus = "completed"
	EnrollmentCancelled     EnrollmentStatus = "cancelled"
	EnrollmentSuspended     EnrollmentStatus = "suspended"
)

type Enrollment struct {
	Base
	StudentID      uuid.UUID        `gorm:"type:char(36);not null;index" json:"student_id"`
	CourseID       uuid.UUID        `gorm:"type:char(36);not null;index" json:"course_id"`
	EnrollmentDate time.Time        `gorm:"not null" json:"enrollment_date"`
	Status         EnrollmentStatus `gorm:"size:20;not null;index" json:"status"`
	TotalAmount    decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	PaidAmount     decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"paid_amount"`
	CompletionDate *time.Time       `json:"completion_date,omitempty"`
}

func (Enrollment) TableName() string { return "enrollments" }

// EnrollmentDetail attaches the student (with user) and course.
type EnrollmentDetail struct {
	Enrollment Enrollment
	Student    StudentDetail
	Course     Course
}

type EnrollmentWithPayments struct {
	EnrollmentDetail
	Payments []Payment
}

type EnrollmentRepository interface {
	Repository[Enrollment]
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Enrollment, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*EnrollmentDetail, error)
	// GetByStudentID orders newest first.
	GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]EnrollmentDetail, error)
	GetByCourseID(ctx context.Context, courseID uuid.UUID) ([]Enrollment, error)
	GetWithPayments(ctx context.Context, id uuid.UUID) (*EnrollmentWithPayments, error)
}
