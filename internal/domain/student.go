package domain

import (
	"context"

	"github.com/google/uuid"
)

type Student struct {
	Base
	UserID           uuid.UUID `gorm:"type:char(36);not null;index" json:"user_id"`
	StudentNumber    string    `gorm:"size:20;not null;uniqueIndex:ux_students_number" json:"student_number"`
	Address          string    `gorm:"size:500" json:"address"`
	EmergencyContact string    `gorm:"size:200" json:"emergency_contact"`
	EmergencyPhone   string    `gorm:"size:20" json:"emergency_phone"`
}

func (Student) TableName() string { return "students" }

// StudentDetail is a student with its owning user attached.
type StudentDetail struct {
	Student Student
	User    User
}

type StudentRepository interface {
	Repository[Student]
	GetByIDWithUser(ctx context.Context, id uuid.UUID) (*StudentDetail, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Student, error)
	GetByStudentNumber(ctx context.Context, number string) (*StudentDetail, error)
	StudentNumberExists(ctx context.Context, number string) (bool, error)
	GetAllWithUser(ctx context.Context) ([]StudentDetail, error)
}
