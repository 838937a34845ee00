package student

import (
	"donatello-backend/internal/domain"
	"donatello-backend/pkg/datetime"
)

type CreateStudentInput struct {
	Email            string `json:"email" validate:"required,email,max=255"`
	Password         string `json:"password" validate:"omitempty,min=8,max=72"`
	FirstName        string `json:"first_name" validate:"required,max=100"`
	LastName         string `json:"last_name" validate:"required,max=100"`
	PhoneNumber      string `json:"phone_number" validate:"max=20"`
	DateOfBirth      string `json:"date_of_birth" validate:"required"`
	NationalID       string `json:"national_id" validate:"required,len=11,numeric"`
	Address          string `json:"address" validate:"max=500"`
	EmergencyContact string `json:"emergency_contact" validate:"max=200"`
	EmergencyPhone   string `json:"emergency_phone" validate:"max=20"`
}

type StudentDTO struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	StudentNumber    string `json:"student_number"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	FullName         string `json:"full_name"`
	PhoneNumber      string `json:"phone_number"`
	DateOfBirth      string `json:"date_of_birth"`
	NationalID       string `json:"national_id"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`
	IsActive         bool   `json:"is_active"`
	CreatedAt        string `json:"created_at"`
}

func toDTO(d *domain.StudentDetail) *StudentDTO {
	s, u := d.Student, d.User
	return &StudentDTO{
		ID:               s.ID.String(),
		UserID:           s.UserID.String(),
		StudentNumber:    s.StudentNumber,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		FullName:         u.FirstName + " " + u.LastName,
		PhoneNumber:      u.PhoneNumber,
		DateOfBirth:      datetime.FormatDate(u.DateOfBirth),
		NationalID:       u.NationalID,
		Address:          s.Address,
		EmergencyContact: s.EmergencyContact,
		EmergencyPhone:   s.EmergencyPhone,
		IsActive:         u.IsActive,
		CreatedAt:        datetime.FormatTimestamp(s.CreatedAt),
	}
}
