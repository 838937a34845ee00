package enrollment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"donatello-backend/internal/domain"
	"donatello-backend/pkg/datetime"
)

type CreateEnrollmentInput struct {
	StudentID   uuid.UUID       `json:"student_id" validate:"required"`
	CourseID    uuid.UUID       `json:"course_id" validate:"required"`
	TotalAmount decimal.Decimal `json:"total_amount" validate:"dec_gte0,dec2"`
}

type EnrollmentDTO struct {
	ID              string `json:"id"`
	StudentID       string `json:"student_id"`
	StudentNumber   string `json:"student_number,omitempty"`
	StudentName     string `json:"student_name,omitempty"`
	CourseID        string `json:"course_id"`
	CourseName      string `json:"course_name,omitempty"`
	LicenseCategory string `json:"license_category,omitempty"`
	EnrollmentDate  string `json:"enrollment_date"`
	Status          string `json:"status"`
	TotalAmount     string `json:"total_amount"`
	PaidAmount      string `json:"paid_amount"`
	RemainingAmount string `json:"remaining_amount"`
	CompletionDate  string `json:"completion_date,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type PaymentSummary struct {
	ID            string `json:"id"`
	Amount        string `json:"amount"`
	PaymentType   string `json:"payment_type"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
	PaidAt        string `json:"paid_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type EnrollmentWithPaymentsDTO struct {
	EnrollmentDTO
	Payments []PaymentSummary `json:"payments"`
}

// ToDTO renders an enrollment; student and course names are filled when d carries them.
func ToDTO(d *domain.EnrollmentDetail) EnrollmentDTO {
	e := d.Enrollment
	dto := EnrollmentDTO{
		ID:              e.ID.String(),
		StudentID:       e.StudentID.String(),
		CourseID:        e.CourseID.String(),
		EnrollmentDate:  datetime.FormatTimestamp(e.EnrollmentDate),
		Status:          string(e.Status),
		TotalAmount:     e.TotalAmount.StringFixed(2),
		PaidAmount:      e.PaidAmount.StringFixed(2),
		RemainingAmount: e.TotalAmount.Sub(e.PaidAmount).StringFixed(2),
		CompletionDate:  datetime.FormatTimestampPtr(e.CompletionDate),
		CreatedAt:       datetime.FormatTimestamp(e.CreatedAt),
	}
	if d.Student.Student.ID != uuid.Nil {
		dto.StudentNumber = d.Student.Student.StudentNumber
		dto.StudentName = d.Student.User.FirstName + " " + d.Student.User.LastName
	}
	if d.Course.ID != uuid.Nil {
		dto.CourseName = d.Course.Name
		dto.LicenseCategory = string(d.Course.LicenseCategory)
	}
	return dto
}

func toPaymentSummary(p *domain.Payment) PaymentSummary {
	s := PaymentSummary{
		ID:          p.ID.String(),
		Amount:      p.Amount.StringFixed(2),
		PaymentType: string(p.PaymentType),
		Status:      string(p.Status),
		PaidAt:      datetime.FormatTimestampPtr(p.PaidAt),
		CreatedAt:   datetime.FormatTimestamp(p.CreatedAt),
	}
	if p.TransactionID != nil {
		s.TransactionID = *p.TransactionID
	}
	return s
}
