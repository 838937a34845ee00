package course

import (
	"github.com/shopspring/decimal"

	"donatello-backend/internal/domain"
	"donatello-backend/pkg/datetime"
)

type CreateCourseInput struct {
	Name            string                 `json:"name" validate:"required,max=200"`
	Description     string                 `json:"description" validate:"max=1000"`
	LicenseCategory domain.LicenseCategory `json:"license_category" validate:"required,license"`
	Price           decimal.Decimal        `json:"price" validate:"dec_gte0,dec2"`
	TheoryHours     int                    `json:"theory_hours" validate:"gte=0"`
	PracticeHours   int                    `json:"practice_hours" validate:"gte=0"`
	DurationDays    int                    `json:"duration_days" validate:"gte=0"`
}

type CourseDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	LicenseCategory string `json:"license_category"`
	Price           string `json:"price"`
	TheoryHours     int    `json:"theory_hours"`
	PracticeHours   int    `json:"practice_hours"`
	DurationDays    int    `json:"duration_days"`
	IsActive        bool   `json:"is_active"`
	CreatedAt       string `json:"created_at"`
}

func toDTO(c *domain.Course) CourseDTO {
	return CourseDTO{
		ID:              c.ID.String(),
		Name:            c.Name,
		Description:     c.Description,
		LicenseCategory: string(c.LicenseCategory),
		Price:           c.Price.StringFixed(2),
		TheoryHours:     c.TheoryHours,
		PracticeHours:   c.PracticeHours,
		DurationDays:    c.DurationDays,
		IsActive:        c.IsActive,
		CreatedAt:       datetime.FormatTimestamp(c.CreatedAt),
	}
}

func toDTOs(list []domain.Course) []CourseDTO {
	out := make([]CourseDTO, 0, len(list))
	for i := range list {
		out = append(out, toDTO(&list[i]))
	}
	return out
}
