package gormrepo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"donatello-backend/internal/domain"
	appErrors "donatello-backend/pkg/errors"
)

type CourseRepository struct {
	repository[domain.Course, *domain.Course]
}

var _ domain.CourseRepository = (*CourseRepository)(nil)

func NewCourseRepository(db *gorm.DB) *CourseRepository { return newCourseRepository(fixed(db)) }

func newCourseRepository(s session) *CourseRepository {
	return &CourseRepository{repository[domain.Course, *domain.Course]{s}}
}

func (r *CourseRepository) GetByLicenseCategory(ctx context.Context, category domain.LicenseCategory) ([]domain.Course, error) {
	var out []domain.Course
	err := r.visible(ctx).
		Where("license_category = ? AND is_active = ?", category, true).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, appErrors.Internal(err, "list courses by category")
	}
	return out, nil
}

func (r *CourseRepository) GetActiveCourses(ctx context.Context) ([]domain.Course, error) {
	var out []domain.Course
	if err := r.visible(ctx).Where("is_active = ?", true).Order("name ASC").Find(&out).Error; err != nil {
		return nil, appErrors.Internal(err, "list active courses")
	}
	return out, nil
}

// SearchByName matches a case-insensitive substring, inactive courses included.
func (r *CourseRepository) SearchByName(ctx context.Context, name string) ([]domain.Course, error) {
	var out []domain.Course
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(name))) + "%"
	err := r.visible(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!'", pattern).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, appErrors.Internal(err, "search courses")
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string { return likeEscaper.Replace(s) }
