package course

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"donatello-backend/internal/domain"
	"donatello-backend/internal/domain/uow"
	"donatello-backend/internal/usecase"
	appErrors "donatello-backend/pkg/errors"
	"donatello-backend/pkg/logger"
)

type Usecase struct {
	uows uow.Factory
	log  *zap.Logger
	obs  usecase.Observer
}

func NewUsecase(f uow.Factory, log *zap.Logger, obs usecase.Observer) *Usecase {
	return &Usecase{uows: f, log: logger.OrNop(log).Named("course"), obs: usecase.OrNop(obs)}
}

// CreateCourse adds an active course to the catalogue.
func (u *Usecase) CreateCourse(ctx context.Context, in CreateCourseInput) (*CourseDTO, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.LicenseCategory = domain.LicenseCategory(strings.ToUpper(strings.TrimSpace(string(in.LicenseCategory))))
	if err := usecase.Validate(in); err != nil {
		return nil, usecase.Finish(u.log, u.obs, "create_course", err)
	}

	var out CourseDTO
	err := uow.WithinTx(ctx, u.uows, func(w uow.UnitOfWork) error {
		c, err := w.Courses().Add(ctx, &domain.Course{
			Name:            in.Name,
			Description:     in.Description,
			LicenseCategory: in.LicenseCategory,
			Price:           in.Price.Round(2),
			TheoryHours:     in.TheoryHours,
			PracticeHours:   in.PracticeHours,
			DurationDays:    in.DurationDays,
			IsActive:        true,
		})
		if err != nil {
			return err
		}
		out = toDTO(c)
		return nil
	})
	if err != nil {
		return nil, usecase.Finish(u.log, u.obs, "create_course", err, zap.String("name", in.Name))
	}
	return &out, usecase.Finish(u.log, u.obs, "create_course", nil, zap.String("course_id", out.ID))
}

func (u *Usecase) GetCourse(ctx context.Context, courseID uuid.UUID) (*CourseDTO, error) {
	var out *CourseDTO
	err := uow.Read(u.uows, func(w uow.UnitOfWork) error {
		c, err := w.Courses().GetByID(ctx, courseID)
		if err != nil {
			return err
		}
		dto := toDTO(c)
		out = &dto
		return nil
	})
	return out, usecase.Wrap(err)
}

// GetActiveCourses is ordered by name.
func (u *Usecase) GetActiveCourses(ctx context.Context) ([]CourseDTO, error) {
	return u.list(func(r domain.CourseRepository) ([]domain.Course, error) {
		return r.GetActiveCourses(ctx)
	})
}

func (u *Usecase) GetCoursesByCategory(ctx context.Context, category domain.LicenseCategory) ([]CourseDTO, error) {
	category = domain.LicenseCategory(strings.ToUpper(strings.TrimSpace(string(category))))
	if !category.Valid() {
		return nil, appErrors.InvalidArgument("unknown license category %q", category)
	}
	return u.list(func(r domain.CourseRepository) ([]domain.Course, error) {
		return r.GetByLicenseCategory(ctx, category)
	})
}

// SearchCourses matches name substrings case-insensitively, inactive courses included.
func (u *Usecase) SearchCourses(ctx context.Context, name string) ([]CourseDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErrors.InvalidArgument("search name is required")
	}
	return u.list(func(r domain.CourseRepository) ([]domain.Course, error) {
		return r.SearchByName(ctx, name)
	})
}

func (u *Usecase) list(fetch func(domain.CourseRepository) ([]domain.Course, error)) ([]CourseDTO, error) {
	var out []CourseDTO
	err := uow.Read(u.uows, func(w uow.UnitOfWork) error {
		list, err := fetch(w.Courses())
		if err != nil {
			return err
		}
		out = toDTOs(list)
		return nil
	})
	return out, usecase.Wrap(err)
}
