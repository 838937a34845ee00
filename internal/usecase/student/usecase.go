package student

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"donatello-backend/internal/domain"
	"donatello-backend/internal/domain/uow"
	"donatello-backend/internal/usecase"
	"donatello-backend/pkg/credential"
	"donatello-backend/pkg/datetime"
	appErrors "donatello-backend/pkg/errors"
	"donatello-backend/pkg/id"
	"donatello-backend/pkg/logger"
)

// maxNumberAttempts bounds student number generation inside one transaction.
const maxNumberAttempts = 5

type Usecase struct {
	uows uow.Factory
	log  *zap.Logger
	obs  usecase.Observer

	now       func() time.Time
	newNumber func(time.Time) string
}

func NewUsecase(f uow.Factory, log *zap.Logger, obs usecase.Observer) *Usecase {
	return &Usecase{
		uows:      f,
		log:       logger.OrNop(log).Named("student"),
		obs:       usecase.OrNop(obs),
		now:       func() time.Time { return time.Now().UTC() },
		newNumber: id.NewStudentNumber,
	}
}

func (u *Usecase) CreateStudent(ctx context.Context, in CreateStudentInput) (*StudentDTO, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := usecase.Validate(in); err != nil {
		return nil, u.finish("create_student", err)
	}
	dob, err := datetime.Parse(in.DateOfBirth)
	if err != nil {
		return nil, u.finish("create_student", err)
	}

	secret := in.Password
	if secret == "" {
		secret = credential.RandomSecret()
	}
	hash, err := credential.Hash(secret)
	if err != nil {
		return nil, u.finish("create_student", appErrors.Internal(err, "hash credential"))
	}

	var written domain.StudentDetail
	err = uow.WithinTx(ctx, u.uows, func(w uow.UnitOfWork) error {
		exists, err := w.Users().EmailExists(ctx, in.Email)
		if err != nil {
			return err
		}
		if exists {
			return appErrors.AlreadyExists("email %s is already registered", in.Email)
		}
		exists, err = w.Users().NationalIDExists(ctx, in.NationalID)
		if err != nil {
			return err
		}
		if exists {
			return appErrors.AlreadyExists("national id %s is already registered", in.NationalID)
		}

		user, err := w.Users().Add(ctx, &domain.User{
			Email:        in.Email,
			PasswordHash: hash,
			FirstName:    strings.TrimSpace(in.FirstName),
			LastName:     strings.TrimSpace(in.LastName),
			PhoneNumber:  in.PhoneNumber,
			DateOfBirth:  dob,
			NationalID:   in.NationalID,
			IsActive:     true,
		})
		if err != nil {
			return err
		}

		number, err := u.uniqueNumber(ctx, w.Students())
		if err != nil {
			return err
		}

		s, err := w.Students().Add(ctx, &domain.Student{
			UserID:           user.ID,
			StudentNumber:    number,
			Address:          in.Address,
			EmergencyContact: in.EmergencyContact,
			EmergencyPhone:   in.EmergencyPhone,
		})
		if err != nil {
			return err
		}
		written = domain.StudentDetail{Student: *s, User: *user}
		return nil
	})
	if err != nil {
		return nil, u.finish("create_student", err, zap.String("email", in.Email))
	}

	field := zap.String("student_id", written.Student.ID.String())

	dto, err := u.GetStudent(ctx, written.Student.ID)
	if err != nil {
		// the rows are committed; answer with what was written
		u.log.Warn("create_student: re-read failed", field, zap.Error(err))
		dto = toDTO(&written)
	}
	return dto, u.finish("create_student", nil, field)
}

func (u *Usecase) uniqueNumber(ctx context.Context, students domain.StudentRepository) (string, error) {
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number := u.newNumber(u.now())
		taken, err := students.StudentNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
		u.log.Debug("student number collision", zap.String("number", number), zap.Int("attempt", attempt))
	}
	return "", appErrors.Internal(nil, "could not allocate a unique student number")
}

func (u *Usecase) GetStudent(ctx context.Context, studentID uuid.UUID) (*StudentDTO, error) {
	var out *StudentDTO
	err := uow.Read(u.uows, func(w uow.UnitOfWork) error {
		d, err := w.Students().GetByIDWithUser(ctx, studentID)
		if err != nil {
			return err
		}
		out = toDTO(d)
		return nil
	})
	return out, usecase.Wrap(err)
}

func (u *Usecase) GetStudentByNumber(ctx context.Context, number string) (*StudentDTO, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, appErrors.InvalidArgument("student number is required")
	}
	var out *StudentDTO
	err := uow.Read(u.uows, func(w uow.UnitOfWork) error {
		d, err := w.Students().GetByStudentNumber(ctx, number)
		if err != nil {
			return err
		}
		out = toDTO(d)
		return nil
	})
	return out, usecase.Wrap(err)
}

func (u *Usecase) ListStudents(ctx context.Context) ([]StudentDTO, error) {
	var out []StudentDTO
	err := uow.Read(u.uows, func(w uow.UnitOfWork) error {
		list, err := w.Students().GetAllWithUser(ctx)
		if err != nil {
			return err
		}
		out = make([]StudentDTO, 0, len(list))
		for i := range list {
			out = append(out, *toDTO(&list[i]))
		}
		return nil
	})
	return out, usecase.Wrap(err)
}

// DeleteStudent soft deletes the student row; the owning user is left as is.
// It reports false when no visible student had that id.
func (u *Usecase) DeleteStudent(ctx context.Context, studentID uuid.UUID) (bool, error) {
	var deleted bool
	err := uow.WithinTx(ctx, u.uows, func(w uow.UnitOfWork) error {
		var err error
		deleted, err = w.Students().SoftDelete(ctx, studentID)
		return err
	})
	return deleted, u.finish("delete_student", err,
		zap.String("student_id", studentID.String()), zap.Bool("deleted", deleted))
}

func (u *Usecase) finish(op string, err error, fields ...zap.Field) error {
	return usecase.Finish(u.log, u.obs, op, err, fields...)
}
