package student

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"donatello-backend/internal/adapter/repository/gormrepo"
	"donatello-backend/internal/domain"
	"donatello-backend/internal/testutil/dbtest"
	"donatello-backend/internal/testutil/repomock"
	"donatello-backend/internal/testutil/uowmock"
	"donatello-backend/pkg/credential"
	appErrors "donatello-backend/pkg/errors"
)

func setup(t *testing.T) (*gorm.DB, *uowmock.Factory, *Usecase) {
	t.Helper()
	db := dbtest.Open(t)
	f := uowmock.New(gormrepo.NewFactory(db, nil))
	return db, f, NewUsecase(f, nil, nil)
}

func validInput() CreateStudentInput {
	return CreateStudentInput{
		Email:       "Ada@Example.com",
		Password:    "correct-horse",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: "10.12.1995",
		NationalID:  "12345678901",
		Address:     "Baker Street 221b",
	}
}

func TestCreateStudent_ReReadFailureReturnsCommittedRows(t *testing.T) {
	db, f, uc := setup(t)
	f.StudentsFn = func(next domain.StudentRepository) domain.StudentRepository {
		return &repomock.StudentRepo{
			StudentRepository: next,
			GetByIDWithUserFn: func(context.Context, uuid.UUID) (*domain.StudentDetail, error) {
				return nil, errors.New("connection reset")
			},
		}
	}

	dto, err := uc.CreateStudent(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", dto.Email)
	assert.NotEmpty(t, dto.StudentNumber)
	assert.Equal(t, int64(1), dbtest.Count(t, db, "students", ""))
}

func TestCreateStudent_Success(t *testing.T) {
	db, f, uc := setup(t)

	dto, err := uc.CreateStudent(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", dto.Email)
	assert.Equal(t, "Ada Lovelace", dto.FullName)
	assert.Equal(t, "1995-12-10", dto.DateOfBirth)
	assert.Regexp(t, `^STD\d{4}\d{4}$`, dto.StudentNumber)
	assert.True(t, dto.IsActive)

	c := f.Counts()
	assert.Equal(t, 1, c.Begin)
	assert.Equal(t, 1, c.Commit)
	assert.Equal(t, 1, c.SaveChanges)

	var u domain.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").Take(&u).Error)
	assert.True(t, credential.Verify(u.PasswordHash, "correct-horse"))
	assert.Equal(t, int64(1), dbtest.Count(t, db, "students", "user_id = ?", u.ID))
}

func TestCreateStudent_WithoutPasswordStoresRandomHash(t *testing.T) {
	db, _, uc := setup(t)
	in := validInput()
	in.Password = ""

	_, err := uc.CreateStudent(context.Background(), in)
	require.NoError(t, err)

	var u domain.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").Take(&u).Error)
	assert.NotEmpty(t, u.PasswordHash)
	assert.False(t, credential.Verify(u.PasswordHash, ""))
}

func TestCreateStudent_InvalidDateNeverOpensTransaction(t *testing.T) {
	db, f, uc := setup(t)
	in := validInput()
	in.DateOfBirth = "not-a-date"

	_, err := uc.CreateStudent(context.Background(), in)
	require.Error(t, err)
	assert.True(t, appErrors.IsInvalidArgument(err))
	assert.Equal(t, 0, f.Counts().Begin)
	assert.Equal(t, int64(0), dbtest.Count(t, db, "users", ""))
}

func TestCreateStudent_InvalidInput(t *testing.T) {
	_, f, uc := setup(t)
	in := validInput()
	in.Email = "nope"
	in.NationalID = "123"

	_, err := uc.CreateStudent(context.Background(), in)
	require.Error(t, err)
	assert.True(t, appErrors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "national_id")
	assert.Equal(t, 0, f.Counts().Begin)
}

func TestCreateStudent_DuplicateEmailOrNationalID(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *CreateStudentInput)
	}{
		{"same email", func(in *CreateStudentInput) { in.NationalID = "99999999999" }},
		{"same national id", func(in *CreateStudentInput) { in.Email = "other@example.com" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, f, uc := setup(t)
			ctx := context.Background()

			_, err := uc.CreateStudent(ctx, validInput())
			require.NoError(t, err)

			in := validInput()
			tc.mutate(&in)
			_, err = uc.CreateStudent(ctx, in)
			require.Error(t, err)
			assert.True(t, appErrors.IsAlreadyExists(err), "err = %v", err)

			assert.Equal(t, int64(1), dbtest.Count(t, db, "users", ""))
			assert.Equal(t, int64(1), dbtest.Count(t, db, "students", ""))
			assert.GreaterOrEqual(t, f.Counts().Rollback, 1)
		})
	}
}

func TestCreateStudent_RetriesStudentNumberCollision(t *testing.T) {
	db, f, uc := setup(t)
	taken := dbtest.Student(t, db, func(s *domain.Student) { s.StudentNumber = "STD20251111" })

	numbers := []string{taken.StudentNumber, "STD20252222"}
	calls := 0
	uc.newNumber = func(time.Time) string {
		n := numbers[calls]
		calls++
		return n
	}

	dto, err := uc.CreateStudent(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "STD20252222", dto.StudentNumber)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, f.Counts().Commit)
}

func TestCreateStudent_NumberExhaustionRollsBack(t *testing.T) {
	db, f, uc := setup(t)
	f.StudentsFn = func(next domain.StudentRepository) domain.StudentRepository {
		return &repomock.StudentRepo{
			StudentRepository: next,
			StudentNumberExistsFn: func(context.Context, string) (bool, error) {
				return true, nil
			},
		}
	}

	_, err := uc.CreateStudent(context.Background(), validInput())
	require.Error(t, err)
	assert.True(t, appErrors.IsInternal(err))
	assert.Equal(t, int64(0), dbtest.Count(t, db, "users", ""), "user insert must be rolled back")
	assert.Equal(t, 0, f.Counts().Commit)
}

func TestCreateStudent_StudentInsertFailureRollsBackUser(t *testing.T) {
	db, f, uc := setup(t)
	dbtest.FailWrites(t, db, "create", "students", errors.New("disk full"))

	_, err := uc.CreateStudent(context.Background(), validInput())
	require.Error(t, err)
	assert.True(t, appErrors.IsInternal(err))
	assert.Equal(t, int64(0), dbtest.Count(t, db, "users", ""))
	assert.GreaterOrEqual(t, f.Counts().Rollback, 1)
}

func TestStudentQueries(t *testing.T) {
	db, _, uc := setup(t)
	ctx := context.Background()

	created, err := uc.CreateStudent(ctx, validInput())
	require.NoError(t, err)
	dbtest.Student(t, db)

	got, err := uc.GetStudentByNumber(ctx, created.StudentNumber)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = uc.GetStudentByNumber(ctx, "STD00000000")
	assert.True(t, appErrors.IsNotFound(err))

	list, err := uc.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestDeleteStudent_HidesRow(t *testing.T) {
	db, _, uc := setup(t)
	ctx := context.Background()
	s := dbtest.Student(t, db)

	ok, err := uc.DeleteStudent(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = uc.GetStudent(ctx, s.ID)
	assert.True(t, appErrors.IsNotFound(err))

	row := dbtest.Reload[domain.Student](t, db, s.ID)
	assert.True(t, row.IsDeleted)

	ok, err = uc.DeleteStudent(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
