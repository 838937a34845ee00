package gormrepo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"donatello-backend/internal/domain"
	appErrors "donatello-backend/pkg/errors"
)

// Related rows are attached by explicit batch lookups keyed by id. Attached
// rows are loaded regardless of their deleted flag: the parent is what the
// caller asked for.

func loadByIDs[T any, PT interface {
	*T
	domain.Entity
}](db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]T, error) {
	out := make(map[uuid.UUID]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []T
	if err := db.Where("id IN ?", uniq(ids)).Find(&rows).Error; err != nil {
		return nil, appErrors.Internal(err, "load "+PT(new(T)).TableName())
	}
	for i := range rows {
		out[PT(&rows[i]).Meta().ID] = rows[i]
	}
	return out, nil
}

func studentDetails(db *gorm.DB, rows []domain.Student) ([]domain.StudentDetail, error) {
	userIDs := make([]uuid.UUID, 0, len(rows))
	for _, s := range rows {
		userIDs = append(userIDs, s.UserID)
	}
	users, err := loadByIDs[domain.User](db, userIDs)
	if err != nil {
		return nil, err
	}
	out := make([]domain.StudentDetail, 0, len(rows))
	for _, s := range rows {
		out = append(out, domain.StudentDetail{Student: s, User: users[s.UserID]})
	}
	return out, nil
}

func enrollmentDetails(db *gorm.DB, rows []domain.Enrollment) ([]domain.EnrollmentDetail, error) {
	studentIDs := make([]uuid.UUID, 0, len(rows))
	courseIDs := make([]uuid.UUID, 0, len(rows))
	for _, e := range rows {
		studentIDs = append(studentIDs, e.StudentID)
		courseIDs = append(courseIDs, e.CourseID)
	}

	students, err := loadByIDs[domain.Student](db, studentIDs)
	if err != nil {
		return nil, err
	}
	studentRows := make([]domain.Student, 0, len(students))
	for _, s := range students {
		studentRows = append(studentRows, s)
	}
	details, err := studentDetails(db, studentRows)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[uuid.UUID]domain.StudentDetail, len(details))
	for _, d := range details {
		byStudent[d.Student.ID] = d
	}

	courses, err := loadByIDs[domain.Course](db, courseIDs)
	if err != nil {
		return nil, err
	}

	out := make([]domain.EnrollmentDetail, 0, len(rows))
	for _, e := range rows {
		out = append(out, domain.EnrollmentDetail{
			Enrollment: e,
			Student:    byStudent[e.StudentID],
			Course:     courses[e.CourseID],
		})
	}
	return out, nil
}

func paymentDetails(db *gorm.DB, rows []domain.Payment) ([]domain.PaymentDetail, error) {
	enrollmentIDs := make([]uuid.UUID, 0, len(rows))
	for _, p := range rows {
		enrollmentIDs = append(enrollmentIDs, p.EnrollmentID)
	}
	enrollments, err := loadByIDs[domain.Enrollment](db, enrollmentIDs)
	if err != nil {
		return nil, err
	}
	enrollmentRows := make([]domain.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		enrollmentRows = append(enrollmentRows, e)
	}
	details, err := enrollmentDetails(db, enrollmentRows)
	if err != nil {
		return nil, err
	}
	byEnrollment := make(map[uuid.UUID]domain.EnrollmentDetail, len(details))
	for _, d := range details {
		byEnrollment[d.Enrollment.ID] = d
	}

	out := make([]domain.PaymentDetail, 0, len(rows))
	for _, p := range rows {
		out = append(out, domain.PaymentDetail{Payment: p, Enrollment: byEnrollment[p.EnrollmentID]})
	}
	return out, nil
}

func uniq(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
