package http

import (
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
)

// Routes groups every handler the API serves.
type Routes struct {
	Health      *Handler
	Students    *StudentHandler
	Courses     *CourseHandler
	Enrollments *EnrollmentHandler
	Payments    *PaymentHandler
	// Metrics is mounted on /metrics when set.
	Metrics stdhttp.Handler
}

// Register mounts the routes on e. writes wraps every mutating route, e.g.
// with the idempotency middleware.
func Register(e *echo.Echo, r Routes, writes ...echo.MiddlewareFunc) {
	e.GET("/health", r.Health.Health)
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}

	e.POST("/students", r.Students.CreateStudent, writes...)
	e.GET("/students", r.Students.ListStudents)
	e.GET("/students/number/:number", r.Students.GetStudentByNumber)
	e.GET("/students/:id", r.Students.GetStudent)
	e.DELETE("/students/:id", r.Students.DeleteStudent, writes...)
	e.GET("/students/:id/enrollments", r.Enrollments.ListByStudent)

	e.POST("/courses", r.Courses.CreateCourse, writes...)
	e.GET("/courses", r.Courses.ListCourses)
	e.GET("/courses/search", r.Courses.SearchCourses)
	e.GET("/courses/category/:category", r.Courses.ListByCategory)
	e.GET("/courses/:id", r.Courses.GetCourse)
	e.GET("/courses/:id/enrollments", r.Enrollments.ListByCourse)

	e.POST("/enrollments", r.Enrollments.CreateEnrollment, writes...)
	e.GET("/enrollments/:id", r.Enrollments.GetEnrollment)
	e.GET("/enrollments/:id/payments", r.Payments.ListByEnrollment)

	e.POST("/payments", r.Payments.CreatePayment, writes...)
	e.GET("/payments/pending", r.Payments.ListPending)
	e.GET("/payments/:id", r.Payments.GetPayment)
	e.POST("/payments/:id/process", r.Payments.ProcessPayment, writes...)
}
