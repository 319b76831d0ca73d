package ports

import (
	"context"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

// UserDirectory reads accounts.
type UserDirectory interface {
	List(ctx context.Context) ([]domain.User, error)
	ByRole(ctx context.Context, role string) ([]domain.User, error)
	StudentsInClass(ctx context.Context, classID int64) ([]domain.User, error)
	MyChildren(ctx context.Context) ([]domain.User, error)
}

// ClassCatalog reads classes.
type ClassCatalog interface {
	List(ctx context.Context) ([]domain.Classe, error)
	Mine(ctx context.Context) ([]domain.Classe, error)
}

// SubjectCatalog reads subjects.
type SubjectCatalog interface {
	List(ctx context.Context) ([]domain.Subject, error)
	ByClass(ctx context.Context, classID int64) ([]domain.Subject, error)
	Mine(ctx context.Context) ([]domain.Subject, error)
}

// AssignmentBook reads assignments.
type AssignmentBook interface {
	Get(ctx context.Context, id int64) (*domain.Assignment, error)
	BySubject(ctx context.Context, subjectID int64) ([]domain.Assignment, error)
}

// GradeBook reads and records grades.
type GradeBook interface {
	ByAssignment(ctx context.Context, assignmentID int64) ([]domain.Grade, error)
	StudentReport(ctx context.Context, studentID int64) (*domain.StudentReport, error)
	Create(ctx context.Context, g domain.Grade) (*domain.Grade, error)
}

// AttendanceRegister reads and records presence.
type AttendanceRegister interface {
	Mark(ctx context.Context, a domain.Attendance) (*domain.Attendance, error)
	Mine(ctx context.Context) ([]domain.Attendance, error)
	History(ctx context.Context, f domain.AttendanceFilter) ([]domain.Attendance, error)
	ClassStats(ctx context.Context) ([]domain.ClassAttendance, error)
}
