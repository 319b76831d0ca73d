package domain

import "time"

// User is an account as exposed by the backend user endpoints.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	Classe   *int64 `json:"classe,omitempty"`
	Parent   *int64 `json:"parent,omitempty"`
}

// NewUser is the payload for account creation. Classe and Parent are only
// kept by the backend for students.
type NewUser struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
	Classe   *int64 `json:"classe,omitempty"`
	Parent   *int64 `json:"parent,omitempty"`
}

// Classe is a school class.
type Classe struct {
	ID           int64  `json:"id"`
	Name         string `json:"name" validate:"required"`
	StudentCount int    `json:"student_count,omitempty"`
}

// Subject is a matière taught in one class, optionally by one professor.
type Subject struct {
	ID            int64  `json:"id"`
	Name          string `json:"name" validate:"required"`
	Classe        int64  `json:"classe" validate:"required"`
	Professor     *int64 `json:"professor,omitempty"`
	Coefficient   int    `json:"coefficient,omitempty" validate:"omitempty,gte=1"`
	ProfessorName string `json:"professor_name,omitempty"`
}

// Assignment is a graded piece of work attached to a subject.
type Assignment struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Matiere     *Subject `json:"matiere,omitempty"`
	MatiereID   int64    `json:"matiere_id,omitempty"`
}

// Grade is a note given by a professor to a student for an assignment.
type Grade struct {
	ID               int64       `json:"id,omitempty"`
	Student          int64       `json:"student" validate:"required"`
	Assignment       int64       `json:"assignment" validate:"required"`
	AssignmentDetail *Assignment `json:"assignment_detail,omitempty"`
	Professor        int64       `json:"professor,omitempty"`
	Grade            float64     `json:"grade" validate:"gte=0,lte=20"`
	Date             *time.Time  `json:"date,omitempty"`
}

// MaxGrade is the upper bound of the grading scale.
const MaxGrade = 20.0

// StudentReport is the per-student grade summary.
type StudentReport struct {
	Student         string  `json:"student"`
	Classe          *string `json:"classe"`
	MoyenneGenerale float64 `json:"moyenne_generale"`
	Grades          []Grade `json:"grades"`
}

// Average is a student's weighted overall average.
type Average struct {
	Student         string  `json:"student"`
	MoyenneGenerale float64 `json:"moyenne_generale"`
}

// RankedStudent is one line of a class ranking.
type RankedStudent struct {
	Student         string  `json:"student"`
	MoyenneGenerale float64 `json:"moyenne_generale"`
	Rank            int     `json:"rank"`
}

// ClassRanking orders the students of a class by average.
type ClassRanking struct {
	Classe     string          `json:"classe"`
	Classement []RankedStudent `json:"classement"`
}

// AttendanceStatus is the presence state of one person for one day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// Valid reports whether s is one of the statuses the backend accepts.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// Attendance is one presence record.
type Attendance struct {
	ID      int64            `json:"id,omitempty"`
	Student int64            `json:"student"`
	Classe  int64            `json:"classe"`
	Date    string           `json:"date,omitempty"`
	Status  AttendanceStatus `json:"status"`
}

// AttendanceFilter narrows an attendance history query. Zero values are
// omitted from the query string.
type AttendanceFilter struct {
	Classe  int64
	Student int64
	Status  AttendanceStatus
	Date    string
}

// ClassAttendance is the backend's per-class attendance aggregate. Its shape
// is owned by the backend, so it is kept loosely typed.
type ClassAttendance map[string]any

// Bulletin is a term report sheet for a class. Downloads are refused by the
// backend until it is confirmed.
type Bulletin struct {
	ID          int64      `json:"id"`
	Classe      int64      `json:"classe" validate:"required"`
	TermName    string     `json:"term_name" validate:"required"`
	IsConfirmed bool       `json:"is_confirmed"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Message is the acknowledgement body some backend actions return.
type Message struct {
	Message string `json:"message"`
}
