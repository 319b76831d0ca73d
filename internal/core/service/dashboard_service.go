package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/ports"
)

// Fallback names used when a join cannot resolve a reference.
const (
	UnknownClassName    = "Inconnu"
	UnassignedProfessor = "Non Assigné"
)

// Backends groups the resource clients a dashboard reads from.
type Backends struct {
	Users       ports.UserDirectory
	Classes     ports.ClassCatalog
	Subjects    ports.SubjectCatalog
	Assignments ports.AssignmentBook
	Grades      ports.GradeBook
	Attendance  ports.AttendanceRegister
}

// DashboardService assembles page data from several concurrent reads. A
// view is returned only when every read succeeded; there is no partial
// result. When ctx ends while reads are outstanding the results are dropped.
type DashboardService struct {
	b Backends
}

func NewDashboardService(b Backends) *DashboardService {
	return &DashboardService{b: b}
}

// AdminOverview counts the records an administrator manages.
type AdminOverview struct {
	Users       int            `json:"users"`
	UsersByRole map[string]int `json:"users_by_role"`
	Classes     int            `json:"classes"`
	Subjects    int            `json:"subjects"`
}

func (s *DashboardService) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	var (
		users    []domain.User
		classes  []domain.Classe
		subjects []domain.Subject
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { users, err = s.b.Users.List(gctx); return })
	g.Go(func() (err error) { classes, err = s.b.Classes.List(gctx); return })
	g.Go(func() (err error) { subjects, err = s.b.Subjects.List(gctx); return })
	if err := settle(ctx, g); err != nil {
		return nil, fmt.Errorf("admin overview: %w", err)
	}

	byRole := make(map[string]int)
	for _, u := range users {
		byRole[u.Role]++
	}
	return &AdminOverview{
		Users:       len(users),
		UsersByRole: byRole,
		Classes:     len(classes),
		Subjects:    len(subjects),
	}, nil
}

// SubjectView is a subject decorated with the names of its class and
// professor.
type SubjectView struct {
	domain.Subject
	ClasseName    string `json:"classe_name"`
	ProfessorName string `json:"professor_name"`
}

// SubjectCatalog joins subjects with classes and professors.
func (s *DashboardService) SubjectCatalog(ctx context.Context) ([]SubjectView, error) {
	var (
		subjects   []domain.Subject
		classes    []domain.Classe
		professors []domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { subjects, err = s.b.Subjects.List(gctx); return })
	g.Go(func() (err error) { classes, err = s.b.Classes.List(gctx); return })
	g.Go(func() (err error) { professors, err = s.b.Users.ByRole(gctx, domain.RoleProfessor); return })
	if err := settle(ctx, g); err != nil {
		return nil, fmt.Errorf("subject catalog: %w", err)
	}

	classNames := make(map[int64]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
	}
	profNames := make(map[int64]string, len(professors))
	for _, p := range professors {
		profNames[p.ID] = p.Username
	}

	views := make([]SubjectView, len(subjects))
	for i, subj := range subjects {
		v := SubjectView{Subject: subj, ClasseName: UnknownClassName, ProfessorName: UnassignedProfessor}
		if name, ok := classNames[subj.Classe]; ok {
			v.ClasseName = name
		}
		if subj.Professor != nil {
			if name, ok := profNames[*subj.Professor]; ok {
				v.ProfessorName = name
			}
		}
		views[i] = v
	}
	return views, nil
}

// SupervisorOverview lists classes next to their attendance statistics.
type SupervisorOverview struct {
	Classes    []domain.Classe          `json:"classes"`
	Attendance []domain.ClassAttendance `json:"attendance"`
}

func (s *DashboardService) SupervisorOverview(ctx context.Context) (*SupervisorOverview, error) {
	out := &SupervisorOverview{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { out.Classes, err = s.b.Classes.List(gctx); return })
	g.Go(func() (err error) { out.Attendance, err = s.b.Attendance.ClassStats(gctx); return })
	if err := settle(ctx, g); err != nil {
		return nil, fmt.Errorf("supervisor overview: %w", err)
	}
	return out, nil
}

// ProfessorOverview lists what the current professor teaches.
type ProfessorOverview struct {
	Classes  []domain.Classe  `json:"classes"`
	Subjects []domain.Subject `json:"subjects"`
}

func (s *DashboardService) ProfessorOverview(ctx context.Context) (*ProfessorOverview, error) {
	out := &ProfessorOverview{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { out.Classes, err = s.b.Classes.Mine(gctx); return })
	g.Go(func() (err error) { out.Subjects, err = s.b.Subjects.Mine(gctx); return })
	if err := settle(ctx, g); err != nil {
		return nil, fmt.Errorf("professor overview: %w", err)
	}
	return out, nil
}

// SubjectAssignments is one subject with its assignments.
type SubjectAssignments struct {
	Subject     domain.Subject      `json:"subject"`
	Assignments []domain.Assignment `json:"assignments"`
}

// ProfessorClass loads the subjects of a class, then every subject's
// assignments concurrently.
func (s *DashboardService) ProfessorClass(ctx context.Context, classID int64) ([]SubjectAssignments, error) {
	subjects, err := s.b.Subjects.ByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("professor class %d: %w", classID, err)
	}

	out := make([]SubjectAssignments, len(subjects))
	g, gctx := errgroup.WithContext(ctx)
	for i, subj := range subjects {
		out[i].Subject = subj
		g.Go(func() (err error) {
			out[i].Assignments, err = s.b.Assignments.BySubject(gctx, subj.ID)
			return
		})
	}
	if err := settle(ctx, g); err != nil {
		return nil, fmt.Errorf("professor class %d: %w", classID, err)
	}
	return out, nil
}

// GradeSheet is what a professor needs to grade one assignment.
type GradeSheet struct {
	Assignment *domain.Assignment `json:"assignment"`
	Students   []domain.User      `json:"students"`
	Grades     []domain.Grade     `json:"grades"`
}

// GradeSheet loads the assignment, then its class roster and existing grades.
func (s *DashboardService) GradeSheet(ctx context.Context, assignmentID int64) (*GradeSheet, error) {
	assignment, err := s.b.Assignments.Get(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("grade sheet %d: %w", assignmentID, err)
	}
	out := &GradeSheet{Assignment: assignment}

	g, gctx := errgroup.WithContext(ctx)
	if assignment.Matiere != nil {
		classID := assignment.Matiere.Classe
		g.Go(func() (err error) { out.Students, err = s.b.Users.StudentsInClass(gctx, classID); return })
	}
	g.Go(func() (err error) { out.Grades, err = s.b.Grades.ByAssignment(gctx, assignmentID); return })
	if err := settle(ctx, g); err != nil {
		return nil, fmt.Errorf("grade sheet %d: %w", assignmentID, err)
	}
	return out, nil
}

// StudentOverview is a student's report card and presence history.
type StudentOverview struct {
	Report     *domain.StudentReport `json:"report"`
	Attendance []domain.Attendance   `json:"attendance"`
}

func (s *DashboardService) StudentOverview(ctx context.Context, studentID int64) (*StudentOverview, error) {
	out := &StudentOverview{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { out.Report, err = s.b.Grades.StudentReport(gctx, studentID); return })
	g.Go(func() (err error) { out.Attendance, err = s.b.Attendance.Mine(gctx); return })
	if err := settle(ctx, g); err != nil {
		return nil, fmt.Errorf("student overview: %w", err)
	}
	return out, nil
}

// ChildOverview is what a parent sees of one child. Attendance is read
// through the history filter since the child's own feed is not reachable
// with the parent's token.
func (s *DashboardService) ChildOverview(ctx context.Context, childID int64) (*StudentOverview, error) {
	out := &StudentOverview{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { out.Report, err = s.b.Grades.StudentReport(gctx, childID); return })
	g.Go(func() (err error) {
		out.Attendance, err = s.b.Attendance.History(gctx, domain.AttendanceFilter{Student: childID})
		return
	})
	if err := settle(ctx, g); err != nil {
		return nil, fmt.Errorf("child overview: %w", err)
	}
	return out, nil
}

// settle waits for every read, then refuses to hand results to a caller
// whose context has already ended.
func settle(ctx context.Context, g *errgroup.Group) error {
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
