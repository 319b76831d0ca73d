package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

const (
	assignmentsPath = "assignments/"
	gradesPath      = "grades/"
)

// Assignments implements ports.AssignmentBook.
type Assignments struct {
	c *Client
}

func (a *Assignments) List(ctx context.Context) ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := a.c.do(ctx, call{method: http.MethodGet, path: assignmentsPath,
		message: "Erreur lors du chargement des affectations."}, &out)
	return out, err
}

func (a *Assignments) Get(ctx context.Context, id int64) (*domain.Assignment, error) {
	var out domain.Assignment
	if err := a.c.do(ctx, call{method: http.MethodGet, path: idPath(assignmentsPath, id, ""),
		message: "Affectation introuvable."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new assignment. The subject is sent as matiere_id.
func (a *Assignments) Create(ctx context.Context, in domain.Assignment) (*domain.Assignment, error) {
	var out domain.Assignment
	if err := a.c.do(ctx, call{method: http.MethodPost, path: assignmentsPath, body: in,
		message: "Erreur lors de la création de l'affectation."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Assignments) Update(ctx context.Context, id int64, in domain.Assignment) (*domain.Assignment, error) {
	var out domain.Assignment
	if err := a.c.do(ctx, call{method: http.MethodPatch, path: idPath(assignmentsPath, id, ""), body: in,
		message: "Erreur lors de la mise à jour de l'affectation."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Assignments) Delete(ctx context.Context, id int64) error {
	return a.c.do(ctx, call{method: http.MethodDelete, path: idPath(assignmentsPath, id, ""),
		message: "Erreur lors de la suppression de l'affectation."}, nil)
}

func (a *Assignments) Mine(ctx context.Context) ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := a.c.do(ctx, call{method: http.MethodGet, path: assignmentsPath + "my-assignments/",
		message: "Erreur lors du chargement des affectations."}, &out)
	return out, err
}

func (a *Assignments) BySubject(ctx context.Context, subjectID int64) ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := a.c.do(ctx, call{method: http.MethodGet, path: idPath(assignmentsPath+"subject/", subjectID, ""),
		message: "Erreur lors du chargement des affectations."}, &out)
	return out, err
}

// Grades implements ports.GradeBook and the report endpoints.
type Grades struct {
	c *Client
}

func (g *Grades) List(ctx context.Context) ([]domain.Grade, error) {
	var out []domain.Grade
	err := g.c.do(ctx, call{method: http.MethodGet, path: gradesPath,
		message: "Erreur lors du chargement des notes."}, &out)
	return out, err
}

func (g *Grades) ByAssignment(ctx context.Context, assignmentID int64) ([]domain.Grade, error) {
	var out []domain.Grade
	err := g.c.do(ctx, call{method: http.MethodGet, path: gradesPath,
		query:   url.Values{"assignment": {strconv.FormatInt(assignmentID, 10)}},
		message: "Erreur lors du chargement des notes."}, &out)
	return out, err
}

// Create records a grade. Values outside 0..20 are refused before any
// request is sent.
func (g *Grades) Create(ctx context.Context, in domain.Grade) (*domain.Grade, error) {
	if in.Grade < 0 || in.Grade > domain.MaxGrade {
		return nil, domain.ErrInvalidInput
	}
	var out domain.Grade
	if err := g.c.do(ctx, call{method: http.MethodPost, path: gradesPath, body: in,
		message: "Erreur lors de la soumission de la note."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Grades) Update(ctx context.Context, id int64, value float64) (*domain.Grade, error) {
	if value < 0 || value > domain.MaxGrade {
		return nil, domain.ErrInvalidInput
	}
	var out domain.Grade
	if err := g.c.do(ctx, call{method: http.MethodPatch, path: idPath(gradesPath, id, ""),
		body: map[string]float64{"grade": value}, message: "Erreur lors de la mise à jour de la note."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Grades) Delete(ctx context.Context, id int64) error {
	return g.c.do(ctx, call{method: http.MethodDelete, path: idPath(gradesPath, id, ""),
		message: "Erreur lors de la suppression de la note."}, nil)
}

func (g *Grades) StudentReport(ctx context.Context, studentID int64) (*domain.StudentReport, error) {
	var out domain.StudentReport
	if err := g.c.do(ctx, call{method: http.MethodGet, path: idPath(gradesPath+"student-report/", studentID, ""),
		message: "Erreur lors du chargement du bulletin de notes."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Average returns a student's weighted overall average.
func (g *Grades) Average(ctx context.Context, studentID int64) (*domain.Average, error) {
	var out domain.Average
	if err := g.c.do(ctx, call{method: http.MethodGet, path: idPath(gradesPath, studentID, "moyenne_generale/"),
		message: "Erreur lors du calcul de la moyenne."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Grades) ClassRanking(ctx context.Context, classID int64) (*domain.ClassRanking, error) {
	var out domain.ClassRanking
	if err := g.c.do(ctx, call{method: http.MethodGet, path: idPath(gradesPath+"classement/", classID, ""),
		message: "Erreur lors du chargement du classement."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
