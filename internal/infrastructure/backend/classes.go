package backend

import (
	"context"
	"net/http"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

const (
	classesPath  = "classes/"
	subjectsPath = "subjects/"
)

// Classes implements ports.ClassCatalog and class administration.
type Classes struct {
	c *Client
}

func (cl *Classes) List(ctx context.Context) ([]domain.Classe, error) {
	var out []domain.Classe
	err := cl.c.do(ctx, call{method: http.MethodGet, path: classesPath,
		message: "Erreur lors du chargement des classes."}, &out)
	return out, err
}

func (cl *Classes) Get(ctx context.Context, id int64) (*domain.Classe, error) {
	var out domain.Classe
	if err := cl.c.do(ctx, call{method: http.MethodGet, path: idPath(classesPath, id, ""),
		message: "Classe introuvable."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cl *Classes) Create(ctx context.Context, in domain.Classe) (*domain.Classe, error) {
	var out domain.Classe
	if err := cl.c.do(ctx, call{method: http.MethodPost, path: classesPath, body: in,
		message: "Erreur lors de la création de la classe."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cl *Classes) Update(ctx context.Context, id int64, in domain.Classe) (*domain.Classe, error) {
	var out domain.Classe
	if err := cl.c.do(ctx, call{method: http.MethodPatch, path: idPath(classesPath, id, ""), body: in,
		message: "Erreur lors de la mise à jour de la classe."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cl *Classes) Delete(ctx context.Context, id int64) error {
	return cl.c.do(ctx, call{method: http.MethodDelete, path: idPath(classesPath, id, ""),
		message: "Erreur lors de la suppression de la classe."}, nil)
}

// Mine lists the classes of the current professor.
func (cl *Classes) Mine(ctx context.Context) ([]domain.Classe, error) {
	var out []domain.Classe
	err := cl.c.do(ctx, call{method: http.MethodGet, path: classesPath + "my-classes/",
		message: "Impossible de charger les classes. Veuillez réessayer plus tard."}, &out)
	return out, err
}

// Subjects implements ports.SubjectCatalog and subject administration.
type Subjects struct {
	c *Client
}

func (s *Subjects) List(ctx context.Context) ([]domain.Subject, error) {
	var out []domain.Subject
	err := s.c.do(ctx, call{method: http.MethodGet, path: subjectsPath,
		message: "Erreur lors du chargement des matières."}, &out)
	return out, err
}

func (s *Subjects) Get(ctx context.Context, id int64) (*domain.Subject, error) {
	var out domain.Subject
	if err := s.c.do(ctx, call{method: http.MethodGet, path: idPath(subjectsPath, id, ""),
		message: "Matière introuvable."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Subjects) Create(ctx context.Context, in domain.Subject) (*domain.Subject, error) {
	var out domain.Subject
	if err := s.c.do(ctx, call{method: http.MethodPost, path: subjectsPath, body: in,
		message: "Erreur lors de la création de la matière."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Subjects) Update(ctx context.Context, id int64, in domain.Subject) (*domain.Subject, error) {
	var out domain.Subject
	if err := s.c.do(ctx, call{method: http.MethodPatch, path: idPath(subjectsPath, id, ""), body: in,
		message: "Erreur lors de la mise à jour de la matière."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Subjects) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, call{method: http.MethodDelete, path: idPath(subjectsPath, id, ""),
		message: "Erreur lors de la suppression de la matière."}, nil)
}

// Mine lists the subjects taught by the current professor.
func (s *Subjects) Mine(ctx context.Context) ([]domain.Subject, error) {
	var out []domain.Subject
	err := s.c.do(ctx, call{method: http.MethodGet, path: subjectsPath + "my-subjects/",
		message: "Erreur lors du chargement des matières."}, &out)
	return out, err
}

func (s *Subjects) ByClass(ctx context.Context, classID int64) ([]domain.Subject, error) {
	var out []domain.Subject
	err := s.c.do(ctx, call{method: http.MethodGet, path: idPath(subjectsPath+"classe/", classID, ""),
		message: "Erreur lors du chargement des matières."}, &out)
	return out, err
}
