package backend

import (
	"context"
	"net/http"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

const usersPath = "auth/users/"

// Users implements ports.UserDirectory and the account administration calls.
type Users struct {
	c *Client
}

func (u *Users) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := u.c.do(ctx, call{method: http.MethodGet, path: usersPath,
		message: "Erreur lors du chargement des utilisateurs."}, &out)
	return out, err
}

func (u *Users) Get(ctx context.Context, id int64) (*domain.User, error) {
	var out domain.User
	if err := u.c.do(ctx, call{method: http.MethodGet, path: idPath(usersPath, id, ""),
		message: "Utilisateur introuvable."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the account behind the current token.
func (u *Users) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := u.c.do(ctx, call{method: http.MethodGet, path: usersPath + "me/",
		message: "Erreur lors du chargement du profil."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create registers an account through auth/register/.
func (u *Users) Create(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	var out domain.User
	if err := u.c.do(ctx, call{method: http.MethodPost, path: "auth/register/", body: nu,
		message: "Erreur lors de la création de l'utilisateur."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update patches the given fields of an account.
func (u *Users) Update(ctx context.Context, id int64, fields map[string]any) (*domain.User, error) {
	var out domain.User
	if err := u.c.do(ctx, call{method: http.MethodPatch, path: idPath(usersPath, id, ""), body: fields,
		message: "Erreur lors de la mise à jour de l'utilisateur."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Users) Delete(ctx context.Context, id int64) error {
	return u.c.do(ctx, call{method: http.MethodDelete, path: idPath(usersPath, id, ""),
		message: "Erreur lors de la suppression de l'utilisateur."}, nil)
}

func (u *Users) ByRole(ctx context.Context, role string) ([]domain.User, error) {
	var out []domain.User
	err := u.c.do(ctx, call{method: http.MethodGet, path: usersPath + "role/" + role + "/",
		message: "Erreur lors du chargement des utilisateurs."}, &out)
	return out, err
}

func (u *Users) Professors(ctx context.Context) ([]domain.User, error) {
	return u.ByRole(ctx, domain.RoleProfessor)
}

// UpdateRole changes the backend role of an account. Admin only.
func (u *Users) UpdateRole(ctx context.Context, id int64, role string) (*domain.Message, error) {
	var out domain.Message
	if err := u.c.do(ctx, call{method: http.MethodPatch, path: idPath(usersPath, id, "update_role/"),
		body: map[string]string{"role": role}, message: "Erreur lors du changement de rôle."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyStudents lists the students taught by the current professor, grouped
// by class as the backend returns them.
func (u *Users) MyStudents(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	err := u.c.do(ctx, call{method: http.MethodGet, path: usersPath + "my-students/",
		message: "Erreur lors du chargement des étudiants."}, &out)
	return out, err
}

func (u *Users) MyChildren(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := u.c.do(ctx, call{method: http.MethodGet, path: usersPath + "my-children/",
		message: "Erreur lors du chargement des enfants."}, &out)
	return out, err
}

func (u *Users) StudentsInClass(ctx context.Context, classID int64) ([]domain.User, error) {
	var out []domain.User
	err := u.c.do(ctx, call{method: http.MethodGet, path: idPath(usersPath+"class/", classID, "students/"),
		message: "Impossible de charger la liste des étudiants"}, &out)
	return out, err
}
