package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

// AdminHandler serves the Direction management pages.
type AdminHandler struct {
	deps Deps
}

func NewAdminHandler(deps Deps) *AdminHandler {
	return &AdminHandler{deps: deps}
}

type updateRoleRequest struct {
	Role string `json:"role" form:"role" validate:"required,role"`
}

type createBulletinRequest struct {
	Classe   int64  `json:"classe" form:"classe" validate:"required,gt=0"`
	TermName string `json:"term_name" form:"term_name" validate:"required"`
}

// Dashboard counts the accounts, classes and subjects of the school.
//
// @Summary      Direction overview
// @Tags         admin
// @Produce      json
// @Success      200  {object}  service.AdminOverview
// @Router       /admin-dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	out, err := dashboards(cl).AdminOverview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// ListUsers lists accounts, optionally filtered by role label.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Param        role  query     string  false  "Backend role filter"
// @Success      200   {array}   domain.User
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	var users []domain.User
	if role := c.QueryParam("role"); role != "" {
		users, err = cl.Users().ByRole(c.Request().Context(), domain.CanonicalRole(role))
	} else {
		users, err = cl.Users().List(c.Request().Context())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser registers an account with the backend.
//
// @Summary      Create an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.NewUser  true  "Account"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req domain.NewUser
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	var user *domain.User
	err = h.deps.exclusive(c, "create-user", func() (err error) {
		user, err = cl.Users().Create(c.Request().Context(), req)
		return
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateRole changes the role of an account.
//
// @Summary      Change an account's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userId  path      int                true  "User id"
// @Param        body    body      updateRoleRequest  true  "Role"
// @Success      200     {object}  domain.Message
// @Router       /admin/users/{userId}/role [patch]
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	id, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	var req updateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	msg, err := cl.Users().UpdateRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}

// DeleteUser removes an account.
//
// @Summary      Delete an account
// @Tags         admin
// @Param        userId  path  int  true  "User id"
// @Success      204
// @Router       /admin/users/{userId} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	if err := cl.Users().Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListClasses lists every class.
//
// @Summary      List classes
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.Classe
// @Router       /admin/classes [get]
func (h *AdminHandler) ListClasses(c echo.Context) error {
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	classes, err := cl.Classes().List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, classes)
}

// CreateClass opens a class.
//
// @Summary      Create a class
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.Classe  true  "Class"
// @Success      201   {object}  domain.Classe
// @Router       /admin/classes [post]
func (h *AdminHandler) CreateClass(c echo.Context) error {
	var req domain.Classe
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	var out *domain.Classe
	err = h.deps.exclusive(c, "create-class", func() (err error) {
		out, err = cl.Classes().Create(c.Request().Context(), req)
		return
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// ListSubjects returns every subject with its class and professor names.
//
// @Summary      List subjects
// @Tags         admin
// @Produce      json
// @Success      200  {array}  service.SubjectView
// @Router       /admin/matieres [get]
func (h *AdminHandler) ListSubjects(c echo.Context) error {
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	out, err := dashboards(cl).SubjectCatalog(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// CreateSubject attaches a subject to a class.
//
// @Summary      Create a subject
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.Subject  true  "Subject"
// @Success      201   {object}  domain.Subject
// @Router       /admin/matieres [post]
func (h *AdminHandler) CreateSubject(c echo.Context) error {
	var req domain.Subject
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	var out *domain.Subject
	err = h.deps.exclusive(c, "create-subject", func() (err error) {
		out, err = cl.Subjects().Create(c.Request().Context(), req)
		return
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// ListBulletins lists the bulletins generated so far.
//
// @Summary      List bulletins
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.Bulletin
// @Router       /admin/bulletins [get]
func (h *AdminHandler) ListBulletins(c echo.Context) error {
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	out, err := cl.Bulletins().List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// CreateBulletin generates the bulletins of a class for a term.
//
// @Summary      Generate a class bulletin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      createBulletinRequest  true  "Bulletin"
// @Success      201   {object}  domain.Bulletin
// @Router       /admin/bulletins [post]
func (h *AdminHandler) CreateBulletin(c echo.Context) error {
	var req createBulletinRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	var out *domain.Bulletin
	err = h.deps.exclusive(c, "create-bulletin", func() (err error) {
		out, err = cl.Bulletins().Create(c.Request().Context(), req.Classe, req.TermName)
		return
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// ConfirmBulletin makes a bulletin downloadable.
//
// @Summary      Confirm a bulletin
// @Tags         admin
// @Produce      json
// @Param        bulletinId  path      int  true  "Bulletin id"
// @Success      200         {object}  domain.Message
// @Router       /admin/bulletins/{bulletinId}/confirm [post]
func (h *AdminHandler) ConfirmBulletin(c echo.Context) error {
	id, err := paramID(c, "bulletinId")
	if err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	var msg *domain.Message
	err = h.deps.exclusive(c, "confirm-bulletin", func() (err error) {
		msg, err = cl.Bulletins().Confirm(c.Request().Context(), id)
		return
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}

// DownloadBulletin streams the class PDF.
//
// @Summary      Download a class bulletin
// @Tags         admin
// @Produce      application/pdf
// @Param        bulletinId  path  int  true  "Bulletin id"
// @Success      200
// @Failure      403  {object}  map[string]string
// @Router       /admin/bulletins/{bulletinId}/download [get]
func (h *AdminHandler) DownloadBulletin(c echo.Context) error {
	id, err := paramID(c, "bulletinId")
	if err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	d, err := cl.Bulletins().DownloadClass(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return streamBulletin(c, d)
}
