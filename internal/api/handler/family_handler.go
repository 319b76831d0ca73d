package handler

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

// FamilyHandler serves the parent and student pages.
type FamilyHandler struct {
	deps Deps
}

func NewFamilyHandler(deps Deps) *FamilyHandler {
	return &FamilyHandler{deps: deps}
}

// ParentDashboard lists the parent's children.
//
// @Summary      Parent overview
// @Tags         parent
// @Produce      json
// @Success      200  {array}  domain.User
// @Router       /parent-dashboard [get]
func (h *FamilyHandler) ParentDashboard(c echo.Context) error {
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	out, err := cl.Users().MyChildren(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Child returns one child's report and attendance. Children of other
// parents are answered 404.
//
// @Summary      Child overview
// @Tags         parent
// @Produce      json
// @Param        childId  path      int  true  "Child id"
// @Success      200      {object}  service.StudentOverview
// @Failure      404      {object}  map[string]string
// @Router       /parent/child/{childId} [get]
func (h *FamilyHandler) Child(c echo.Context) error {
	childID, err := h.ownChild(c)
	if err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	out, err := dashboards(cl).ChildOverview(c.Request().Context(), childID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// ChildBulletin streams a child's bulletin PDF.
//
// @Summary      Download a child's bulletin
// @Tags         parent
// @Produce      application/pdf
// @Param        childId     path  int  true  "Child id"
// @Param        bulletinId  path  int  true  "Bulletin id"
// @Success      200
// @Failure      403  {object}  map[string]string
// @Router       /parent/child/{childId}/bulletins/{bulletinId}/download [get]
func (h *FamilyHandler) ChildBulletin(c echo.Context) error {
	childID, err := h.ownChild(c)
	if err != nil {
		return err
	}
	return h.download(c, childID)
}

// StudentDashboard returns the student's own report and attendance.
//
// @Summary      Student overview
// @Tags         student
// @Produce      json
// @Success      200  {object}  service.StudentOverview
// @Router       /student-dashboard [get]
func (h *FamilyHandler) StudentDashboard(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	out, err := dashboards(cl).StudentOverview(c.Request().Context(), sess.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// StudentBulletin streams the student's own bulletin PDF.
//
// @Summary      Download my bulletin
// @Tags         student
// @Produce      application/pdf
// @Param        bulletinId  path  int  true  "Bulletin id"
// @Success      200
// @Failure      403  {object}  map[string]string
// @Router       /student/bulletins/{bulletinId}/download [get]
func (h *FamilyHandler) StudentBulletin(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return h.download(c, sess.UserID)
}

func (h *FamilyHandler) download(c echo.Context, studentID int64) error {
	bulletinID, err := paramID(c, "bulletinId")
	if err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	d, err := cl.Bulletins().DownloadStudent(c.Request().Context(), bulletinID, studentID)
	if err != nil {
		return err
	}
	return streamBulletin(c, d)
}

// ownChild resolves :childId and checks it against the parent's children.
func (h *FamilyHandler) ownChild(c echo.Context) (int64, error) {
	childID, err := paramID(c, "childId")
	if err != nil {
		return 0, err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return 0, err
	}
	children, err := cl.Users().MyChildren(c.Request().Context())
	if err != nil {
		return 0, err
	}
	if !slices.ContainsFunc(children, func(u domain.User) bool { return u.ID == childID }) {
		return 0, domain.ErrNotFound
	}
	return childID, nil
}
