package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/service"
)

// ProfessorHandler serves the teaching pages.
type ProfessorHandler struct {
	deps Deps
}

func NewProfessorHandler(deps Deps) *ProfessorHandler {
	return &ProfessorHandler{deps: deps}
}

type createAssignmentRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description"`
}

type gradesRequest struct {
	Grades []service.GradeEntry `json:"grades" validate:"min=1,dive"`
}

// Dashboard lists the classes and subjects the professor teaches.
//
// @Summary      Professor overview
// @Tags         professor
// @Produce      json
// @Success      200  {object}  service.ProfessorOverview
// @Router       /professor-dashboard [get]
func (h *ProfessorHandler) Dashboard(c echo.Context) error {
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	out, err := dashboards(cl).ProfessorOverview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Class lists the subjects of a class with their assignments.
//
// @Summary      Class workspace
// @Tags         professor
// @Produce      json
// @Param        classId  path     int  true  "Class id"
// @Success      200      {array}  service.SubjectAssignments
// @Router       /professor/class/{classId} [get]
func (h *ProfessorHandler) Class(c echo.Context) error {
	classID, err := paramID(c, "classId")
	if err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	out, err := dashboards(cl).ProfessorClass(c.Request().Context(), classID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// CreateAssignment opens an assignment for a subject.
//
// @Summary      Create an assignment
// @Tags         professor
// @Accept       json
// @Produce      json
// @Param        subjectId  path      int                      true  "Subject id"
// @Param        body       body      createAssignmentRequest  true  "Assignment"
// @Success      201        {object}  domain.Assignment
// @Router       /professor/subject/{subjectId}/create-assignment [post]
func (h *ProfessorHandler) CreateAssignment(c echo.Context) error {
	subjectID, err := paramID(c, "subjectId")
	if err != nil {
		return err
	}
	var req createAssignmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	var out *domain.Assignment
	err = h.deps.exclusive(c, "create-assignment", func() (err error) {
		out, err = cl.Assignments().Create(c.Request().Context(), domain.Assignment{
			Title:       req.Title,
			Description: req.Description,
			MatiereID:   subjectID,
		})
		return
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// GradeSheet returns an assignment, the students of its class and the
// grades already given.
//
// @Summary      Grading sheet
// @Tags         professor
// @Produce      json
// @Param        assignmentId  path      int  true  "Assignment id"
// @Success      200           {object}  service.GradeSheet
// @Router       /professor/assignment/{assignmentId}/grade [get]
func (h *ProfessorHandler) GradeSheet(c echo.Context) error {
	id, err := paramID(c, "assignmentId")
	if err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	out, err := dashboards(cl).GradeSheet(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// SubmitGrades records a grade per student for the assignment.
//
// @Summary      Submit grades
// @Tags         professor
// @Accept       json
// @Produce      json
// @Param        assignmentId  path      int            true  "Assignment id"
// @Param        body          body      gradesRequest  true  "Grades"
// @Success      201           {object}  service.BatchResult
// @Failure      400           {object}  map[string]string
// @Failure      409           {object}  map[string]string
// @Router       /professor/assignment/{assignmentId}/grade [post]
func (h *ProfessorHandler) SubmitGrades(c echo.Context) error {
	id, err := paramID(c, "assignmentId")
	if err != nil {
		return err
	}
	var req gradesRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	var res *service.BatchResult
	err = h.deps.exclusive(c, "grades", func() (err error) {
		res, err = h.deps.Roster.SubmitGrades(c.Request().Context(), cl.Grades(), id, req.Grades)
		return
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}
