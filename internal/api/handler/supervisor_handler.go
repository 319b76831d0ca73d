package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/service"
)

// SupervisorHandler serves the attendance pages of the Direction.
type SupervisorHandler struct {
	deps Deps
}

func NewSupervisorHandler(deps Deps) *SupervisorHandler {
	return &SupervisorHandler{deps: deps}
}

// attendanceRequest marks a roster. People missing from Statuses are
// present.
type attendanceRequest struct {
	Classe   int64                             `json:"classe"`
	People   []int64                           `json:"people" validate:"min=1,dive,gt=0"`
	Statuses map[int64]domain.AttendanceStatus `json:"statuses" validate:"omitempty,dive,keys,gt=0,endkeys,attendance"`
}

type rosterView struct {
	Classe   int64                     `json:"classe"`
	People   []domain.User             `json:"people"`
	Statuses []domain.AttendanceStatus `json:"statuses"`
}

var attendanceStatuses = []domain.AttendanceStatus{domain.AttendancePresent, domain.AttendanceAbsent, domain.AttendanceLate}

// Dashboard lists classes next to their attendance statistics.
//
// @Summary      Supervisor overview
// @Tags         supervisor
// @Produce      json
// @Success      200  {object}  service.SupervisorOverview
// @Router       /supervisor-dashboard [get]
func (h *SupervisorHandler) Dashboard(c echo.Context) error {
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	out, err := dashboards(cl).SupervisorOverview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// SelectClass lists the classes attendance can be taken for.
//
// @Summary      Classes to take attendance for
// @Tags         supervisor
// @Produce      json
// @Success      200  {array}  domain.Classe
// @Router       /supervisor/select-class [get]
func (h *SupervisorHandler) SelectClass(c echo.Context) error {
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	out, err := cl.Classes().List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// StudentRoster lists the students of a class for roll call.
//
// @Summary      Students of a class
// @Tags         supervisor
// @Produce      json
// @Param        classId  path      int  true  "Class id"
// @Success      200      {object}  rosterView
// @Router       /supervisor/take-attendance/students/{classId} [get]
func (h *SupervisorHandler) StudentRoster(c echo.Context) error {
	classID, err := paramID(c, "classId")
	if err != nil {
		return err
	}
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	students, err := cl.Users().StudentsInClass(c.Request().Context(), classID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rosterView{Classe: classID, People: students, Statuses: attendanceStatuses})
}

// MarkStudents records the attendance of a class.
//
// @Summary      Take class attendance
// @Tags         supervisor
// @Accept       json
// @Produce      json
// @Param        classId  path      int                true  "Class id"
// @Param        body     body      attendanceRequest  true  "Roster"
// @Success      201      {object}  service.BatchResult
// @Failure      409      {object}  map[string]string
// @Failure      502      {object}  map[string]string
// @Router       /supervisor/take-attendance/students/{classId} [post]
func (h *SupervisorHandler) MarkStudents(c echo.Context) error {
	classID, err := paramID(c, "classId")
	if err != nil {
		return err
	}
	var req attendanceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.mark(c, "attendance-students", classID, req)
}

// ProfessorRoster lists the professors attendance is taken for.
//
// @Summary      Professors to take attendance for
// @Tags         supervisor
// @Produce      json
// @Success      200  {object}  rosterView
// @Router       /supervisor/take-attendance/professors [get]
func (h *SupervisorHandler) ProfessorRoster(c echo.Context) error {
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	profs, err := cl.Users().Professors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rosterView{People: profs, Statuses: attendanceStatuses})
}

// MarkProfessors records professor attendance against the class given in
// the body.
//
// @Summary      Take professor attendance
// @Tags         supervisor
// @Accept       json
// @Produce      json
// @Param        body  body      attendanceRequest  true  "Roster"
// @Success      201   {object}  service.BatchResult
// @Router       /supervisor/take-attendance/professors [post]
func (h *SupervisorHandler) MarkProfessors(c echo.Context) error {
	var req attendanceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Classe <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "classe is required")
	}
	return h.mark(c, "attendance-professors", req.Classe, req)
}

func (h *SupervisorHandler) mark(c echo.Context, control string, classID int64, req attendanceRequest) error {
	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	var res *service.BatchResult
	err = h.deps.exclusive(c, control, func() (err error) {
		res, err = h.deps.Roster.MarkAttendance(c.Request().Context(), cl.Attendance(), classID, req.People, req.Statuses)
		return
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

// History lists attendance records matching the query filters.
//
// @Summary      Attendance history
// @Tags         supervisor
// @Produce      json
// @Param        classe   query     int     false  "Class id"
// @Param        student  query     int     false  "Student id"
// @Param        status   query     string  false  "present, absent or late"
// @Param        date     query     string  false  "YYYY-MM-DD"
// @Success      200      {array}   domain.Attendance
// @Router       /supervisor/attendance-history [get]
func (h *SupervisorHandler) History(c echo.Context) error {
	var (
		f      domain.AttendanceFilter
		status string
	)
	if err := echo.QueryParamsBinder(c).
		Int64("classe", &f.Classe).
		Int64("student", &f.Student).
		String("status", &status).
		String("date", &f.Date).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filter")
	}
	if status != "" {
		f.Status = domain.AttendanceStatus(status)
		if !f.Status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}

	cl, err := h.deps.client(c)
	if err != nil {
		return err
	}
	out, err := cl.Attendance().History(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
