package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ecolenet/school-portal/docs"
	"github.com/ecolenet/school-portal/internal/api/handler"
	"github.com/ecolenet/school-portal/internal/api/middleware"
	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/ports"
)

// RouterConfig carries what NewRouter wires into the routes.
type RouterConfig struct {
	Session middleware.SessionOptions
	Stores  ports.StoreFactory
	Deps    handler.Deps
	// Pingers are checked by the readiness probe.
	Pingers []ports.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))

	// --- Probes and tooling (no session) ---
	health := handler.NewHealthHandler()
	ready := handler.NewReadinessHandler(cfg.Pingers...)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", ready.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Portal ---
	portal := e.Group("", middleware.Session(cfg.Session, cfg.Stores, log))

	auth := handler.NewAuthHandler(cfg.Deps, log)
	portal.GET(domain.RouteHome, auth.LoginView)
	portal.POST("/login", auth.Login)
	portal.POST("/logout", auth.Logout)
	portal.GET("/session", auth.Session, middleware.Guard())

	direction := middleware.Guard(domain.LabelDirection)
	admin := handler.NewAdminHandler(cfg.Deps)
	portal.GET(domain.RouteAdminDashboard, admin.Dashboard, direction)
	ag := portal.Group("/admin", direction)
	ag.GET("/users", admin.ListUsers)
	ag.POST("/users", admin.CreateUser)
	ag.PATCH("/users/:userId/role", admin.UpdateRole)
	ag.DELETE("/users/:userId", admin.DeleteUser)
	ag.GET("/classes", admin.ListClasses)
	ag.POST("/classes", admin.CreateClass)
	ag.GET("/matieres", admin.ListSubjects)
	ag.POST("/matieres", admin.CreateSubject)
	ag.GET("/bulletins", admin.ListBulletins)
	ag.POST("/bulletins", admin.CreateBulletin)
	ag.POST("/bulletins/:bulletinId/confirm", admin.ConfirmBulletin)
	ag.GET("/bulletins/:bulletinId/download", admin.DownloadBulletin)

	supervisor := handler.NewSupervisorHandler(cfg.Deps)
	portal.GET(domain.RouteSupervisorDashboard, supervisor.Dashboard, direction)
	sg := portal.Group("/supervisor", direction)
	sg.GET("/select-class", supervisor.SelectClass)
	sg.GET("/take-attendance/students/:classId", supervisor.StudentRoster)
	sg.POST("/take-attendance/students/:classId", supervisor.MarkStudents)
	sg.GET("/take-attendance/professors", supervisor.ProfessorRoster)
	sg.POST("/take-attendance/professors", supervisor.MarkProfessors)
	sg.GET("/attendance-history", supervisor.History)

	teaching := middleware.Guard(domain.LabelProfessor)
	professor := handler.NewProfessorHandler(cfg.Deps)
	portal.GET(domain.RouteProfessorDashboard, professor.Dashboard, teaching)
	pg := portal.Group("/professor", teaching)
	pg.GET("/class/:classId", professor.Class)
	pg.POST("/subject/:subjectId/create-assignment", professor.CreateAssignment)
	pg.GET("/assignment/:assignmentId/grade", professor.GradeSheet)
	pg.POST("/assignment/:assignmentId/grade", professor.SubmitGrades)

	family := handler.NewFamilyHandler(cfg.Deps)
	parent := middleware.Guard(domain.LabelParent)
	portal.GET(domain.RouteParentDashboard, family.ParentDashboard, parent)
	fg := portal.Group("/parent", parent)
	fg.GET("/child/:childId", family.Child)
	fg.GET("/child/:childId/bulletins/:bulletinId/download", family.ChildBulletin)

	student := middleware.Guard(domain.LabelStudent)
	portal.GET(domain.RouteStudentDashboard, family.StudentDashboard, student)
	portal.GET("/student/bulletins/:bulletinId/download", family.StudentBulletin, student)

	return e
}
