package domain

import "strings"

// Backend roles, as issued by the token endpoint.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleProfessor  = "professor"
	RoleStudent    = "student"
	RoleParent     = "parent"
)

// UI labels shown to the end user.
const (
	LabelDirection = "Direction"
	LabelProfessor = "Professeur"
	LabelStudent   = "Étudiant"
	LabelParent    = "Parent"
)

// Client-side routes the portal redirects to.
const (
	RouteHome                = "/"
	RouteAdminDashboard      = "/admin-dashboard"
	RouteSupervisorDashboard = "/supervisor-dashboard"
	RouteProfessorDashboard  = "/professor-dashboard"
	RouteStudentDashboard    = "/student-dashboard"
	RouteParentDashboard     = "/parent-dashboard"
)

// BackendRoles lists every backend role known to this client.
var BackendRoles = []string{RoleAdmin, RoleSupervisor, RoleProfessor, RoleStudent, RoleParent}

var roleLabels = map[string]string{
	RoleAdmin:      LabelDirection,
	RoleSupervisor: LabelDirection,
	RoleProfessor:  LabelProfessor,
	RoleStudent:    LabelStudent,
	RoleParent:     LabelParent,
}

var dashboardRoutes = map[string]string{
	RoleAdmin:      RouteAdminDashboard,
	RoleSupervisor: RouteSupervisorDashboard,
	RoleProfessor:  RouteProfessorDashboard,
	RoleStudent:    RouteStudentDashboard,
	RoleParent:     RouteParentDashboard,
}

// NormalizeRole maps a backend role to its UI label. admin and supervisor
// collapse into Direction. Unknown roles are returned unchanged.
func NormalizeRole(backendRole string) string {
	if label, ok := roleLabels[backendRole]; ok {
		return label
	}
	return backendRole
}

// DashboardRoute returns the landing route for a backend role, or RouteHome
// for roles this client does not know.
func DashboardRoute(backendRole string) string {
	if route, ok := dashboardRoutes[backendRole]; ok {
		return route
	}
	return RouteHome
}

// BackendRolesFor returns the backend roles displayed under label, compared
// case-insensitively. It returns nil when label is not a known UI label.
func BackendRolesFor(label string) []string {
	var roles []string
	for _, role := range BackendRoles {
		if strings.EqualFold(roleLabels[role], label) {
			roles = append(roles, role)
		}
	}
	return roles
}

// CanonicalRole is the form used for authorization comparisons.
func CanonicalRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
