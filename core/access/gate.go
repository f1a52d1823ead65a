// Package access is the single source of truth for what each role may see.
// Routes and view-sets are pure lookup tables; adding a role is one table
// edit, not scattered conditionals.
package access

// Roles
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// View identifies one of the protected portal views.
type View string

const (
	ViewTakeAttendance    View = "attendance:take"
	ViewGradebook         View = "gradebook"
	ViewAttendanceHistory View = "attendance:history"
	ViewSurvey            View = "survey"
)

var (
	landingRoutes = map[string]string{
		RoleStudent: "/student",
		RoleFaculty: "/faculty",
		RoleAdmin:   "/admin",
	}

	viewsByRole = map[string][]View{
		RoleStudent: {ViewAttendanceHistory, ViewSurvey},
		RoleFaculty: {ViewTakeAttendance, ViewGradebook, ViewAttendanceHistory},
		RoleAdmin:   {ViewTakeAttendance, ViewGradebook, ViewAttendanceHistory},
	}
)

// RouteFor returns the landing route for a role. An unknown role lands on
// the student route: least privilege, never elevated.
func RouteFor(role string) string {
	if route, ok := landingRoutes[role]; ok {
		return route
	}
	return landingRoutes[RoleStudent]
}

// IsElevated reports whether the role may use roster-management views.
func IsElevated(role string) bool {
	switch role {
	case RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// ViewsFor returns the view-set a role may reach, in display order.
func ViewsFor(role string) []View {
	views, ok := viewsByRole[role]
	if !ok {
		views = viewsByRole[RoleStudent]
	}
	out := make([]View, len(views))
	copy(out, views)
	return out
}

// Allowed reports whether the role may reach the given view.
func Allowed(role string, view View) bool {
	for _, v := range ViewsFor(role) {
		if v == view {
			return true
		}
	}
	return false
}
