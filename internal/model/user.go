package model

// User identifies the acting person for audit entries, with a locally-held
// role flag. There is no account database: clients declare who they are.
type User struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Roles.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Store Manager"
	RoleViewer  = "Viewer"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleViewer:
		return true
	}
	return false
}

// RoleCanEdit reports whether the role may invoke mutating operations.
// Viewers are read-only.
func RoleCanEdit(role string) bool {
	return role == RoleAdmin || role == RoleManager
}
