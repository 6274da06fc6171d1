package constants

import "fmt"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

var AllRoles = []string{RoleStudent, RoleAdmin}

// Template pesan error role
const ErrNotAllowed = "You are not allowed to %s."

func ActionError(action string) string {
	return fmt.Sprintf(ErrNotAllowed, action)
}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
