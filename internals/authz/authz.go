// Package authz decides what a caller may do. Route guards and services ask
// Can instead of comparing role strings themselves.
package authz

import (
	"github.com/google/uuid"

	"edudbt_backend/internals/constants"
)

type Action string

const (
	ContentWrite      Action = "content:write"
	QuizManage        Action = "quiz:manage"
	QuizAttempt       Action = "quiz:attempt"
	ApplicationApply  Action = "application:apply"
	ApplicationReview Action = "application:review"
	UserManage        Action = "user:manage"
	ReportRead        Action = "report:read"
	ChatUse           Action = "chat:use"
)

// Principal is the authenticated caller. The zero value is an anonymous visitor.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

func (p Principal) Authenticated() bool { return p.UserID != uuid.Nil }

var grants = map[string]map[Action]bool{
	constants.RoleStudent: {
		QuizAttempt:      true,
		ApplicationApply: true,
		ChatUse:          true,
	},
}

// Can reports whether p may perform a. Admins may do everything.
func Can(p Principal, a Action) bool {
	if !p.Authenticated() {
		return a == ChatUse
	}
	if p.Role == constants.RoleAdmin {
		return true
	}
	return grants[p.Role][a]
}

// CanAccessOwned is for per-record checks: owners always pass, others need the action.
func CanAccessOwned(p Principal, owner uuid.UUID, a Action) bool {
	if p.Authenticated() && p.UserID == owner {
		return true
	}
	return Can(p, a)
}
