package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"edudbt_backend/internals/authz"
)

// Locals keys written by the auth middleware.
const (
	LocalUserID   = "user_id"
	LocalUserRole = "userRole"
	LocalUserName = "user_name"
)

// GetUserIDFromToken reads user_id from c.Locals.
// 401 when the caller is not logged in, 400 when the stored value is malformed.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocalUserID)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	var s string
	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		return t, nil
	case string:
		s = strings.TrimSpace(t)
	case []byte:
		s = strings.TrimSpace(string(t))
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid user ID in token")
	}
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid user ID in token")
	}
	return id, nil
}

// GetPrincipal never fails; anonymous callers get the zero Principal.
func GetPrincipal(c *fiber.Ctx) authz.Principal {
	id, err := GetUserIDFromToken(c)
	if err != nil {
		return authz.Principal{}
	}
	role, _ := c.Locals(LocalUserRole).(string)
	return authz.Principal{UserID: id, Role: role}
}

// ParseUUIDParam reads a path parameter as UUID; bad ids are 404 like missing rows.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Not found")
	}
	return id, nil
}
