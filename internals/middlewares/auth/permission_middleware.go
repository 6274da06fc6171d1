package auth

import (
	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/constants"
	helper "edudbt_backend/internals/helpers"
)

// RequirePermission must run after AuthMiddleware.
func RequirePermission(action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := helper.GetPrincipal(c)
		if !p.Authenticated() {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		if !authz.Can(p, action) {
			msg := constants.ActionError(string(action))
			return helper.JsonError(c, fiber.StatusForbidden, msg)
		}
		return c.Next()
	}
}
