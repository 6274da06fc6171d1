// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/features/users/auth/controller"
	rateLimiter "edudbt_backend/internals/middlewares"
)

// AuthRoutes mounts /api/auth. requireAuth guards the endpoints that need a session.
func AuthRoutes(r fiber.Router, ctrl *controller.AuthController, requireAuth fiber.Handler) {
	// 🔓 Public
	r.Post("/register", rateLimiter.RegisterRateLimiter(), ctrl.Register)
	r.Post("/login", rateLimiter.LoginRateLimiter(), ctrl.Login)
	r.Post("/login-google", rateLimiter.LoginRateLimiter(), ctrl.LoginGoogle)
	r.Post("/forgot-password", rateLimiter.ForgotPasswordRateLimiter(), ctrl.ForgotPassword)
	r.Post("/reset-password", ctrl.ResetPassword)

	// 🔒 Protected
	r.Get("/me", requireAuth, ctrl.Me)
	r.Post("/logout", requireAuth, ctrl.Logout)
}
