package route

import (
	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/features/users/user/controller"
	authMiddleware "edudbt_backend/internals/middlewares/auth"
)

// UserRoutes mounts /api/user; r must already be behind AuthMiddleware.
func UserRoutes(r fiber.Router, ctrl *controller.UserController) {
	r.Get("/profile", ctrl.GetProfile)
	r.Put("/profile", ctrl.UpdateProfile)
	r.Put("/password", ctrl.ChangePassword)
	r.Post("/aadhaar", ctrl.LinkAadhaar)
	r.Delete("/aadhaar", ctrl.UnlinkAadhaar)
	r.Put("/bank-details", ctrl.UpdateBankDetails)
	r.Get("/stats", ctrl.GetStats)

	admin := r.Group("/admin", authMiddleware.RequirePermission(authz.UserManage))
	admin.Get("/users", ctrl.ListUsers)
	admin.Put("/users/:id/status", ctrl.SetStatus)
	admin.Put("/users/:id/role", ctrl.SetRole)
}
