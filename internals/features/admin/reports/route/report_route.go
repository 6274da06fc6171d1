package route

import (
	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/features/admin/reports/controller"
	authMiddleware "edudbt_backend/internals/middlewares/auth"
)

// ReportRoutes mounts /api/reports; r must already be behind AuthMiddleware.
func ReportRoutes(r fiber.Router, ctrl *controller.ReportController) {
	r.Get("/summary", authMiddleware.RequirePermission(authz.ReportRead), ctrl.Summary)
}
