package route

import (
	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/features/learning/content/controller"
	authMiddleware "edudbt_backend/internals/middlewares/auth"
)

// ContentRoutes mounts /api/content. Static paths go before /:idOrSlug.
func ContentRoutes(r fiber.Router, ctrl *controller.ContentController, requireAuth, optionalAuth fiber.Handler) {
	canWrite := authMiddleware.RequirePermission(authz.ContentWrite)

	// 🔓 Public
	r.Get("/", ctrl.List)
	r.Get("/featured", ctrl.Featured)
	r.Get("/categories", ctrl.Categories)

	// 🔒 Admin
	r.Get("/admin/all", requireAuth, canWrite, ctrl.ListAll)
	r.Post("/", requireAuth, canWrite, ctrl.Create)
	r.Put("/:id", requireAuth, canWrite, ctrl.Update)
	r.Delete("/:id", requireAuth, canWrite, ctrl.Delete)

	r.Get("/:idOrSlug", optionalAuth, ctrl.Get)
}
