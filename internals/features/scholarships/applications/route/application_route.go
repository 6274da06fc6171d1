package route

import (
	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/features/scholarships/applications/controller"
	authMiddleware "edudbt_backend/internals/middlewares/auth"
)

// ApplicationRoutes mounts /api/applications; r must already be behind AuthMiddleware.
func ApplicationRoutes(r fiber.Router, ctrl *controller.ApplicationController) {
	canApply := authMiddleware.RequirePermission(authz.ApplicationApply)
	canReview := authMiddleware.RequirePermission(authz.ApplicationReview)

	r.Get("/admin/all", canReview, ctrl.ListAll)

	r.Post("/", canApply, ctrl.Create)
	r.Get("/", ctrl.ListMine)
	r.Get("/:id", ctrl.Get)
	r.Put("/:id", canApply, ctrl.Update)
	r.Delete("/:id", canApply, ctrl.Delete)
	r.Post("/:id/documents", canApply, ctrl.UploadDocument)
	r.Delete("/:id/documents/:index", canApply, ctrl.RemoveDocument)
	r.Post("/:id/submit", canApply, ctrl.Submit)

	r.Put("/:id/status", canReview, ctrl.UpdateStatus)
}
