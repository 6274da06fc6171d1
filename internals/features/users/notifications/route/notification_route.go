package route

import (
	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/features/users/notifications/controller"
)

// NotificationRoutes mounts the caller's inbox; r must already be behind AuthMiddleware.
func NotificationRoutes(r fiber.Router, ctrl *controller.NotificationController) {
	r.Get("/", ctrl.List)
	r.Put("/read-all", ctrl.MarkAllRead)
	r.Put("/:id/read", ctrl.MarkRead)
}
