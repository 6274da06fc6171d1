package route

import (
	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/features/assistant/chatbot/controller"
	rateLimiter "edudbt_backend/internals/middlewares"
)

// ChatRoutes mounts /api/chatbot. Messages work with or without a login.
func ChatRoutes(r fiber.Router, ctrl *controller.ChatController, requireAuth, optionalAuth fiber.Handler) {
	r.Post("/message", rateLimiter.ChatRateLimiter(), optionalAuth, ctrl.Message)
	r.Get("/history/:sessionId", optionalAuth, ctrl.History)

	r.Get("/sessions", requireAuth, ctrl.Sessions)
	r.Delete("/sessions/:sessionId", requireAuth, ctrl.DeleteSession)
}
