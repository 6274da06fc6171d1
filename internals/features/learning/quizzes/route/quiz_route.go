package route

import (
	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/features/learning/quizzes/controller"
	authMiddleware "edudbt_backend/internals/middlewares/auth"
)

// QuizRoutes mounts /api/quizzes. Static segments are registered before /:id.
func QuizRoutes(r fiber.Router, ctrl *controller.QuizController, requireAuth, optionalAuth fiber.Handler) {
	canAttempt := authMiddleware.RequirePermission(authz.QuizAttempt)
	canManage := authMiddleware.RequirePermission(authz.QuizManage)

	// 🔓 Public
	r.Get("/", ctrl.List)

	// 🔒 Attempts
	r.Get("/attempts/me", requireAuth, ctrl.MyAttempts)
	r.Get("/attempts/:attemptId", requireAuth, ctrl.Attempt)

	// 🔒 Admin
	r.Get("/admin/all", requireAuth, canManage, ctrl.ListAll)
	r.Post("/", requireAuth, canManage, ctrl.Create)
	r.Put("/questions/:questionId", requireAuth, canManage, ctrl.UpdateQuestion)
	r.Delete("/questions/:questionId", requireAuth, canManage, ctrl.DeleteQuestion)
	r.Put("/:id", requireAuth, canManage, ctrl.Update)
	r.Delete("/:id", requireAuth, canManage, ctrl.Delete)
	r.Post("/:id/questions", requireAuth, canManage, ctrl.AddQuestion)

	r.Get("/:id", optionalAuth, ctrl.Detail)
	r.Get("/:id/questions", optionalAuth, ctrl.Questions)
	r.Post("/:id/start", requireAuth, canAttempt, ctrl.Start)
	r.Post("/:id/submit", requireAuth, canAttempt, ctrl.Submit)
	r.Get("/:id/attempts", requireAuth, ctrl.QuizAttempts)
}
