package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edudbt_backend/internals/configs"
	"edudbt_backend/internals/helpers/storage"
	"edudbt_backend/internals/infra/events"
	"edudbt_backend/internals/infra/mailer"
	authMiddleware "edudbt_backend/internals/middlewares/auth"

	reportController "edudbt_backend/internals/features/admin/reports/controller"
	reportRepo "edudbt_backend/internals/features/admin/reports/repository"
	reportRoute "edudbt_backend/internals/features/admin/reports/route"

	chatController "edudbt_backend/internals/features/assistant/chatbot/controller"
	"edudbt_backend/internals/features/assistant/chatbot/llm"
	chatRepo "edudbt_backend/internals/features/assistant/chatbot/repository"
	chatRoute "edudbt_backend/internals/features/assistant/chatbot/route"
	chatService "edudbt_backend/internals/features/assistant/chatbot/service"

	contentController "edudbt_backend/internals/features/learning/content/controller"
	contentRepo "edudbt_backend/internals/features/learning/content/repository"
	contentRoute "edudbt_backend/internals/features/learning/content/route"
	contentService "edudbt_backend/internals/features/learning/content/service"

	quizController "edudbt_backend/internals/features/learning/quizzes/controller"
	quizRepo "edudbt_backend/internals/features/learning/quizzes/repository"
	quizRoute "edudbt_backend/internals/features/learning/quizzes/route"
	quizService "edudbt_backend/internals/features/learning/quizzes/service"

	applicationController "edudbt_backend/internals/features/scholarships/applications/controller"
	applicationRepo "edudbt_backend/internals/features/scholarships/applications/repository"
	applicationRoute "edudbt_backend/internals/features/scholarships/applications/route"
	applicationService "edudbt_backend/internals/features/scholarships/applications/service"

	authController "edudbt_backend/internals/features/users/auth/controller"
	authRepo "edudbt_backend/internals/features/users/auth/repository"
	authRoute "edudbt_backend/internals/features/users/auth/route"
	authService "edudbt_backend/internals/features/users/auth/service"

	notificationController "edudbt_backend/internals/features/users/notifications/controller"
	notificationRepo "edudbt_backend/internals/features/users/notifications/repository"
	notificationRoute "edudbt_backend/internals/features/users/notifications/route"
	notificationService "edudbt_backend/internals/features/users/notifications/service"

	userController "edudbt_backend/internals/features/users/user/controller"
	userRepo "edudbt_backend/internals/features/users/user/repository"
	userRoute "edudbt_backend/internals/features/users/user/route"
	userService "edudbt_backend/internals/features/users/user/service"
)

var startTime time.Time

// Deps are the shared clients built once in main.
type Deps struct {
	DB        *gorm.DB
	Config    *configs.Config
	Publisher events.Publisher
	Mailer    mailer.Mailer
	Blobs     storage.BlobStore
	LLM       llm.Client
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	cfg := d.Config

	BaseRoutes(app, d.DB)

	// ===================== AUTH GUARDS =====================
	tokenStore := authMiddleware.NewTokenStore(d.DB)
	requireAuth := authMiddleware.AuthMiddleware(tokenStore, cfg.JWTSecret)
	optionalAuth := authMiddleware.OptionalAuth(tokenStore, cfg.JWTSecret)

	// ===================== SHARED =====================
	users := userRepo.NewUserRepository(d.DB)
	notifications := notificationService.NewNotificationService(notificationRepo.NewNotificationRepository(d.DB))

	api := app.Group("/api")

	log.Println("[INFO] Mounting auth routes...")
	authSvc := authService.NewAuthService(
		authService.Config{JWTSecret: cfg.JWTSecret, TokenTTL: cfg.JWTTTL, FrontendURL: cfg.FrontendURL},
		users,
		authRepo.NewTokenRepository(d.DB),
		authService.NewGoogleVerifier(cfg.GoogleClientID),
		d.Mailer,
		d.Publisher,
		notifications,
	)
	authRoute.AuthRoutes(api.Group("/auth"), authController.NewAuthController(authSvc, cfg.IsProduction()), requireAuth)

	log.Println("[INFO] Mounting user routes...")
	user := api.Group("/user", requireAuth)
	notificationRoute.NotificationRoutes(user.Group("/notifications"), notificationController.NewNotificationController(notifications))
	userSvc := userService.NewUserService(users, userRepo.NewStatsRepository(d.DB), cfg.AadhaarPepper)
	userRoute.UserRoutes(user, userController.NewUserController(userSvc))

	log.Println("[INFO] Mounting content routes...")
	contentSvc := contentService.NewContentService(contentRepo.NewContentRepository(d.DB))
	contentRoute.ContentRoutes(api.Group("/content"), contentController.NewContentController(contentSvc), requireAuth, optionalAuth)

	log.Println("[INFO] Mounting quiz routes...")
	quizSvc := quizService.NewQuizService(
		quizRepo.NewQuizRepository(d.DB),
		quizRepo.NewAttemptRepository(d.DB),
		d.Publisher,
		notifications,
	)
	quizRoute.QuizRoutes(api.Group("/quizzes"), quizController.NewQuizController(quizSvc), requireAuth, optionalAuth)

	log.Println("[INFO] Mounting chatbot routes...")
	chatSvc := chatService.NewChatService(chatRepo.NewChatRepository(d.DB), d.LLM, chatService.Config{
		Retention:    cfg.ChatRetention,
		ContextTurns: cfg.ChatContextTurns,
	})
	chatRoute.ChatRoutes(api.Group("/chatbot"), chatController.NewChatController(chatSvc), requireAuth, optionalAuth)

	log.Println("[INFO] Mounting application routes...")
	applicationSvc := applicationService.NewApplicationService(
		applicationRepo.NewApplicationRepository(d.DB),
		users,
		d.Blobs,
		d.Publisher,
		notifications,
	)
	applicationRoute.ApplicationRoutes(api.Group("/applications", requireAuth), applicationController.NewApplicationController(applicationSvc))

	log.Println("[INFO] Mounting report routes...")
	reportRoute.ReportRoutes(api.Group("/reports", requireAuth), reportController.NewReportController(reportRepo.NewReportRepository(d.DB)))
}
