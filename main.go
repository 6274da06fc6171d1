package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/configs"
	database "edudbt_backend/internals/databases"
	"edudbt_backend/internals/features/assistant/chatbot/llm"
	chatRepo "edudbt_backend/internals/features/assistant/chatbot/repository"
	chatScheduler "edudbt_backend/internals/features/assistant/chatbot/scheduler"
	authRepo "edudbt_backend/internals/features/users/auth/repository"
	authScheduler "edudbt_backend/internals/features/users/auth/scheduler"
	helper "edudbt_backend/internals/helpers"
	"edudbt_backend/internals/helpers/storage"
	"edudbt_backend/internals/infra/events"
	"edudbt_backend/internals/infra/mailer"
	"edudbt_backend/internals/infra/reporter"
	middlewares "edudbt_backend/internals/middlewares"
	routes "edudbt_backend/internals/route"
)

// Documents are capped at 5MB; the multipart envelope needs a little more.
const bodyLimit = 6 * 1024 * 1024

func main() {
	cfg := configs.LoadEnv()

	host, _ := os.Hostname()
	rep := reporter.New(cfg.RollbarToken, cfg.AppEnv, host)
	defer rep.Close()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:           90 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if !errors.As(err, &fe) || fe.Code >= fiber.StatusInternalServerError {
				rep.Error(err, map[string]any{
					"method":     c.Method(),
					"path":       c.OriginalURL(),
					"request_id": c.Locals("reqid"),
				})
			}
			return helper.JsonFromError(c, err)
		},
	})

	middlewares.SetupMiddlewares(app, cfg)

	// 🔌 DB connect + pool + warm-up
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	database.TunePool(db)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ %v", err)
	}
	database.WarmUpQueries(db)

	publisher := events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword)
	blobs, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("❌ storage: %v", err)
	}

	// ⏱ scheduler setelah DB siap
	bgCtx, stopSchedulers := context.WithCancel(context.Background())
	authScheduler.StartTokenCleanupScheduler(bgCtx, authRepo.NewTokenRepository(db), 24*time.Hour)
	chatScheduler.StartChatCleanupScheduler(bgCtx, chatRepo.NewChatRepository(db), time.Hour)

	if local, ok := blobs.(*storage.LocalStore); ok {
		app.Static("/uploads", local.Dir(), fiber.Static{MaxAge: 3600})
	}

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		DB:        db,
		Config:    cfg,
		Publisher: publisher,
		Mailer:    mailer.New(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromEmail),
		Blobs:     blobs,
		LLM:       llm.New(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.LLMTimeout),
	})

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] Shutting down...")

	stopSchedulers()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
	if err := publisher.Close(); err != nil {
		log.Printf("[ERROR] close publisher: %v", err)
	}
	database.Close(db)
}
