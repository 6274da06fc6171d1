package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"edudbt_backend/internals/configs"
	"edudbt_backend/internals/middlewares/logger"
)

// LLM calls run up to LLMTimeout, so the request deadline leaves room for them.
func requestTimeout(cfg *configs.Config) time.Duration {
	return cfg.LLMTimeout + 5*time.Second
}

func SetupMiddlewares(app *fiber.App, cfg *configs.Config) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestIDMiddleware(requestTimeout(cfg)))
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware(cfg.CorsOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter())
}
