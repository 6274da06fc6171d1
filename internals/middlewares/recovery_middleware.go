package middlewares

import (
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RecoveryMiddleware turns panics into errors for the app ErrorHandler,
// which answers 500 and forwards them to the error reporter.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			log.Printf("[PANIC] id=%v %s %s: %v\n%s", c.Locals(LocalRequestID), c.Method(), c.OriginalURL(), e, debug.Stack())
		},
	})
}
