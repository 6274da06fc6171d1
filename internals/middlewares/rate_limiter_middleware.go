package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "edudbt_backend/internals/helpers"
)

func newLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(100, 1*time.Minute, "Too many requests. Please try again later.")
}

// Stricter limiter for login
func LoginRateLimiter() fiber.Handler {
	return newLimiter(5, 1*time.Minute, "Too many login attempts. Please wait a moment.")
}

func RegisterRateLimiter() fiber.Handler {
	return newLimiter(3, 5*time.Minute, "Too many registration attempts. Please try again in a few minutes.")
}

func ForgotPasswordRateLimiter() fiber.Handler {
	return newLimiter(2, 10*time.Minute, "Too many password reset requests. Please try again in 10 minutes.")
}

// ChatRateLimiter keeps the LLM quota from being drained by one client.
func ChatRateLimiter() fiber.Handler {
	return newLimiter(20, 1*time.Minute, "You are sending messages too quickly. Please slow down.")
}
