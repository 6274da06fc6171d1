package logger

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// quiet paths are polled by load balancers or serve static files.
var quiet = []string{"/health", "/uploads/"}

// LoggerMiddleware writes one access log line per API request, tagged with the request id.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			for _, q := range quiet {
				if p == q || strings.HasPrefix(p, q) {
					return true
				}
			}
			return false
		},
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Kolkata",
		Format:     "[${time}] ${ip} - ${method} ${path} - ${status} - ${latency} - ${locals:reqid}\n",
	})
}
