package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger writes one access line per request, tagged with the service name
// and the request id set by RequestID.
func Logger(service string) fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] [" + service + "] ${status} - ${latency} ${method} ${path} | rid=${respHeader:X-Request-ID}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}

// RequestID assigns an X-Request-ID to requests that lack one.
func RequestID() fiber.Handler {
	return requestid.New()
}
