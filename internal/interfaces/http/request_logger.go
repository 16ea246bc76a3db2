package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/infrastructure/metrics"
)

// RequestLogger registra cada petición (método, ruta, status, latencia, request id)
// y la cuenta en http_requests_total.
func RequestLogger(log zerolog.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// Deja que el ErrorHandler de fiber escriba el status antes de leerlo.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		m.HTTPRequest(c.Method(), strconv.Itoa(status))

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		reqID, _ := c.Locals("requestid").(string)
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", reqID).
			Msg("petición")
		return nil
	}
}

// LoginLimiter limita los intentos de login por IP.
func LoginLimiter(perMinute int, m *metrics.Metrics) fiber.Handler {
	if perMinute <= 0 {
		perMinute = 10
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			m.LoginAttempt(metrics.ResultRejected)
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.AuthErrorResponse{Success: false, Error: "demasiados intentos, intente más tarde"})
		},
	})
}
