package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger records method, path, status and duration for every request.
// It observes only; errors pass through to the normalization stage untouched.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Duration("duration", duration),
		}

		if err != nil {
			logger.Info("request failed", append(fields, zap.String("error", err.Error()))...)
			return err
		}

		status := c.Response().StatusCode()
		metrics.RecordRequest(c.Path(), c.Method(), status, duration)
		logger.Info("request completed", append(fields, zap.Int("status", status))...)
		return nil
	}
}
