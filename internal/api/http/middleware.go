package http

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/spec-kit/workspace-service/internal/config"
	"github.com/spec-kit/workspace-service/internal/observability"
	"github.com/spec-kit/workspace-service/internal/ratelimit"
	apperrors "github.com/spec-kit/workspace-service/pkg/util/errorutil"
)

// RegisterMiddlewares attaches the global pipeline. Each stage toggles
// independently; when all are enabled the nesting is CORS, then error
// normalization, then the rate-limit gate, then request logging. Error
// normalization sits just inside CORS so every failure, the throttle signal
// included, leaves as the stable error envelope with CORS headers attached.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, limiter *ratelimit.SlidingWindow, cfg *config.Config) {
	if cfg.CORS.Enabled {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders:     "Accept,Authorization,Content-Type",
			AllowCredentials: true,
		}))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	if cfg.RateLimit.Enabled && limiter != nil {
		app.Use(rateLimitMiddleware(limiter, metrics))
	}
	app.Use(observability.RequestLogger(logger, metrics))
}

// rateLimitMiddleware is the admission gate. A denied request terminates here
// with the throttle signal and causes no side effects further in.
func rateLimitMiddleware(limiter *ratelimit.SlidingWindow, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !limiter.Admit(c.IP()) {
			metrics.RecordThrottled()
			return apperrors.NewRateLimited()
		}
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}
