package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger creates a logging middleware
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("X-Request-ID", requestID)
		c.Locals("requestID", requestID)

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		var event *zerolog.Event
		if status >= 500 {
			event = log.Error()
		} else if status >= 400 {
			event = log.Warn()
		} else {
			event = log.Info()
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", latency).
			Str("ip", c.IP())

		if userID, ok := c.Locals("userID").(uuid.UUID); ok && userID != uuid.Nil {
			event.Str("user_id", userID.String())
		}

		if err != nil {
			event.Err(err)
		}

		event.Msg("request")

		return err
	}
}

// Recovery creates a panic recovery middleware
func Recovery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := c.Locals("requestID").(string)

				log.Error().
					Str("request_id", requestID).
					Interface("panic", r).
					Str("path", c.Path()).
					Msg("panic recovered")

				_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"error": fiber.Map{
						"code":    "INTERNAL_ERROR",
						"message": "internal server error",
					},
				})
			}
		}()

		return c.Next()
	}
}

// GetRequestID extracts the request ID from context
func GetRequestID(c *fiber.Ctx) string {
	requestID, _ := c.Locals("requestID").(string)
	return requestID
}
