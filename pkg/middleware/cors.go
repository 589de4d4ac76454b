package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// DevelopmentCORS returns a CORS middleware suitable for development
func DevelopmentCORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:8080,http://127.0.0.1:3000",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length,Content-Type,X-Request-ID",
		MaxAge:           0,
	})
}

// ProductionCORS returns a CORS middleware restricted to the given origins
func ProductionCORS(allowedOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length,Content-Type,X-Request-ID",
		MaxAge:           86400,
	})
}
