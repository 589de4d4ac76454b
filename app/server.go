// Package app wires the HTTP surface: the Fiber server, route registration
// and the thin handlers that adapt requests onto the repository layer.
package app

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/crewbase/backend/common/dto"
	"github.com/crewbase/backend/common/models"
	"github.com/crewbase/backend/pkg/config"
	"github.com/crewbase/backend/pkg/middleware"
	"github.com/crewbase/backend/repository"
)

// Server represents the crewbase HTTP server
type Server struct {
	app    *fiber.App
	config *config.Config
	redis  *redis.Client
}

// NewServer creates the server, connecting to PostgreSQL and Redis
func NewServer(cfg *config.Config) (*Server, error) {
	if err := repository.Init(cfg); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	server := &Server{
		config: cfg,
		redis:  redisClient,
	}
	server.app = server.createApp()
	server.registerRoutes()

	return server, nil
}

func (s *Server) createApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "crewbase-backend",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.Recovery())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New())
	app.Use(helmet.New())

	if s.config.IsDevelopment() {
		app.Use(middleware.DevelopmentCORS())
	} else {
		app.Use(middleware.ProductionCORS(s.config.Server.AllowedOrigins))
	}

	return app
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.healthCheck)

	v1 := s.app.Group("/api/v1")
	v1.Use(middleware.Auth(middleware.AuthConfig{
		JWTSecret: s.config.Auth.JWTSecret,
		SkipPaths: []string{"/api/v1/auth/login"},
	}))

	authHandler := NewAuthHandler(s.config)
	v1.Post("/auth/login", authHandler.Login)

	projectHandler := NewProjectHandler()
	projects := v1.Group("/projects")
	projects.Post("", middleware.RequireRole(models.RoleSupervisor), projectHandler.Add)
	projects.Get("", middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor), projectHandler.List)
	projects.Get("/my", projectHandler.ListMine)
	projects.Get("/phases/:id", projectHandler.PhaseDetails)
	projects.Post("/phases/:id/assign",
		middleware.RequireRole(models.RoleSupervisor, models.RoleLeader), projectHandler.AssignEmployee)
	projects.Put("/phases/:id/progress",
		middleware.RequireRole(models.RoleLeader, models.RoleEmployee), projectHandler.UpdateWorkProgress)

	teamHandler := NewTeamHandler()
	teams := v1.Group("/teams")
	teams.Post("", middleware.RequireRole(models.RoleSupervisor), teamHandler.Create)
	teams.Get("", middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor), teamHandler.List)
	teams.Get("/:id/projects", teamHandler.ListProjects)
	teams.Post("/:id/employees", middleware.RequireRole(models.RoleSupervisor), teamHandler.AssignEmployee)
	teams.Put("/:id/employees", middleware.RequireRole(models.RoleSupervisor), teamHandler.MoveEmployee)
	teams.Post("/:id/split", middleware.RequireRole(models.RoleSupervisor), teamHandler.Split)

	userHandler := NewUserHandler(s.config)
	users := v1.Group("/users")
	users.Get("/me", userHandler.Me)
	users.Post("", middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor), userHandler.Create)
	users.Get("", middleware.RequireRole(models.RoleSupervisor), userHandler.ListUnderSupervisor)
	users.Get("/supervisors", middleware.RequireRole(models.RoleAdmin), userHandler.ListSupervisors)
	users.Patch("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor), userHandler.UpdateStatusRole)

	valuationHandler := NewValuationHandler(s.redis)
	valuations := v1.Group("/valuations")
	valuations.Post("", middleware.RequireRole(models.RoleSupervisor), valuationHandler.Save)
	valuations.Get("", valuationHandler.List)
	valuations.Post("/:id/phases/:phaseId",
		middleware.RequireRole(models.RoleSupervisor), valuationHandler.AddToPhase)
}

func (s *Server) healthCheck(c *fiber.Ctx) error {
	services := make(map[string]string)

	if err := repository.Ping(c.Context()); err != nil {
		services["database"] = "error"
	} else {
		services["database"] = "ok"
	}

	if err := s.redis.Ping(c.Context()).Err(); err != nil {
		services["redis"] = "error"
	} else {
		services["redis"] = "ok"
	}

	status := "healthy"
	for _, v := range services {
		if v == "error" {
			status = "unhealthy"
			break
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:   status,
		Version:  "1.0.0",
		Services: services,
	})
}

// Listen starts the HTTP server
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// ShutdownWithContext gracefully shuts down the server
func (s *Server) ShutdownWithContext(ctx context.Context) error {
	repository.Close()
	if s.redis != nil {
		_ = s.redis.Close()
	}
	return s.app.ShutdownWithContext(ctx)
}

func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.Address())
	if err != nil {
		opt = &redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(dto.Error(
		errorCodeFromStatus(code),
		err.Error(),
	))
}

func errorCodeFromStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}
