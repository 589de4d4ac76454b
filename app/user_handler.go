package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/crewbase/backend/common/models"
	"github.com/crewbase/backend/pkg/config"
	"github.com/crewbase/backend/pkg/httputil"
	"github.com/crewbase/backend/pkg/middleware"
	"github.com/crewbase/backend/repository"
)

// UserHandler handles user endpoints
type UserHandler struct {
	config *config.Config
}

// NewUserHandler creates a new user handler
func NewUserHandler(cfg *config.Config) *UserHandler {
	return &UserHandler{config: cfg}
}

// Create provisions an account under the calling user
func (h *UserHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}

	var input repository.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}

	fields := map[string]string{}
	if input.Email == "" {
		fields["email"] = "required"
	}
	if len(input.Password) < 6 {
		fields["password"] = "must be at least 6 characters"
	}
	if input.Role == "" {
		fields["role"] = "required"
	}
	if len(fields) > 0 {
		return httputil.ValidationError(c, "validation failed", fields)
	}

	user, err := repository.CreateUser(c.Context(), userID, middleware.GetRole(c), input, h.config.Auth.BcryptCost)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Created(c, user)
}

// ListUnderSupervisor lists the users reporting to the calling supervisor
func (h *UserHandler) ListUnderSupervisor(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}

	pagination := httputil.ParsePagination(c)
	search := c.Query("search")
	teamFilter := c.Query("team", "all")
	status := models.UserStatus(c.Query("status"))

	users, total, err := repository.ListUsersUnderSupervisor(c.Context(), userID, pagination, search, teamFilter, status)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.SuccessWithMeta(c, users,
		httputil.BuildMeta(pagination.Page, pagination.Limit, total))
}

// ListSupervisors lists the supervisors registered under the calling admin
func (h *UserHandler) ListSupervisors(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}

	pagination := httputil.ParsePagination(c)
	search := c.Query("search")

	supervisors, total, err := repository.ListSupervisors(c.Context(), userID, pagination, search)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.SuccessWithMeta(c, supervisors,
		httputil.BuildMeta(pagination.Page, pagination.Limit, total))
}

// UpdateStatusRoleRequest represents the role/status update request
type UpdateStatusRoleRequest struct {
	Role   *models.Role       `json:"role,omitempty"`
	Status *models.UserStatus `json:"status,omitempty"`
}

// UpdateStatusRole updates a user's role and/or status
func (h *UserHandler) UpdateStatusRole(c *fiber.Ctx) error {
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httputil.BadRequest(c, "invalid user id")
	}

	var req UpdateStatusRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}
	if req.Role == nil && req.Status == nil {
		return httputil.ValidationError(c, "validation failed", map[string]string{
			"role":   "role or status required",
			"status": "role or status required",
		})
	}

	user, err := repository.UpdateUserStatusRole(c.Context(), middleware.GetRole(c), targetID, req.Role, req.Status)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Success(c, user)
}

// Me returns the calling user's account and profile
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}

	data, err := repository.GetMyData(c.Context(), userID)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Success(c, data)
}
