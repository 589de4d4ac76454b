package app

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/crewbase/backend/common/errors"
	"github.com/crewbase/backend/common/models"
	"github.com/crewbase/backend/pkg/config"
	"github.com/crewbase/backend/pkg/httputil"
	"github.com/crewbase/backend/pkg/middleware"
	"github.com/crewbase/backend/repository"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	config *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the account it belongs to
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   string      `json:"expires_at"`
	User        models.User `json:"user"`
}

// Login verifies credentials and issues an access token. A missing account
// and a wrong password return the same message, so emails can't be probed.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return httputil.ValidationError(c, "validation failed", map[string]string{
			"email":    "required",
			"password": "required",
		})
	}

	user, err := repository.FindUserByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.IsNotFound(err) {
			return httputil.Unauthorized(c, "invalid email or password")
		}
		return httputil.Error(c, err)
	}
	if user.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)) != nil {
		return httputil.Unauthorized(c, "invalid email or password")
	}
	if user.Status == models.UserStatusResigned {
		return httputil.Unauthorized(c, "account is no longer active")
	}

	token, expiresAt, err := middleware.GenerateToken(
		user.ID, user.Email, user.Role,
		h.config.Auth.JWTSecret, h.config.Auth.JWTExpiry(),
	)
	if err != nil {
		return httputil.InternalError(c, "failed to issue token")
	}

	user.PasswordHash = nil
	return httputil.Success(c, LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		User:        *user,
	})
}
