package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/crewbase/backend/common/errors"
	"github.com/crewbase/backend/common/models"
	"github.com/crewbase/backend/pkg/httputil"
)

// TokenClaims represents the JWT claims structure
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID   `json:"uid"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// AuthConfig holds configuration for the auth middleware
type AuthConfig struct {
	JWTSecret string
	SkipPaths []string
}

// Auth creates a JWT authentication middleware
func Auth(config AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		for _, skipPath := range config.SkipPaths {
			if strings.HasPrefix(path, skipPath) {
				return c.Next()
			}
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return httputil.Unauthorized(c, "missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return httputil.Unauthorized(c, "invalid authorization header format")
		}

		claims, err := ValidateToken(parts[1], config.JWTSecret)
		if err != nil {
			return httputil.Error(c, err)
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// RequireRole creates a middleware that rejects callers whose role is not in
// the allowed set. This is the coarse gate; fine-grained ownership checks
// happen in the repository layer and surface as not-found.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(models.Role)
		if !ok {
			return httputil.Unauthorized(c, "")
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return httputil.Unauthorized(c, "role not permitted for this operation")
	}
}

// ValidateToken parses and validates a JWT token
func ValidateToken(tokenString, secret string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Unauthorized("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Unauthorized("token expired")
		}
		return nil, errors.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.Unauthorized("invalid token")
	}

	return claims, nil
}

// GenerateToken generates a signed access token for a user
func GenerateToken(userID uuid.UUID, email string, role models.Role, secret string, expiry time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(expiry)

	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "crewbase",
			Subject:   userID.String(),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// GetUserID extracts the user ID from the Fiber context
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.ErrUnauthorized
	}
	return userID, nil
}

// GetRole extracts the caller's role from the Fiber context
func GetRole(c *fiber.Ctx) models.Role {
	role, _ := c.Locals("role").(models.Role)
	return role
}

// GetClaims extracts the full claims from the Fiber context
func GetClaims(c *fiber.Ctx) *TokenClaims {
	claims, _ := c.Locals("claims").(*TokenClaims)
	return claims
}
