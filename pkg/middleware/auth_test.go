package middleware

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewbase/backend/common/models"
)

const testSecret = "test-secret-key"

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, expiresAt, err := GenerateToken(userID, "sup@example.com", models.RoleSupervisor, testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "sup@example.com", claims.Email)
	assert.Equal(t, models.RoleSupervisor, claims.Role)
	assert.Equal(t, "crewbase", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := GenerateToken(uuid.New(), "a@b.c", models.RoleEmployee, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "a-different-secret")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, _, err := GenerateToken(uuid.New(), "a@b.c", models.RoleEmployee, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", testSecret)
	assert.Error(t, err)
}
