package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "crewbase",
		Password: "secret",
		Name:     "crewbase",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=crewbase password=secret dbname=crewbase sslmode=disable",
		cfg.DSN(),
	)
}

func TestDatabaseDSNPrefersURL(t *testing.T) {
	cfg := DatabaseConfig{
		URL:  "postgres://u:p@db:5432/crewbase",
		Host: "ignored",
	}
	assert.Equal(t, "postgres://u:p@db:5432/crewbase", cfg.DSN())
}

func TestRedisAddress(t *testing.T) {
	cfg := RedisConfig{Host: "localhost", Port: 6379}
	assert.Equal(t, "localhost:6379", cfg.Address())

	cfg.URL = "redis://localhost:6380/1"
	assert.Equal(t, "redis://localhost:6380/1", cfg.Address())
}

func TestJWTExpiry(t *testing.T) {
	cfg := AuthConfig{JWTExpiryMinutes: 90}
	assert.Equal(t, 90*time.Minute, cfg.JWTExpiry())
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Environment = "development"
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Server.Environment = "production"
	assert.True(t, cfg.IsProduction())
}
