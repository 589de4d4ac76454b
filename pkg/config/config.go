package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host            string        `mapstructure:"HOST"`
	Port            int           `mapstructure:"PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	Environment     string        `mapstructure:"ENVIRONMENT"` // development, staging, production
	AllowedOrigins  string        `mapstructure:"ALLOWED_ORIGINS"`
}

// DatabaseConfig holds configuration for the database
type DatabaseConfig struct {
	URL          string        `mapstructure:"URL"`
	Host         string        `mapstructure:"HOST"`
	Port         int           `mapstructure:"PORT"`
	User         string        `mapstructure:"USER"`
	Password     string        `mapstructure:"PASSWORD"`
	Name         string        `mapstructure:"NAME"`
	SSLMode      string        `mapstructure:"SSL_MODE"`
	MaxOpenConns int           `mapstructure:"MAX_OPEN_CONNS"`
	MaxIdleConns int           `mapstructure:"MAX_IDLE_CONNS"`
	MaxLifetime  time.Duration `mapstructure:"MAX_LIFETIME"`
}

// DSN returns the data source name for connecting to the database
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string `mapstructure:"REDIS_URL"`
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

// Address returns the Redis address
func (c *RedisConfig) Address() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret        string `mapstructure:"JWT_SECRET"`
	JWTExpiryMinutes int    `mapstructure:"JWT_EXPIRY_MINUTES"`
	BcryptCost       int    `mapstructure:"BCRYPT_COST"`
}

// JWTExpiry returns the JWT expiry duration
func (c *AuthConfig) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryMinutes) * time.Minute
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env from current dir or parent dirs (for running from cmd/)
	loadEnvFile()

	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/crewbase/")

	// Ignore error if config file doesn't exist
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideFromEnv(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// overrideFromEnv reads common environment variables and overrides config
// values (for PaaS compatibility)
func overrideFromEnv(config *Config) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		config.Redis.URL = url
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if val := os.Getenv("JWT_EXPIRY_MINUTES"); val != "" {
		if minutes, err := strconv.Atoi(val); err == nil {
			config.Auth.JWTExpiryMinutes = minutes
		}
	}

	// Safety net for viper key mismatch
	if config.Auth.JWTExpiryMinutes == 0 {
		config.Auth.JWTExpiryMinutes = 60
	}
	if config.Auth.BcryptCost == 0 {
		config.Auth.BcryptCost = 10
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		config.Server.Environment = env
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.Server.AllowedOrigins = origins
	}
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("Server.Host", "0.0.0.0")
	v.SetDefault("Server.Port", 8080)
	v.SetDefault("Server.ShutdownTimeout", 10*time.Second)
	v.SetDefault("Server.Environment", "development")
	v.SetDefault("Server.AllowedOrigins", "https://app.crewbase.io")

	// Database defaults
	v.SetDefault("Database.Host", "localhost")
	v.SetDefault("Database.Port", 5432)
	v.SetDefault("Database.SSLMode", "disable")
	v.SetDefault("Database.MaxOpenConns", 25)
	v.SetDefault("Database.MaxIdleConns", 5)
	v.SetDefault("Database.MaxLifetime", 5*time.Minute)

	// Redis defaults
	v.SetDefault("Redis.Host", "localhost")
	v.SetDefault("Redis.Port", 6379)
	v.SetDefault("Redis.DB", 0)

	// Auth defaults
	v.SetDefault("Auth.JWT_EXPIRY_MINUTES", 60)
	v.SetDefault("Auth.BCRYPT_COST", 10)
}

func validate(config *Config) error {
	if config.Server.Environment == "production" {
		if config.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
	}
	return nil
}

// loadEnvFile attempts to load .env from the current directory or parents
func loadEnvFile() {
	if err := godotenv.Load(); err == nil {
		return
	}

	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
