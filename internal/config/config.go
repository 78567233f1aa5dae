package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// DefaultJWTSecret is the placeholder secret used when JWT_SECRET is unset.
const DefaultJWTSecret = "change-me"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8081"`

	MySQLDSN          string        `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/signup?charset=utf8mb4&parseTime=True&loc=Local"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	DBSlowThreshold   time.Duration `env:"DB_SLOW_THRESHOLD" envDefault:"1s"`
	ResetDB           bool          `env:"RESET_DB" envDefault:"false"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
	RedisPass string `env:"REDIS_PASSWORD"`

	JWTSecret  string        `env:"JWT_SECRET" envDefault:"change-me"`
	JWTTTL     time.Duration `env:"JWT_TTL" envDefault:"1h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	CookieName   string   `env:"COOKIE_NAME" envDefault:"token"`
	CookieSecure bool     `env:"COOKIE_SECURE" envDefault:"false"`
	CORSOrigins  []string `env:"FRONTEND_URL" envDefault:"http://localhost:3000" envSeparator:","`

	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`

	SwaggerHost   string `env:"SWAGGER_HOST"`
	SeedUsersFile string `env:"SEED_USERS_FILE" envDefault:"seed/users.json"`
}

// Load builds Config from the environment, reading a .env file first when one exists.
// Variables already set in the process environment win over the file.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the services cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must not be empty")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("config: JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: BCRYPT_COST must be within [%d,%d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.CookieName == "" {
		return errors.New("config: COOKIE_NAME must not be empty")
	}
	if c.DBMaxOpenConns < 1 {
		return fmt.Errorf("config: DB_MAX_OPEN_CONNS must be at least 1, got %d", c.DBMaxOpenConns)
	}
	return nil
}

// UsesDefaultJWTSecret reports whether tokens would be signed with the public placeholder secret.
func (c *Config) UsesDefaultJWTSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// FirebaseEnabled reports whether enough is configured to verify identity tokens.
func (c *Config) FirebaseEnabled() bool {
	return c.FirebaseCredentialsFile != "" || c.FirebaseProjectID != ""
}
