package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"signup/internal/auth"
	"signup/internal/config"
	"signup/internal/db"
	apperrors "signup/internal/errors"
	"signup/internal/repository"
	"signup/internal/service"
)

// SeedUser is one entry of the seed file.
type SeedUser struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		SlowThreshold:   cfg.DBSlowThreshold,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB, false); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	log.Printf("Loading users from: %s", cfg.SeedUsersFile)
	users, err := loadSeedUsers(cfg.SeedUsersFile)
	if err != nil {
		log.Fatalf("Failed to load users: %v", err)
	}
	log.Printf("Loaded %d users", len(users))

	authService := service.NewAuthService(
		repository.NewUserRepository(gormDB),
		auth.NewBcryptHasher(cfg.BcryptCost),
		auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL),
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	created, existing, err := seedUsers(ctx, authService, users)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users skipped: %d", existing)
	log.Printf("  - Total users processed: %d", created+existing)
}

// loadSeedUsers reads the seed list from a local path or an http(s) URL.
func loadSeedUsers(source string) ([]SeedUser, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch from API: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("API returned status code: %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open seed file: %w", err)
		}
		r = f
	}
	defer r.Close()

	var users []SeedUser
	if err := json.NewDecoder(r).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

// seedUsers registers every user, counting emails that already have an account
// as existing rather than failing.
func seedUsers(ctx context.Context, svc service.AuthService, users []SeedUser) (created int, existing int, err error) {
	for _, u := range users {
		if _, err := svc.Register(ctx, u.UserName, u.Email, u.Password); err != nil {
			if errors.Is(err, apperrors.ErrEmailInUse) {
				existing++
				continue
			}
			return created, existing, fmt.Errorf("error registering %s: %w", u.Email, err)
		}
		created++
	}
	return created, existing, nil
}
