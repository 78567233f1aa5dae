package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"signup/docs" // swagger docs
	"signup/internal/auth"
	"signup/internal/cache"
	"signup/internal/config"
	"signup/internal/db"
	"signup/internal/handler"
	"signup/internal/identity"
	"signup/internal/repository"
	"signup/internal/router"
	"signup/internal/service"
)

// @title Signup API
// @version 1.0
// @description User accounts with local and Google sign-in, JWT sessions.
// @host localhost:8081
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.UsesDefaultJWTSecret() {
		log.Println("Warning: JWT_SECRET is not set, tokens are signed with the default secret")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		SlowThreshold:   cfg.DBSlowThreshold,
	})
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Printf("Warning: redis unavailable at %s, profile reads go straight to the database: %v", cfg.RedisAddr, err)
	}
	cancel()

	verifier := identityVerifier(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize auth components
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, jwtService, cacheClient)
	userService := service.NewUserService(userRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, verifier, handler.CookieConfig{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
		TTL:    jwtService.TTL(),
	})
	userHandler := handler.NewUserHandler(userService)

	e := echo.New()
	router.Register(e, cfg, jwtService, authHandler, userHandler)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL(cfg))

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

// identityVerifier returns the Firebase verifier when configured. Without it
// the server still runs, but Google sign-in answers 503.
func identityVerifier(cfg *config.Config) identity.Verifier {
	if !cfg.FirebaseEnabled() {
		log.Println("Firebase not configured, Google sign-in disabled")
		return identity.Disabled{}
	}
	v, err := identity.NewFirebaseVerifier(context.Background(), cfg.FirebaseCredentialsFile, cfg.FirebaseProjectID)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}
	return v
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/api-docs/index.html"
}
