package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"signup/internal/auth"
	"signup/internal/config"
	apperrors "signup/internal/errors"
	"signup/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	users := e.Group("/api/users")

	// Public routes
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/google-login", authHandler.GoogleLogin)
	users.POST("/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := users.Group("", RequireAuth(jwtService, cfg.CookieName))
	secured.POST("/link/google", authHandler.LinkGoogle)
	secured.GET("/me", userHandler.Me)
	secured.PATCH("/me", userHandler.UpdateMe)
}

// RequireAuth accepts a session token from the Authorization header or the
// session cookie and stores its *auth.Claims under "user".
func RequireAuth(jwtService *auth.JWTService, cookieName string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  "user",
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + cookieName,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "missing or invalid token",
				Code:  "UNAUTHORIZED",
			})
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator used by the handlers.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
