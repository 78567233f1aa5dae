package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"signup/internal/auth"
	"signup/internal/identity"
	"signup/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	verifier    identity.Verifier
	cookie      CookieConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, verifier identity.Verifier, cookie CookieConfig) *AuthHandler {
	if verifier == nil {
		verifier = identity.Disabled{}
	}
	return &AuthHandler{authService: authService, verifier: verifier, cookie: cookie}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	UserName string `json:"user_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// RegisterResponse represents a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  uint   `json:"userId"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the session token also set as a cookie.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// IDTokenRequest carries an identity provider ID token.
type IDTokenRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// UserSummary is the public part of an account returned after third-party login.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GoogleLoginResponse represents a successful third-party login.
type GoogleLoginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

// LinkResponse reports how many rows a link updated.
type LinkResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new local account. Does not sign the user in.
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		return badRequest("password must be at most 72 bytes")
	}

	id, err := h.authService.Register(c.Request().Context(), req.UserName, req.Email, req.Password)
	if err != nil {
		return respondError(c, "register", err)
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
		UserID:  id,
	})
}

// Login godoc
// @Summary Login user
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, "login", err)
	}

	h.cookie.set(c, res.Token)
	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   res.Token,
	})
}

// GoogleLogin godoc
// @Summary Sign in with Google
// @Description Verifies a Firebase ID token, creating the account on first sign-in.
// @Tags users
// @Accept json
// @Produce json
// @Param request body IDTokenRequest true "Firebase ID token"
// @Success 200 {object} GoogleLoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /users/google-login [post]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req IDTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	profile, err := h.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		return respondError(c, "google login: verify", err)
	}

	res, err := h.authService.ThirdPartyLogin(ctx, service.ThirdPartyIdentity{
		Name:       profile.Name,
		Email:      profile.Email,
		PictureURL: profile.Picture,
		ProviderID: profile.Subject,
	})
	if err != nil {
		return respondError(c, "google login", err)
	}

	h.cookie.set(c, res.Token)
	return c.JSON(http.StatusOK, GoogleLoginResponse{
		Message: "Google login successful",
		Token:   res.Token,
		User: UserSummary{
			ID:    res.User.ID,
			Name:  res.User.Name,
			Email: res.User.Email,
		},
	})
}

// LinkGoogle godoc
// @Summary Link a Google identity to the signed-in account
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body IDTokenRequest true "Firebase ID token"
// @Success 200 {object} LinkResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/link/google [post]
func (h *AuthHandler) LinkGoogle(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var req IDTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	profile, err := h.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		return respondError(c, "link google: verify", err)
	}

	updated, err := h.authService.LinkThirdParty(ctx, claims.UserID, profile.Subject, profile.Picture)
	if err != nil {
		return respondError(c, "link google", err)
	}

	return c.JSON(http.StatusOK, LinkResponse{
		Message: "Google account linked",
		Updated: updated,
	})
}

// Logout godoc
// @Summary Logout user
// @Description Clears the session cookie.
// @Tags users
// @Produce json
// @Success 200 {object} map[string]string
// @Router /users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookie.clear(c)
	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}
