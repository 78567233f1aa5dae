package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"signup/internal/service"
)

// UserHandler serves the signed-in user's profile.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest carries the fields to change; omitted fields are left untouched.
type UpdateProfileRequest struct {
	UserName       *string `json:"user_name" validate:"omitempty,min=1,max=255"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,url,max=1024"`
}

// Me godoc
// @Summary Get the signed-in user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return respondError(c, "get user", err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update the signed-in user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), claims.UserID, req.UserName, req.ProfilePicture)
	if err != nil {
		return respondError(c, "update user", err)
	}
	return c.JSON(http.StatusOK, user)
}
