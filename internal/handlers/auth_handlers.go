package handlers

import (
	"net/http"

	"placemate/internal/common"
	"placemate/internal/services"

	"github.com/labstack/echo/v4"
)

type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// Register handles POST /auth/register
func (h *AuthHandlers) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Me handles GET /auth/me
func (h *AuthHandlers) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Resolve(c.Request().Context(), userID)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}
