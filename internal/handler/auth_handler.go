package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadscope/opportunity-finder/api/internal/dto"
	"github.com/leadscope/opportunity-finder/api/internal/repository"
	"github.com/leadscope/opportunity-finder/api/internal/service"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register requests.
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, KindValidation, "invalid payload")
	}

	resp, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return Fail(c, http.StatusConflict, KindValidation, "email already registered")
		}
		return ServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, resp)
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, KindValidation, "invalid payload")
	}

	resp, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return ServiceError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}
