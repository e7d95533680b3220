package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospect-crm/internal/dto"
	"github.com/octobees/prospect-crm/internal/service"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register. New accounts get the sales role.
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "invalid payload")
	}

	session, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return authError(c, err, "unable to register user")
	}
	return Success(c, http.StatusCreated, "registration successful", tokenResponse(session))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "invalid payload")
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return authError(c, err, "unable to authenticate")
	}
	return Success(c, http.StatusOK, "login successful", tokenResponse(session))
}

func authError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return Error(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return Error(c, http.StatusConflict, "email already exists")
	default:
		return respondError(c, err, fallback)
	}
}

func tokenResponse(session service.Session) dto.TokenResponse {
	return dto.NewTokenResponse(session.Token, session.Role, session.Actor)
}
