package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// AuthHandler exposes registration, login and credential endpoints for both
// principal kinds.
type AuthHandler struct {
	auth       *service.AuthService
	cookieName string
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, cookieName string) *AuthHandler {
	return &AuthHandler{auth: authService, cookieName: cookieName}
}

// RegisterCustomer handles POST /auth/customers/register.
func (h *AuthHandler) RegisterCustomer(c *fiber.Ctx) error {
	var req dto.CustomerRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	result, err := h.auth.RegisterCustomer(c.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return h.loginResponse(c, result, http.StatusCreated)
}

// LoginCustomer handles POST /auth/customers/login.
func (h *AuthHandler) LoginCustomer(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	result, err := h.auth.LoginCustomer(c.Context(), req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}
	return h.loginResponse(c, result, http.StatusOK)
}

// RegisterProvider handles POST /auth/providers/register.
func (h *AuthHandler) RegisterProvider(c *fiber.Ctx) error {
	var req dto.ProviderRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	result, err := h.auth.RegisterProvider(c.Context(), req.Name, req.Email, req.Phone, req.Bio, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return h.loginResponse(c, result, http.StatusCreated)
}

// LoginProvider handles POST /auth/providers/login.
func (h *AuthHandler) LoginProvider(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	result, err := h.auth.LoginProvider(c.Context(), req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}
	return h.loginResponse(c, result, http.StatusOK)
}

// Logout handles POST /auth/logout. Stateless tokens make this a server-side
// acknowledgement; the cookie is expired so server-rendered consumers drop
// it, client stores are the session client's responsibility.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	_ = h.auth.Logout(c.Context(), "")
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequestPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	// The response never reveals whether the email exists.
	if _, err := h.auth.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return c.JSON(fiber.Map{"data": fiber.Map{"requested": true}})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"requested": true}})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "token and new_password required")
	}

	if err := h.auth.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reset": true}})
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.PasswordChangePayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "current_password and new_password required")
	}

	if err := h.auth.ChangePassword(c.Context(), principal, req.CurrentPassword, req.NewPassword); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}

// SuspendCustomer handles POST /auth/customers/:id/suspend (admin only).
func (h *AuthHandler) SuspendCustomer(c *fiber.Ctx) error {
	if err := h.auth.SuspendCustomer(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"suspended": true}})
}

// loginResponse writes the token to both the JSON body and the auth cookie,
// so fetch-style clients and server-rendered requests see the same
// credential.
func (h *AuthHandler) loginResponse(c *fiber.Ctx, result *service.LoginResult, status int) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    result.Token,
		Expires:  result.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(status).JSON(fiber.Map{
		"data": fiber.Map{
			"principal": dto.NewPrincipalPayload(result.Principal),
			"auth":      dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
		},
	})
}
