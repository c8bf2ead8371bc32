package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// CustomerRegisterRequest payload for new customers.
type CustomerRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ProviderRegisterRequest payload for new providers.
type ProviderRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
	Password string `json:"password"`
}

// LoginRequest payload for login, shared by both kinds.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PrincipalPayload is the normalized principal subset returned by the
// session endpoint and login responses. Kind discriminates the variant.
type PrincipalPayload struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SessionResponse is the discriminated answer of GET /auth/session. An
// unauthenticated caller gets {authenticated: false} with no principal; that
// is a structured answer, not an error.
type SessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	Principal     *PrincipalPayload `json:"principal,omitempty"`
}

// PasswordResetRequestPayload asks for a reset token by email.
type PasswordResetRequestPayload struct {
	Email string `json:"email"`
}

// PasswordResetConfirmPayload redeems a reset token.
type PasswordResetConfirmPayload struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// PasswordChangePayload changes the caller's own password.
type PasswordChangePayload struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// NewPrincipalPayload converts a resolved principal to its wire shape.
func NewPrincipalPayload(p domain.Principal) *PrincipalPayload {
	kind := "customer"
	if p.Kind == domain.PrincipalKindProvider {
		kind = "provider"
	}
	return &PrincipalPayload{
		Kind:  kind,
		ID:    p.ID(),
		Name:  p.DisplayName(),
		Email: p.Email(),
		Role:  string(p.Role()),
	}
}
