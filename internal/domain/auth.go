package domain

import "time"

// PasswordReset is a short-lived reset grant keyed by its opaque token.
type PasswordReset struct {
	Kind      PrincipalKind
	SubjectID string
	Token     string
	ExpiresAt time.Time
}
