package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.Issue("c1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	subjectID, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subjectID != "c1" {
		t.Fatalf("subject mismatch: got %q", subjectID)
	}
}

func TestTokenIssueWithoutSecret(t *testing.T) {
	tm := NewTokenManager("", 60)
	if _, _, err := tm.Issue("c1"); !errors.Is(err, ErrNoSigningSecret) {
		t.Fatalf("expected ErrNoSigningSecret, got %v", err)
	}
}

func TestTokenVerifyExpired(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, _, err := tm.Issue("c1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Signature is valid; expiry alone must reject it.
	if _, err := tm.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenVerifyFailuresCollapse(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	other := NewTokenManager("other-secret", 60)

	signedElsewhere, _, err := other.Issue("c1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := map[string]string{
		"malformed":          "not-a-jwt",
		"wrong signature":    signedElsewhere,
		"empty":              "",
		"truncated sections": "aaaa.bbbb",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := tm.Verify(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
