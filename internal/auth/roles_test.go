package auth

import (
	"testing"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name     string
		role     domain.Role
		required []domain.Role
		allow    bool
	}{
		{"user in user set", domain.RoleUser, []domain.Role{domain.RoleUser}, true},
		{"user in user+admin set", domain.RoleUser, []domain.Role{domain.RoleUser, domain.RoleAdmin}, true},
		{"user against provider set", domain.RoleUser, []domain.Role{domain.RoleProvider}, false},
		{"provider against provider set", domain.RoleProvider, []domain.Role{domain.RoleProvider}, true},
		{"admin against user set", domain.RoleAdmin, []domain.Role{domain.RoleUser}, false},
		{"empty role always denied", "", []domain.Role{domain.RoleUser, domain.RoleProvider, domain.RoleAdmin}, false},
		{"empty role against empty set", "", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.role, tc.required...)
			if tc.allow && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if !tc.allow && err == nil {
				t.Fatalf("expected deny")
			}
		})
	}
}

func TestAuthorizeDenyCarriesDiagnostics(t *testing.T) {
	err := Authorize(domain.RoleUser, domain.RoleProvider)
	if err == nil {
		t.Fatalf("expected deny")
	}

	domainErr := apperrors.ToDomainError(err)
	if domainErr.HTTPStatus != 403 {
		t.Fatalf("expected 403, got %d", domainErr.HTTPStatus)
	}
	if domainErr.Details["role"] != "user" {
		t.Fatalf("expected offending role in details, got %v", domainErr.Details)
	}
}
