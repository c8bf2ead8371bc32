package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

const testCookieName = "marketplace_token"

func newTestApp(t *testing.T, tm *TokenManager, resolver *Resolver, required ...domain.Role) *fiber.App {
	t.Helper()

	middleware := NewMiddleware(tm, resolver, testCookieName, zap.NewNop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": domainErr.Code})
		}
		return nil
	})

	handlers := []fiber.Handler{middleware.Handle}
	if len(required) > 0 {
		handlers = append(handlers, RequireRoles(required...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"id": principal.ID()})
	})
	app.Get("/protected", handlers...)
	return app
}

func TestMiddlewareHeaderToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	resolver := newTestResolver([]*domain.Customer{{ID: "c1", Role: domain.RoleUser}}, nil)
	app := newTestApp(t, tm, resolver)

	token, _, err := tm.Issue("c1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestMiddlewareCookieFallback(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	resolver := newTestResolver([]*domain.Customer{{ID: "c1", Role: domain.RoleUser}}, nil)
	app := newTestApp(t, tm, resolver)

	token, _, err := tm.Issue("c1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestMiddlewareHeaderTakesPrecedenceOverCookie(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	resolver := newTestResolver([]*domain.Customer{{ID: "c1", Role: domain.RoleUser}}, nil)
	app := newTestApp(t, tm, resolver)

	goodToken, _, err := tm.Issue("c1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Garbage in the header must not fall through to the valid cookie.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: goodToken})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestMiddlewareStatusMapping(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	resolver := newTestResolver([]*domain.Customer{{ID: "c1", Role: domain.RoleUser}}, nil)

	validToken, _, err := tm.Issue("c1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	danglingToken, _, err := tm.Issue("deleted-account")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := []struct {
		name     string
		token    string
		required []domain.Role
		want     int
	}{
		{"no token", "", nil, http.StatusUnauthorized},
		{"invalid token", "garbage", nil, http.StatusUnauthorized},
		{"wrong role", validToken, []domain.Role{domain.RoleProvider}, http.StatusForbidden},
		{"dangling principal", danglingToken, nil, http.StatusNotFound},
		{"allowed", validToken, []domain.Role{domain.RoleUser, domain.RoleAdmin}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, tm, resolver, tc.required...)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}
