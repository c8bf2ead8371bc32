package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// Authorize is the pure authorization predicate: allow iff role is non-empty
// and a member of required. No I/O, no mutation; safe to evaluate repeatedly.
// The returned error carries the offending role and the required set for
// diagnostics without revealing whether the target resource exists.
func Authorize(role domain.Role, required ...domain.Role) error {
	if role == "" {
		return apperrors.NewForbidden("no role resolved")
	}
	for _, want := range required {
		if role == want {
			return nil
		}
	}
	return apperrors.NewDomainError("FORBIDDEN", "insufficient role", fiber.StatusForbidden, map[string]any{
		"role":     string(role),
		"required": roleStrings(required),
	})
}

// RequireRoles gates a route on the resolved principal's role. It must run
// after the bearer middleware has populated the request context; a missing
// principal is always a 401, a present principal with the wrong role a 403.
// Public routes simply omit this handler rather than passing an empty set.
func RequireRoles(required ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if err := Authorize(principal.Role(), required...); err != nil {
			return err
		}
		return c.Next()
	}
}

func roleStrings(roles []domain.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}
