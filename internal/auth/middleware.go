package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Middleware validates bearer tokens and loads principals into the request
// context. Tokens arrive in the Authorization header or in the auth cookie;
// the header takes precedence when both are present.
type Middleware struct {
	tokens     *TokenManager
	resolver   *Resolver
	cookieName string
	logger     *zap.Logger
}

// NewMiddleware constructs the bearer middleware.
func NewMiddleware(tokens *TokenManager, resolver *Resolver, cookieName string, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, resolver: resolver, cookieName: cookieName, logger: logger}
}

// Handle enforces authentication for protected routes: verify the token,
// resolve the principal, attach it to the context. Invalid tokens are a 401
// regardless of sub-cause; a valid token whose subject no longer exists is a
// 404 so clients can force a local logout.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token := m.BearerToken(c)
	if token == "" {
		return apperrors.NewUnauthorized("missing bearer token")
	}

	subjectID, err := m.tokens.Verify(token)
	if err != nil {
		// The sub-cause (malformed vs bad signature vs expired) stays in
		// the logs; the response never distinguishes them.
		m.logger.Debug("token rejected", zap.Error(err))
		return apperrors.NewUnauthorized("invalid token")
	}

	principal, err := m.resolver.Resolve(c.Context(), subjectID)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			m.logger.Info("valid token with dangling subject", zap.String("subject_id", subjectID))
			return apperrors.NewNotFound("principal", map[string]any{"subject_id": subjectID})
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// BearerToken extracts the raw token from the request, header first.
func (m *Middleware) BearerToken(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Cookies(m.cookieName)
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(c *fiber.Ctx) (domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}
