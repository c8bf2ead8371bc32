package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// SessionHandler serves the ungated resolution endpoint clients use to
// rebuild session state on startup.
type SessionHandler struct {
	middleware *auth.Middleware
	tokens     *auth.TokenManager
	resolver   *auth.Resolver
	logger     *zap.Logger
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(middleware *auth.Middleware, tokens *auth.TokenManager, resolver *auth.Resolver, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{middleware: middleware, tokens: tokens, resolver: resolver, logger: logger}
}

// Resolve handles GET /auth/session. A missing or invalid token yields a
// 200 with authenticated=false, so a stale credential bootstraps quietly to
// an anonymous session; only a valid token whose subject has vanished is an
// error (404), which clients treat as a forced logout.
func (h *SessionHandler) Resolve(c *fiber.Ctx) error {
	token := h.middleware.BearerToken(c)
	if token == "" {
		return c.JSON(dto.SessionResponse{Authenticated: false})
	}

	subjectID, err := h.tokens.Verify(token)
	if err != nil {
		h.logger.Debug("session token rejected", zap.Error(err))
		return c.JSON(dto.SessionResponse{Authenticated: false})
	}

	principal, err := h.resolver.Resolve(c.Context(), subjectID)
	if err != nil {
		if errors.Is(err, auth.ErrPrincipalNotFound) {
			return apperrors.NewNotFound("principal", map[string]any{"subject_id": subjectID})
		}
		return apperrors.MapError(err)
	}

	return c.JSON(dto.SessionResponse{
		Authenticated: true,
		Principal:     dto.NewPrincipalPayload(principal),
	})
}
