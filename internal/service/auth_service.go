package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// LoginResult bundles the resolved principal with its freshly issued token.
type LoginResult struct {
	Principal domain.Principal
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration, login and credential maintenance for
// both principal kinds.
type AuthService struct {
	customers  repository.CustomerRepository
	providers  repository.ProviderRepository
	resets     repository.PasswordResetRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates store requirements for the auth service.
type AuthDependencies struct {
	CustomerRepo      repository.CustomerRepository
	ProviderRepo      repository.ProviderRepository
	PasswordResetRepo repository.PasswordResetRepository
	Dispatcher        events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		customers:  deps.CustomerRepo,
		providers:  deps.ProviderRepo,
		resets:     deps.PasswordResetRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// RegisterCustomer creates a customer account and auto-logs it in.
func (s *AuthService) RegisterCustomer(ctx context.Context, name, email, phone, password string) (*LoginResult, error) {
	if _, err := s.customers.GetByEmail(ctx, email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       domain.CustomerStatusActive,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventCustomerRegistered, events.Actor{
		Kind:      domain.PrincipalKindCustomer,
		SubjectID: customer.ID,
	}, nil)

	return s.issueFor(domain.CustomerPrincipal(customer))
}

// LoginCustomer authenticates a customer by email and password.
func (s *AuthService) LoginCustomer(ctx context.Context, email, password string) (*LoginResult, error) {
	customer, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("invalid credentials")
		}
		return nil, err
	}
	if customer.Status != domain.CustomerStatusActive {
		return nil, errors.New("account suspended")
	}
	if err := auth.ComparePassword(customer.PasswordHash, password); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return s.issueFor(domain.CustomerPrincipal(customer))
}

// RegisterProvider creates a provider account and auto-logs it in.
func (s *AuthService) RegisterProvider(ctx context.Context, name, email, phone, bio, password string) (*LoginResult, error) {
	if _, err := s.providers.GetByEmail(ctx, email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	provider := &domain.Provider{
		Name:         name,
		Email:        email,
		Phone:        phone,
		Bio:          bio,
		PasswordHash: hash,
		Active:       true,
	}
	if err := s.providers.Create(ctx, provider); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventProviderRegistered, events.Actor{
		Kind:      domain.PrincipalKindProvider,
		SubjectID: provider.ID,
	}, nil)

	return s.issueFor(domain.ProviderPrincipal(provider))
}

// LoginProvider authenticates a provider by email and password.
func (s *AuthService) LoginProvider(ctx context.Context, email, password string) (*LoginResult, error) {
	provider, err := s.providers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("invalid credentials")
		}
		return nil, err
	}
	if !provider.Active {
		return nil, errors.New("provider inactive")
	}
	if err := auth.ComparePassword(provider.PasswordHash, password); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return s.issueFor(domain.ProviderPrincipal(provider))
}

// Logout is a server-side no-op: tokens are stateless and expire on their
// own, clients clear their stored copies.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// RequestPasswordReset stores a short-lived reset grant for either account
// kind. The customer store is probed first, matching identity resolution.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*domain.PasswordReset, error) {
	kind := domain.PrincipalKindCustomer
	subjectID := ""

	if customer, err := s.customers.GetByEmail(ctx, email); err == nil {
		subjectID = customer.ID
	} else if errors.Is(err, pgx.ErrNoRows) {
		provider, provErr := s.providers.GetByEmail(ctx, email)
		if provErr != nil {
			return nil, provErr
		}
		kind = domain.PrincipalKindProvider
		subjectID = provider.ID
	} else {
		return nil, err
	}

	reset := &domain.PasswordReset{
		Kind:      kind,
		SubjectID: subjectID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPasswordResetRequested, events.Actor{Kind: kind, SubjectID: subjectID},
		events.PasswordResetRequestedPayload{Email: email, Token: reset.Token, ExpiresAt: reset.ExpiresAt})

	return reset, nil
}

// ConfirmPasswordReset consumes the reset grant and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	reset, err := s.resets.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrResetNotFound) {
			return errors.New("reset token expired or unknown")
		}
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	switch reset.Kind {
	case domain.PrincipalKindCustomer:
		customer, err := s.customers.GetByID(ctx, reset.SubjectID)
		if err != nil {
			return err
		}
		customer.PasswordHash = hash
		return s.customers.Update(ctx, customer)
	case domain.PrincipalKindProvider:
		provider, err := s.providers.GetByID(ctx, reset.SubjectID)
		if err != nil {
			return err
		}
		provider.PasswordHash = hash
		return s.providers.Update(ctx, provider)
	default:
		return errors.New("unknown principal kind")
	}
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, principal domain.Principal, currentPassword, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	switch principal.Kind {
	case domain.PrincipalKindCustomer:
		customer, err := s.customers.GetByID(ctx, principal.Customer.ID)
		if err != nil {
			return err
		}
		if err := auth.ComparePassword(customer.PasswordHash, currentPassword); err != nil {
			return errors.New("invalid credentials")
		}
		customer.PasswordHash = hash
		return s.customers.Update(ctx, customer)
	case domain.PrincipalKindProvider:
		provider, err := s.providers.GetByID(ctx, principal.Provider.ID)
		if err != nil {
			return err
		}
		if err := auth.ComparePassword(provider.PasswordHash, currentPassword); err != nil {
			return errors.New("invalid credentials")
		}
		provider.PasswordHash = hash
		return s.providers.Update(ctx, provider)
	default:
		return errors.New("unknown principal kind")
	}
}

// SuspendCustomer flips a customer account to suspended. Admin-only at the
// route layer; the token stays verifiable until expiry but resolution-time
// status checks stop the account logging in again.
func (s *AuthService) SuspendCustomer(ctx context.Context, customerID string) error {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	customer.Status = domain.CustomerStatusSuspended
	return s.customers.Update(ctx, customer)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issueFor(principal domain.Principal) (*LoginResult, error) {
	token, expiresAt, err := s.tokenMgr.Issue(principal.ID())
	if err != nil {
		return nil, err
	}
	return &LoginResult{Principal: principal, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, actor events.Actor, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
