package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

type memCustomerRepo struct {
	seq  int
	byID map[string]*domain.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{byID: map[string]*domain.Customer{}}
}

func (r *memCustomerRepo) Create(_ context.Context, c *domain.Customer) error {
	r.seq++
	c.ID = "c" + strconv.Itoa(r.seq)
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.byID[c.ID] = c
	return nil
}

func (r *memCustomerRepo) Update(_ context.Context, c *domain.Customer) error {
	if _, ok := r.byID[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.byID[c.ID] = c
	return nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	for _, c := range r.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memProviderRepo struct {
	seq  int
	byID map[string]*domain.Provider
}

func newMemProviderRepo() *memProviderRepo {
	return &memProviderRepo{byID: map[string]*domain.Provider{}}
}

func (r *memProviderRepo) Create(_ context.Context, p *domain.Provider) error {
	r.seq++
	p.ID = "p" + strconv.Itoa(r.seq)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.byID[p.ID] = p
	return nil
}

func (r *memProviderRepo) Update(_ context.Context, p *domain.Provider) error {
	if _, ok := r.byID[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.byID[p.ID] = p
	return nil
}

func (r *memProviderRepo) GetByID(_ context.Context, id string) (*domain.Provider, error) {
	if p, ok := r.byID[id]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memProviderRepo) GetByEmail(_ context.Context, email string) (*domain.Provider, error) {
	for _, p := range r.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memResetRepo struct {
	byToken map[string]*domain.PasswordReset
}

func newMemResetRepo() *memResetRepo {
	return &memResetRepo{byToken: map[string]*domain.PasswordReset{}}
}

func (r *memResetRepo) Create(_ context.Context, reset *domain.PasswordReset) error {
	r.byToken[reset.Token] = reset
	return nil
}

func (r *memResetRepo) Consume(_ context.Context, token string) (*domain.PasswordReset, error) {
	reset, ok := r.byToken[token]
	if !ok || time.Now().After(reset.ExpiresAt) {
		return nil, repository.ErrResetNotFound
	}
	delete(r.byToken, token)
	return reset, nil
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              4,
		},
	}
}

func newTestAuthService() (*AuthService, *memCustomerRepo, *memProviderRepo, *memResetRepo) {
	customers := newMemCustomerRepo()
	providers := newMemProviderRepo()
	resets := newMemResetRepo()
	svc := NewAuthService(testConfig(), AuthDependencies{
		CustomerRepo:      customers,
		ProviderRepo:      providers,
		PasswordResetRepo: resets,
	})
	return svc, customers, providers, resets
}

func TestRegisterCustomerAutoLogin(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	result, err := svc.RegisterCustomer(context.Background(), "Ana", "ana@example.com", "", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a token from auto-login")
	}
	if result.Principal.Role() != domain.RoleUser {
		t.Fatalf("expected role user, got %v", result.Principal.Role())
	}

	subjectID, err := svc.TokenManager().Verify(result.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if subjectID != result.Principal.ID() {
		t.Fatalf("token subject %q does not match principal %q", subjectID, result.Principal.ID())
	}
}

func TestLoginCustomerWrongPassword(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	if _, err := svc.RegisterCustomer(context.Background(), "Ana", "ana@example.com", "", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.LoginCustomer(context.Background(), "ana@example.com", "wrong"); err == nil {
		t.Fatalf("expected login rejection")
	}
	if _, err := svc.LoginCustomer(context.Background(), "nobody@example.com", "hunter22"); err == nil {
		t.Fatalf("expected login rejection for unknown email")
	}
}

func TestLoginSuspendedCustomer(t *testing.T) {
	svc, customers, _, _ := newTestAuthService()

	result, err := svc.RegisterCustomer(context.Background(), "Ana", "ana@example.com", "", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.SuspendCustomer(context.Background(), result.Principal.ID()); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if customers.byID[result.Principal.ID()].Status != domain.CustomerStatusSuspended {
		t.Fatalf("expected suspended status")
	}
	if _, err := svc.LoginCustomer(context.Background(), "ana@example.com", "hunter22"); err == nil {
		t.Fatalf("expected login rejection for suspended account")
	}
}

func TestProviderLoginDerivesProviderRole(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	if _, err := svc.RegisterProvider(context.Background(), "Borja", "borja@example.com", "", "plumbing", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.LoginProvider(context.Background(), "borja@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Principal.Role() != domain.RoleProvider {
		t.Fatalf("expected role provider, got %v", result.Principal.Role())
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	if _, err := svc.RegisterCustomer(context.Background(), "Ana", "ana@example.com", "", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}

	reset, err := svc.RequestPasswordReset(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if reset.Kind != domain.PrincipalKindCustomer {
		t.Fatalf("expected customer reset, got %v", reset.Kind)
	}

	if err := svc.ConfirmPasswordReset(context.Background(), reset.Token, "new-password"); err != nil {
		t.Fatalf("confirm reset: %v", err)
	}

	// Token is single-use.
	if err := svc.ConfirmPasswordReset(context.Background(), reset.Token, "again"); err == nil {
		t.Fatalf("expected second confirm to fail")
	}

	if _, err := svc.LoginCustomer(context.Background(), "ana@example.com", "hunter22"); err == nil {
		t.Fatalf("old password still accepted")
	}
	if _, err := svc.LoginCustomer(context.Background(), "ana@example.com", "new-password"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	result, err := svc.RegisterCustomer(context.Background(), "Ana", "ana@example.com", "", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), result.Principal, "wrong", "next"); err == nil {
		t.Fatalf("expected rejection with wrong current password")
	}
	if err := svc.ChangePassword(context.Background(), result.Principal, "hunter22", "next"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.LoginCustomer(context.Background(), "ana@example.com", "next"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
