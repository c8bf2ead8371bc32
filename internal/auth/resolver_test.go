package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

type fakeCustomerRepo struct {
	byID map[string]*domain.Customer
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *domain.Customer) error {
	r.byID[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *domain.Customer) error {
	r.byID[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	for _, c := range r.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeProviderRepo struct {
	byID map[string]*domain.Provider
}

func (r *fakeProviderRepo) Create(_ context.Context, p *domain.Provider) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProviderRepo) Update(_ context.Context, p *domain.Provider) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProviderRepo) GetByID(_ context.Context, id string) (*domain.Provider, error) {
	if p, ok := r.byID[id]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeProviderRepo) GetByEmail(_ context.Context, email string) (*domain.Provider, error) {
	for _, p := range r.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newTestResolver(customers []*domain.Customer, providers []*domain.Provider) *Resolver {
	customerRepo := &fakeCustomerRepo{byID: map[string]*domain.Customer{}}
	for _, c := range customers {
		customerRepo.byID[c.ID] = c
	}
	providerRepo := &fakeProviderRepo{byID: map[string]*domain.Provider{}}
	for _, p := range providers {
		providerRepo.byID[p.ID] = p
	}
	return NewResolver(customerRepo, providerRepo)
}

func TestResolveCustomer(t *testing.T) {
	resolver := newTestResolver(
		[]*domain.Customer{{ID: "c1", Name: "Ana", Role: domain.RoleUser}},
		nil,
	)

	principal, err := resolver.Resolve(context.Background(), "c1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if principal.Kind != domain.PrincipalKindCustomer {
		t.Fatalf("expected customer kind, got %v", principal.Kind)
	}
	if principal.Role() != domain.RoleUser {
		t.Fatalf("expected role user, got %v", principal.Role())
	}
}

func TestResolveAdminRoleComesFromRecord(t *testing.T) {
	resolver := newTestResolver(
		[]*domain.Customer{{ID: "c2", Role: domain.RoleAdmin}},
		nil,
	)

	principal, err := resolver.Resolve(context.Background(), "c2")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if principal.Role() != domain.RoleAdmin {
		t.Fatalf("expected role admin, got %v", principal.Role())
	}
}

func TestResolveProviderRoleIsDerived(t *testing.T) {
	resolver := newTestResolver(nil,
		[]*domain.Provider{{ID: "p1", Name: "Borja"}},
	)

	principal, err := resolver.Resolve(context.Background(), "p1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if principal.Kind != domain.PrincipalKindProvider {
		t.Fatalf("expected provider kind, got %v", principal.Kind)
	}
	if principal.Role() != domain.RoleProvider {
		t.Fatalf("expected role provider, got %v", principal.Role())
	}
}

func TestResolveCollisionPrefersCustomer(t *testing.T) {
	// The same id exists in both stores; the customer store must always win.
	resolver := newTestResolver(
		[]*domain.Customer{{ID: "shared", Name: "Customer Copy", Role: domain.RoleUser}},
		[]*domain.Provider{{ID: "shared", Name: "Provider Copy"}},
	)

	for i := 0; i < 10; i++ {
		principal, err := resolver.Resolve(context.Background(), "shared")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if principal.Kind != domain.PrincipalKindCustomer {
			t.Fatalf("collision resolved to %v, want customer", principal.Kind)
		}
	}
}

func TestResolveMissingEverywhere(t *testing.T) {
	resolver := newTestResolver(nil, nil)

	_, err := resolver.Resolve(context.Background(), "ghost")
	if !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}
