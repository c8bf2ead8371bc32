package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// ErrPrincipalNotFound is returned when a subject id resolves in neither
// store. The token itself was valid, so this signals an authentication-state
// problem (for example a deleted account), distinct from a bad credential.
var ErrPrincipalNotFound = errors.New("auth: principal not found")

// Resolver loads the principal behind a verified subject id. The customer
// and provider stores are independent id spaces fed from the same token
// namespace, so a collision across them is possible; resolution probes the
// stores in a fixed order and the customer store always wins. This
// customer-first priority is the deliberate, documented tie-break — change
// it and previously provider-resolved tokens may silently flip identity.
type Resolver struct {
	customers repository.CustomerRepository
	providers repository.ProviderRepository
}

// NewResolver builds a resolver over the two principal stores.
func NewResolver(customers repository.CustomerRepository, providers repository.ProviderRepository) *Resolver {
	return &Resolver{customers: customers, providers: providers}
}

// Resolve probes the customer store, then the provider store. The lookups
// are sequential, never parallel, so the winner is deterministic under
// concurrent writes. No caching: account state can change between requests,
// so every request re-resolves.
func (r *Resolver) Resolve(ctx context.Context, subjectID string) (domain.Principal, error) {
	customer, err := r.customers.GetByID(ctx, subjectID)
	if err == nil {
		return domain.CustomerPrincipal(customer), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Principal{}, err
	}

	provider, err := r.providers.GetByID(ctx, subjectID)
	if err == nil {
		return domain.ProviderPrincipal(provider), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Principal{}, err
	}

	return domain.Principal{}, ErrPrincipalNotFound
}
