package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// ListingService manages provider service listings.
type ListingService struct {
	listings repository.ListingRepository
}

// NewListingService builds the service.
func NewListingService(listings repository.ListingRepository) *ListingService {
	return &ListingService{listings: listings}
}

// CreateListing creates a listing owned by the given provider.
func (s *ListingService) CreateListing(ctx context.Context, providerID, title, description, category string, priceCents int64) (*domain.Listing, error) {
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if priceCents < 0 {
		return nil, apperrors.NewValidationError("price must not be negative", nil)
	}

	listing := &domain.Listing{
		ProviderID:  providerID,
		Title:       title,
		Description: description,
		Category:    category,
		PriceCents:  priceCents,
		Active:      true,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// UpdateListing applies changes to a listing after verifying ownership.
func (s *ListingService) UpdateListing(ctx context.Context, providerID, listingID string, update func(*domain.Listing)) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("listing", nil)
		}
		return nil, err
	}
	if listing.ProviderID != providerID {
		return nil, apperrors.NewForbidden("not the listing owner")
	}

	update(listing)
	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// DeleteListing removes a listing. Ownership is not checked here; the route
// is admin-gated.
func (s *ListingService) DeleteListing(ctx context.Context, listingID string) error {
	if err := s.listings.Delete(ctx, listingID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("listing", nil)
		}
		return err
	}
	return nil
}

// GetListing fetches one listing by id.
func (s *ListingService) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("listing", nil)
		}
		return nil, err
	}
	return listing, nil
}

// BrowseListings returns active listings, optionally narrowed by category or
// provider.
func (s *ListingService) BrowseListings(ctx context.Context, category, providerID string) ([]*domain.Listing, error) {
	return s.listings.List(ctx, repository.ListingFilter{
		Category:   category,
		ProviderID: providerID,
		ActiveOnly: true,
	})
}
