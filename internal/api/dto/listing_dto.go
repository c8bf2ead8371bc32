package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ListingCreateRequest payload for new listings.
type ListingCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceCents  int64  `json:"price_cents"`
}

// ListingUpdateRequest payload for listing changes; nil fields are left as-is.
type ListingUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// ListingResponse wire shape of a listing.
type ListingResponse struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"provider_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"price_cents"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewListingResponse converts the domain model.
func NewListingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		ProviderID:  l.ProviderID,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		PriceCents:  l.PriceCents,
		Active:      l.Active,
		CreatedAt:   l.CreatedAt,
	}
}

// NewListingResponses converts a slice.
func NewListingResponses(listings []*domain.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, NewListingResponse(l))
	}
	return out
}
