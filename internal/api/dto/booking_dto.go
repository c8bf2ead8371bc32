package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// BookingCreateRequest payload for new bookings.
type BookingCreateRequest struct {
	ListingID   string    `json:"listing_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes"`
}

// BookingResponse wire shape of a booking.
type BookingResponse struct {
	ID          string    `json:"id"`
	Reference   string    `json:"reference"`
	ListingID   string    `json:"listing_id"`
	CustomerID  string    `json:"customer_id"`
	ProviderID  string    `json:"provider_id"`
	Status      string    `json:"status"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewBookingResponse converts the domain model.
func NewBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		Reference:   b.Reference,
		ListingID:   b.ListingID,
		CustomerID:  b.CustomerID,
		ProviderID:  b.ProviderID,
		Status:      string(b.Status),
		ScheduledAt: b.ScheduledAt,
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
	}
}

// NewBookingResponses converts a slice.
func NewBookingResponses(bookings []*domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, NewBookingResponse(b))
	}
	return out
}

// ReviewCreateRequest payload for new reviews.
type ReviewCreateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewResponse wire shape of a review.
type ReviewResponse struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listing_id"`
	CustomerID string    `json:"customer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewReviewResponse converts the domain model.
func NewReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		ListingID:  r.ListingID,
		CustomerID: r.CustomerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

// NewReviewResponses converts a slice.
func NewReviewResponses(reviews []*domain.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReviewResponse(r))
	}
	return out
}
