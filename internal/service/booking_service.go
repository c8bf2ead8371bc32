package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// BookingService handles the customer/provider booking lifecycle.
type BookingService struct {
	bookings   repository.BookingRepository
	listings   repository.ListingRepository
	reviews    repository.ReviewRepository
	dispatcher events.Dispatcher
}

// NewBookingService builds the service.
func NewBookingService(bookings repository.BookingRepository, listings repository.ListingRepository, reviews repository.ReviewRepository, dispatcher events.Dispatcher) *BookingService {
	return &BookingService{bookings: bookings, listings: listings, reviews: reviews, dispatcher: dispatcher}
}

// CreateBooking books a listing for the customer.
func (s *BookingService) CreateBooking(ctx context.Context, customerID, listingID string, scheduledAt time.Time, notes string) (*domain.Booking, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("listing", nil)
		}
		return nil, err
	}
	if !listing.Active {
		return nil, apperrors.NewConflict("listing not bookable", nil)
	}
	if scheduledAt.Before(time.Now()) {
		return nil, apperrors.NewValidationError("scheduled_at must be in the future", nil)
	}

	booking := &domain.Booking{
		Reference:   newBookingReference(),
		ListingID:   listing.ID,
		CustomerID:  customerID,
		ProviderID:  listing.ProviderID,
		Status:      domain.BookingStatusPending,
		ScheduledAt: scheduledAt,
		Notes:       notes,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventBookingCreated,
		events.Actor{Kind: domain.PrincipalKindCustomer, SubjectID: customerID},
		events.BookingCreatedPayload{
			BookingID:  booking.ID,
			Reference:  booking.Reference,
			ListingID:  booking.ListingID,
			ProviderID: booking.ProviderID,
			Scheduled:  booking.ScheduledAt,
		})

	return booking, nil
}

// ConfirmBooking moves a pending booking to confirmed. Provider-owned only.
func (s *BookingService) ConfirmBooking(ctx context.Context, providerID, bookingID string) (*domain.Booking, error) {
	return s.transition(ctx, providerID, bookingID, domain.BookingStatusConfirmed)
}

// DeclineBooking moves a pending booking to declined. Provider-owned only.
func (s *BookingService) DeclineBooking(ctx context.Context, providerID, bookingID string) (*domain.Booking, error) {
	return s.transition(ctx, providerID, bookingID, domain.BookingStatusDeclined)
}

// CompleteBooking marks a confirmed booking completed. Provider-owned only.
func (s *BookingService) CompleteBooking(ctx context.Context, providerID, bookingID string) (*domain.Booking, error) {
	return s.transition(ctx, providerID, bookingID, domain.BookingStatusCompleted)
}

// BookingsFor lists the caller's own bookings, by whichever side they are on.
func (s *BookingService) BookingsFor(ctx context.Context, principal domain.Principal) ([]*domain.Booking, error) {
	switch principal.Kind {
	case domain.PrincipalKindCustomer:
		return s.bookings.ListByCustomer(ctx, principal.Customer.ID)
	case domain.PrincipalKindProvider:
		return s.bookings.ListByProvider(ctx, principal.Provider.ID)
	default:
		return nil, errors.New("unknown principal kind")
	}
}

// SubmitReview records customer feedback on a completed booking.
func (s *BookingService) SubmitReview(ctx context.Context, customerID, listingID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be 1-5", nil)
	}

	bookings, err := s.bookings.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	var completed *domain.Booking
	for _, b := range bookings {
		if b.ListingID == listingID && b.Status == domain.BookingStatusCompleted {
			completed = b
			break
		}
	}
	if completed == nil {
		return nil, apperrors.NewForbidden("no completed booking for this listing")
	}

	exists, err := s.reviews.ExistsForBooking(ctx, completed.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("booking already reviewed", nil)
	}

	review := &domain.Review{
		ListingID:  listingID,
		BookingID:  completed.ID,
		CustomerID: customerID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ReviewsForListing lists reviews on a listing.
func (s *BookingService) ReviewsForListing(ctx context.Context, listingID string) ([]*domain.Review, error) {
	return s.reviews.ListByListing(ctx, listingID)
}

var bookingTransitions = map[domain.BookingStatus]domain.BookingStatus{
	domain.BookingStatusConfirmed: domain.BookingStatusPending,
	domain.BookingStatusDeclined:  domain.BookingStatusPending,
	domain.BookingStatusCompleted: domain.BookingStatusConfirmed,
}

func (s *BookingService) transition(ctx context.Context, providerID, bookingID string, target domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("booking", nil)
		}
		return nil, err
	}
	if booking.ProviderID != providerID {
		return nil, apperrors.NewForbidden("not the booking's provider")
	}
	if required := bookingTransitions[target]; booking.Status != required {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": string(booking.Status),
			"to":   string(target),
		})
	}

	oldStatus := booking.Status
	if err := s.bookings.UpdateStatus(ctx, booking.ID, target); err != nil {
		return nil, err
	}
	booking.Status = target

	s.publish(ctx, events.EventBookingStatusChanged,
		events.Actor{Kind: domain.PrincipalKindProvider, SubjectID: providerID},
		events.BookingStatusChangedPayload{BookingID: booking.ID, OldStatus: oldStatus, NewStatus: target})

	return booking, nil
}

func (s *BookingService) publish(ctx context.Context, eventType events.EventType, actor events.Actor, payload interface{}) {
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

func newBookingReference() string {
	return "BK-" + strings.ToUpper(uuid.NewString()[:8])
}
