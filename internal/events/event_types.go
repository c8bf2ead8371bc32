package events

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCustomerRegistered     EventType = "customer_registered"
	EventProviderRegistered     EventType = "provider_registered"
	EventBookingCreated         EventType = "booking_created"
	EventBookingStatusChanged   EventType = "booking_status_changed"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Kind      domain.PrincipalKind `json:"kind"`
	SubjectID string               `json:"subject_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	BookingID  string    `json:"booking_id"`
	Reference  string    `json:"reference"`
	ListingID  string    `json:"listing_id"`
	ProviderID string    `json:"provider_id"`
	Scheduled  time.Time `json:"scheduled_at"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	BookingID string               `json:"booking_id"`
	OldStatus domain.BookingStatus `json:"old_status"`
	NewStatus domain.BookingStatus `json:"new_status"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
