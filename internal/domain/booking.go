package domain

import "time"

// BookingStatus tracks a booking through its provider-driven lifecycle.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusDeclined  BookingStatus = "DECLINED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// Booking records a customer's request for a listed service.
type Booking struct {
	ID          string
	Reference   string
	ListingID   string
	CustomerID  string
	ProviderID  string
	Status      BookingStatus
	ScheduledAt time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
