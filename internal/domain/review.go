package domain

import "time"

// Review is customer feedback left on a listing after a completed booking.
type Review struct {
	ID         string
	ListingID  string
	BookingID  string
	CustomerID string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}
