package domain

import "time"

// Listing is a service offered by a provider.
type Listing struct {
	ID          string
	ProviderID  string
	Title       string
	Description string
	Category    string
	PriceCents  int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
