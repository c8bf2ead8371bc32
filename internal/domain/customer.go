package domain

import "time"

// CustomerStatus represents lifecycle states for a customer account.
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "ACTIVE"
	CustomerStatusSuspended CustomerStatus = "SUSPENDED"
)

// Customer is the domain model for marketplace customers who book services.
// Role is stored on the record: regular customers carry RoleUser, platform
// operators carry RoleAdmin (admins are customer-shaped, not a third store).
type Customer struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	Status       CustomerStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
