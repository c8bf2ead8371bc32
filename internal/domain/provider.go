package domain

import "time"

// Provider models a service provider offering listings on the marketplace.
// Providers carry no stored role; RoleProvider is derived from the store
// that resolved the subject id.
type Provider struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Bio          string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
