package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// BookingRepository defines persistence access for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Booking, error)
	ListByProvider(ctx context.Context, providerID string) ([]*domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository returns a Postgres-backed implementation.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	const query = `
        INSERT INTO bookings (reference, listing_id, customer_id, provider_id, status, scheduled_at, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		booking.Reference,
		booking.ListingID,
		booking.CustomerID,
		booking.ProviderID,
		booking.Status,
		booking.ScheduledAt,
		booking.Notes,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE bookings SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const query = `
        SELECT id, reference, listing_id, customer_id, provider_id, status, scheduled_at, notes, created_at, updated_at
        FROM bookings WHERE id=$1`

	var booking domain.Booking
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.Reference,
		&booking.ListingID,
		&booking.CustomerID,
		&booking.ProviderID,
		&booking.Status,
		&booking.ScheduledAt,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	return r.list(ctx, `customer_id`, customerID)
}

func (r *bookingRepository) ListByProvider(ctx context.Context, providerID string) ([]*domain.Booking, error) {
	return r.list(ctx, `provider_id`, providerID)
}

func (r *bookingRepository) list(ctx context.Context, column, value string) ([]*domain.Booking, error) {
	query := `
        SELECT id, reference, listing_id, customer_id, provider_id, status, scheduled_at, notes, created_at, updated_at
        FROM bookings WHERE ` + column + `=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		var booking domain.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.Reference,
			&booking.ListingID,
			&booking.CustomerID,
			&booking.ProviderID,
			&booking.Status,
			&booking.ScheduledAt,
			&booking.Notes,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, &booking)
	}
	return bookings, rows.Err()
}
