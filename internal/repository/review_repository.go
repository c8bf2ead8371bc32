package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ReviewRepository defines persistence access for listing reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByListing(ctx context.Context, listingID string) ([]*domain.Review, error)
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a Postgres-backed implementation.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	const query = `
        INSERT INTO reviews (listing_id, booking_id, customer_id, rating, comment)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		review.ListingID,
		review.BookingID,
		review.CustomerID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
}

func (r *reviewRepository) ListByListing(ctx context.Context, listingID string) ([]*domain.Review, error) {
	const query = `
        SELECT id, listing_id, booking_id, customer_id, rating, comment, created_at
        FROM reviews WHERE listing_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.ListingID,
			&review.BookingID,
			&review.CustomerID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, &review)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE booking_id=$1)`, bookingID).Scan(&exists)
	return exists, err
}
