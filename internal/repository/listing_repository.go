package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ListingFilter narrows listing browse queries.
type ListingFilter struct {
	Category   string
	ProviderID string
	ActiveOnly bool
}

// ListingRepository defines persistence access for service listings.
type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	Update(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	List(ctx context.Context, filter ListingFilter) ([]*domain.Listing, error)
}

type listingRepository struct {
	pool *pgxpool.Pool
}

// NewListingRepository returns a Postgres-backed implementation.
func NewListingRepository(pool *pgxpool.Pool) ListingRepository {
	return &listingRepository{pool: pool}
}

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	const query = `
        INSERT INTO listings (provider_id, title, description, category, price_cents, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		listing.ProviderID,
		listing.Title,
		listing.Description,
		listing.Category,
		listing.PriceCents,
		listing.Active,
	).Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
}

func (r *listingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	const query = `
        UPDATE listings SET title=$1, description=$2, category=$3, price_cents=$4, active=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		listing.Title,
		listing.Description,
		listing.Category,
		listing.PriceCents,
		listing.Active,
		listing.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *listingRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	const query = `
        SELECT id, provider_id, title, description, category, price_cents, active, created_at, updated_at
        FROM listings WHERE id=$1`

	var listing domain.Listing
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&listing.ID,
		&listing.ProviderID,
		&listing.Title,
		&listing.Description,
		&listing.Category,
		&listing.PriceCents,
		&listing.Active,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) List(ctx context.Context, filter ListingFilter) ([]*domain.Listing, error) {
	query := `
        SELECT id, provider_id, title, description, category, price_cents, active, created_at, updated_at
        FROM listings WHERE 1=1`
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += ` AND category=$` + argn(len(args))
	}
	if filter.ProviderID != "" {
		args = append(args, filter.ProviderID)
		query += ` AND provider_id=$` + argn(len(args))
	}
	if filter.ActiveOnly {
		query += ` AND active=TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*domain.Listing
	for rows.Next() {
		var listing domain.Listing
		if err := rows.Scan(
			&listing.ID,
			&listing.ProviderID,
			&listing.Title,
			&listing.Description,
			&listing.Category,
			&listing.PriceCents,
			&listing.Active,
			&listing.CreatedAt,
			&listing.UpdatedAt,
		); err != nil {
			return nil, err
		}
		listings = append(listings, &listing)
	}
	return listings, rows.Err()
}

func argn(n int) string {
	return strconv.Itoa(n)
}
