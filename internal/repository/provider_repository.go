package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ProviderRepository defines persistence access for provider accounts.
type ProviderRepository interface {
	Create(ctx context.Context, provider *domain.Provider) error
	Update(ctx context.Context, provider *domain.Provider) error
	GetByID(ctx context.Context, id string) (*domain.Provider, error)
	GetByEmail(ctx context.Context, email string) (*domain.Provider, error)
}

type providerRepository struct {
	pool *pgxpool.Pool
}

// NewProviderRepository returns a Postgres-backed implementation.
func NewProviderRepository(pool *pgxpool.Pool) ProviderRepository {
	return &providerRepository{pool: pool}
}

func (r *providerRepository) Create(ctx context.Context, provider *domain.Provider) error {
	const query = `
        INSERT INTO providers (name, email, phone, bio, password_hash, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		provider.Name,
		provider.Email,
		provider.Phone,
		provider.Bio,
		provider.PasswordHash,
		provider.Active,
	).Scan(&provider.ID, &provider.CreatedAt, &provider.UpdatedAt)
}

func (r *providerRepository) Update(ctx context.Context, provider *domain.Provider) error {
	const query = `
        UPDATE providers SET name=$1, email=$2, phone=$3, bio=$4, password_hash=$5, active=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		provider.Name,
		provider.Email,
		provider.Phone,
		provider.Bio,
		provider.PasswordHash,
		provider.Active,
		provider.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *providerRepository) GetByID(ctx context.Context, id string) (*domain.Provider, error) {
	const query = `
        SELECT id, name, email, phone, bio, password_hash, active, created_at, updated_at
        FROM providers WHERE id=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *providerRepository) GetByEmail(ctx context.Context, email string) (*domain.Provider, error) {
	const query = `
        SELECT id, name, email, phone, bio, password_hash, active, created_at, updated_at
        FROM providers WHERE email=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *providerRepository) scanOne(row pgx.Row) (*domain.Provider, error) {
	var provider domain.Provider
	if err := row.Scan(
		&provider.ID,
		&provider.Name,
		&provider.Email,
		&provider.Phone,
		&provider.Bio,
		&provider.PasswordHash,
		&provider.Active,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &provider, nil
}
