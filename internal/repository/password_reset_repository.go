package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ErrResetNotFound is returned when a reset token is unknown or expired.
// Expiry is enforced by the redis key TTL, so a lapsed token simply vanishes.
var ErrResetNotFound = errors.New("repository: password reset not found")

const resetKeyPrefix = "pwreset:"

// PasswordResetRepository stores short-lived reset grants. Backed by redis so
// the TTL and the single-use delete are atomic store concerns rather than
// application bookkeeping.
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *domain.PasswordReset) error
	Consume(ctx context.Context, token string) (*domain.PasswordReset, error)
}

type passwordResetRepository struct {
	client *redis.Client
}

// NewPasswordResetRepository returns a redis-backed implementation.
func NewPasswordResetRepository(client *redis.Client) PasswordResetRepository {
	return &passwordResetRepository{client: client}
}

func (r *passwordResetRepository) Create(ctx context.Context, reset *domain.PasswordReset) error {
	ttl := time.Until(reset.ExpiresAt)
	if ttl <= 0 {
		return errors.New("repository: reset already expired")
	}

	payload, err := json.Marshal(reset)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, resetKeyPrefix+reset.Token, payload, ttl).Err()
}

// Consume fetches and deletes the grant, making each token single-use.
func (r *passwordResetRepository) Consume(ctx context.Context, token string) (*domain.PasswordReset, error) {
	payload, err := r.client.GetDel(ctx, resetKeyPrefix+token).Result()
	if err == redis.Nil {
		return nil, ErrResetNotFound
	}
	if err != nil {
		return nil, err
	}

	var reset domain.PasswordReset
	if err := json.Unmarshal([]byte(payload), &reset); err != nil {
		return nil, err
	}
	return &reset, nil
}
