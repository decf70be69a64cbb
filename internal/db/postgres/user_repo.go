package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"finvault/internal/core/domain"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByProviderID resolves the local shadow row for an identity-provider
// subject. ErrNotFound means the user has never hit the API before.
func (r *UserRepository) GetByProviderID(ctx context.Context, providerID string) (*domain.User, error) {
	var u domain.User
	query := `SELECT * FROM users WHERE provider_id = $1`

	err := r.db.GetContext(ctx, &u, query, providerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by provider id: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, provider_id, email, name, created_at, updated_at)
		VALUES (:id, :provider_id, :email, :name, :created_at, :updated_at)
	`
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateProfile refreshes email/name drift from the identity provider.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, email string, name *string) (*domain.User, error) {
	var u domain.User
	query := `
		UPDATE users SET email = $1, name = $2, updated_at = now()
		WHERE id = $3
		RETURNING *
	`

	err := r.db.GetContext(ctx, &u, query, email, name, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user profile: %w", err)
	}
	return &u, nil
}
