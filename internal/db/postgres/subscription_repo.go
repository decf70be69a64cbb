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

type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) List(ctx context.Context, userID uuid.UUID) ([]domain.Subscription, error) {
	subscriptions := []domain.Subscription{}
	query := `SELECT * FROM subscriptions WHERE user_id = $1 ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &subscriptions, query, userID); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subscriptions, nil
}

func (r *SubscriptionRepository) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Subscription, error) {
	var s domain.Subscription
	query := `SELECT * FROM subscriptions WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, &s, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &s, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, user_id, name, email, password_encrypted, photo_url, amount, recurrence, payment_day, next_payment_date, created_at, updated_at)
		VALUES (:id, :user_id, :name, :email, :password_encrypted, :photo_url, :amount, :recurrence, :payment_day, :next_payment_date, :created_at, :updated_at)
	`
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, userID, id uuid.UUID, s *domain.Subscription) (*domain.Subscription, error) {
	var updated domain.Subscription
	query := `
		UPDATE subscriptions
		SET name = $1, email = $2, password_encrypted = $3, photo_url = $4, amount = $5,
		    recurrence = $6, payment_day = $7, next_payment_date = $8, updated_at = now()
		WHERE id = $9 AND user_id = $10
		RETURNING *
	`

	err := r.db.GetContext(ctx, &updated, query,
		s.Name, s.Email, s.PasswordEncrypted, s.PhotoURL, s.Amount,
		s.Recurrence, s.PaymentDay, s.NextPaymentDate, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}
	return &updated, nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
