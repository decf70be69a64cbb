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

type VaultAccountRepository struct {
	db *sqlx.DB
}

func NewVaultAccountRepository(db *sqlx.DB) *VaultAccountRepository {
	return &VaultAccountRepository{db: db}
}

func (r *VaultAccountRepository) List(ctx context.Context, userID uuid.UUID) ([]domain.VaultAccount, error) {
	accounts := []domain.VaultAccount{}
	query := `SELECT * FROM vault_accounts WHERE user_id = $1 ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &accounts, query, userID); err != nil {
		return nil, fmt.Errorf("list vault accounts: %w", err)
	}
	return accounts, nil
}

func (r *VaultAccountRepository) Get(ctx context.Context, userID, id uuid.UUID) (*domain.VaultAccount, error) {
	var a domain.VaultAccount
	query := `SELECT * FROM vault_accounts WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, &a, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vault account: %w", err)
	}
	return &a, nil
}

func (r *VaultAccountRepository) Create(ctx context.Context, a *domain.VaultAccount) error {
	query := `
		INSERT INTO vault_accounts (id, user_id, name, email, password_encrypted, platform_photo_url, notes, created_at, updated_at)
		VALUES (:id, :user_id, :name, :email, :password_encrypted, :platform_photo_url, :notes, :created_at, :updated_at)
	`
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("create vault account: %w", err)
	}
	return nil
}

func (r *VaultAccountRepository) Update(ctx context.Context, userID, id uuid.UUID, a *domain.VaultAccount) (*domain.VaultAccount, error) {
	var updated domain.VaultAccount
	query := `
		UPDATE vault_accounts
		SET name = $1, email = $2, password_encrypted = $3, platform_photo_url = $4, notes = $5, updated_at = now()
		WHERE id = $6 AND user_id = $7
		RETURNING *
	`

	err := r.db.GetContext(ctx, &updated, query,
		a.Name, a.Email, a.PasswordEncrypted, a.PlatformPhotoURL, a.Notes, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update vault account: %w", err)
	}
	return &updated, nil
}

func (r *VaultAccountRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vault_accounts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete vault account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
