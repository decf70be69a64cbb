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

type InvestmentRepository struct {
	db *sqlx.DB
}

func NewInvestmentRepository(db *sqlx.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) List(ctx context.Context, userID uuid.UUID) ([]domain.Investment, error) {
	investments := []domain.Investment{}
	query := `SELECT * FROM investments WHERE user_id = $1 ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &investments, query, userID); err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	return investments, nil
}

func (r *InvestmentRepository) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Investment, error) {
	var inv domain.Investment
	query := `SELECT * FROM investments WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, &inv, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get investment: %w", err)
	}
	return &inv, nil
}

func (r *InvestmentRepository) Create(ctx context.Context, inv *domain.Investment) error {
	query := `
		INSERT INTO investments (id, user_id, name, type, principal, monthly_contribution, annual_rate_bps, start_date, created_at, updated_at)
		VALUES (:id, :user_id, :name, :type, :principal, :monthly_contribution, :annual_rate_bps, :start_date, :created_at, :updated_at)
	`
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, inv); err != nil {
		return fmt.Errorf("create investment: %w", err)
	}
	return nil
}

func (r *InvestmentRepository) Update(ctx context.Context, userID, id uuid.UUID, inv *domain.Investment) (*domain.Investment, error) {
	var updated domain.Investment
	query := `
		UPDATE investments
		SET name = $1, type = $2, principal = $3, monthly_contribution = $4, annual_rate_bps = $5, start_date = $6, updated_at = now()
		WHERE id = $7 AND user_id = $8
		RETURNING *
	`

	err := r.db.GetContext(ctx, &updated, query,
		inv.Name, inv.Type, inv.Principal, inv.MonthlyContribution, inv.AnnualRateBps, inv.StartDate, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update investment: %w", err)
	}
	return &updated, nil
}

func (r *InvestmentRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
