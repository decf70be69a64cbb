package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"finvault/internal/core/domain"
)

type TransactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// List returns the user's transactions newest first, optionally narrowed by
// month/year and type, with their categories attached for display.
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, f domain.TransactionFilter) ([]domain.Transaction, error) {
	query := `SELECT * FROM transactions WHERE user_id = $1`
	args := []interface{}{userID}

	if f.Type != "" {
		args = append(args, f.Type)
		query += ` AND type = $` + strconv.Itoa(len(args))
	}

	var from, to time.Time
	switch {
	case f.Month != 0 && f.Year != 0:
		from = time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, 0)
	case f.Year != 0:
		from = time.Date(f.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(1, 0, 0)
	}
	if !from.IsZero() {
		args = append(args, from)
		query += ` AND date >= $` + strconv.Itoa(len(args))
		args = append(args, to)
		query += ` AND date < $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY date DESC`

	transactions := []domain.Transaction{}
	if err := r.db.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	if err := r.attachCategories(ctx, userID, transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// ListRange returns all transactions with from <= date < to, categories
// attached. The summary computation runs over this.
func (r *TransactionRepository) ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := `SELECT * FROM transactions WHERE user_id = $1 AND date >= $2 AND date < $3`

	if err := r.db.SelectContext(ctx, &transactions, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("list transactions in range: %w", err)
	}

	if err := r.attachCategories(ctx, userID, transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, type, title, amount, date, category_id, is_fixed, notes, created_at, updated_at)
		VALUES (:id, :user_id, :type, :title, :amount, :date, :category_id, :is_fixed, :notes, :created_at, :updated_at)
	`
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, userID, id uuid.UUID, t *domain.Transaction) (*domain.Transaction, error) {
	var updated domain.Transaction
	query := `
		UPDATE transactions
		SET type = $1, title = $2, amount = $3, date = $4, category_id = $5, is_fixed = $6, notes = $7, updated_at = now()
		WHERE id = $8 AND user_id = $9
		RETURNING *
	`

	err := r.db.GetContext(ctx, &updated, query,
		t.Type, t.Title, t.Amount, t.Date, t.CategoryID, t.IsFixed, t.Notes, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return &updated, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindDuplicate matches the import duplicate key. IS NOT DISTINCT FROM makes
// the NULL category compare as equal, which plain = would not.
func (r *TransactionRepository) FindDuplicate(ctx context.Context, key domain.DuplicateKey) (*domain.Transaction, error) {
	var t domain.Transaction
	query := `
		SELECT * FROM transactions
		WHERE user_id = $1 AND type = $2 AND title = $3 AND amount = $4 AND date = $5
		  AND category_id IS NOT DISTINCT FROM $6
		ORDER BY created_at ASC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &t, query, key.UserID, key.Type, key.Title, key.Amount, key.Date, key.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find duplicate transaction: %w", err)
	}
	return &t, nil
}

// attachCategories resolves category references in one query instead of a
// join per row.
func (r *TransactionRepository) attachCategories(ctx context.Context, userID uuid.UUID, transactions []domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	categories := []domain.Category{}
	if err := r.db.SelectContext(ctx, &categories, `SELECT * FROM categories WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("load categories for transactions: %w", err)
	}

	byID := make(map[uuid.UUID]*domain.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}

	for i := range transactions {
		if transactions[i].CategoryID != nil {
			transactions[i].Category = byID[*transactions[i].CategoryID]
		}
	}
	return nil
}
