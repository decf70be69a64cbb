package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"finvault/internal/core/domain"
)

const pgUniqueViolation = "23505"

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	categories := []domain.Category{}
	query := `SELECT * FROM categories WHERE user_id = $1 ORDER BY name ASC`

	if err := r.db.SelectContext(ctx, &categories, query, userID); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Create persists a category and surfaces the (user_id, name) uniqueness
// constraint as ErrDuplicateCategory.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, type, created_at, updated_at)
		VALUES (:id, :user_id, :name, :type, :created_at, :updated_at)
	`
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateCategory
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, userID, id uuid.UUID, name string, ctype domain.CategoryType) (*domain.Category, error) {
	var c domain.Category
	query := `
		UPDATE categories SET name = $1, type = $2, updated_at = now()
		WHERE id = $3 AND user_id = $4
		RETURNING *
	`

	err := r.db.GetContext(ctx, &c, query, name, ctype, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindByName does an exact-name lookup scoped to the user.
func (r *CategoryRepository) FindByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error) {
	var c domain.Category
	query := `SELECT * FROM categories WHERE user_id = $1 AND name = $2`

	err := r.db.GetContext(ctx, &c, query, userID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return &c, nil
}

// FindOrCreate resolves the find-or-create race through the uniqueness
// constraint: losing a concurrent create means the winner's row exists, so
// refetch it instead of failing the caller.
func (r *CategoryRepository) FindOrCreate(ctx context.Context, userID uuid.UUID, name string, ctype domain.CategoryType) (*domain.Category, error) {
	existing, err := r.FindByName(ctx, userID, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	c := &domain.Category{UserID: userID, Name: name, Type: ctype}
	err = r.Create(ctx, c)
	if errors.Is(err, domain.ErrDuplicateCategory) {
		return r.FindByName(ctx, userID, name)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// EnsureDefaults seeds the stock category set for a user, skipping any
// names that already exist.
func (r *CategoryRepository) EnsureDefaults(ctx context.Context, userID uuid.UUID) error {
	query := `
		INSERT INTO categories (id, user_id, name, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT ON CONSTRAINT categories_user_name_key DO NOTHING
	`

	for _, def := range domain.DefaultCategories {
		if _, err := r.db.ExecContext(ctx, query, uuid.New(), userID, def.Name, def.Type); err != nil {
			return fmt.Errorf("seed default category %q: %w", def.Name, err)
		}
	}
	return nil
}
