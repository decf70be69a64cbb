package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CategoryType is the ledger direction a category groups.
type CategoryType string

const (
	CategoryExpense    CategoryType = "EXPENSE"
	CategoryIncome     CategoryType = "INCOME"
	CategoryInvestment CategoryType = "INVESTMENT"
)

// Category groups transactions. Names are unique per user; the uniqueness
// constraint lives in the schema and FindOrCreate leans on it.
type Category struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	UserID    uuid.UUID    `db:"user_id" json:"-"`
	Name      string       `db:"name" json:"name"`
	Type      CategoryType `db:"type" json:"type"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time    `db:"updated_at" json:"updatedAt"`
}

// DefaultCategories is seeded for every user on first authenticated request,
// so the UI always has something to classify against.
var DefaultCategories = []struct {
	Name string
	Type CategoryType
}{
	{"Moradia", CategoryExpense},
	{"Alimentacao", CategoryExpense},
	{"Transporte", CategoryExpense},
	{"Saude", CategoryExpense},
	{"Educacao", CategoryExpense},
	{"Lazer", CategoryExpense},
	{"Compras", CategoryExpense},
	{"Contas", CategoryExpense},
	{"Assinaturas", CategoryExpense},
	{"Salario", CategoryIncome},
	{"Freelancer", CategoryIncome},
	{"Vendas", CategoryIncome},
	{"Investimentos", CategoryIncome},
	{"Renda Fixa", CategoryInvestment},
	{"Acoes", CategoryInvestment},
	{"Cripto", CategoryInvestment},
}

type CategoryRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, userID, id uuid.UUID, name string, ctype CategoryType) (*Category, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	FindByName(ctx context.Context, userID uuid.UUID, name string) (*Category, error)
	// FindOrCreate is idempotent per (user, name): on a concurrent create
	// losing the unique-constraint race it refetches the winner.
	FindOrCreate(ctx context.Context, userID uuid.UUID, name string, ctype CategoryType) (*Category, error)
	EnsureDefaults(ctx context.Context, userID uuid.UUID) error
}
