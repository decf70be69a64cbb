package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TypeExpense TransactionType = "EXPENSE"
	TypeIncome  TransactionType = "INCOME"
)

// ParseTransactionType normalizes case-insensitive input against the fixed
// enumeration.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeExpense:
		return TypeExpense, true
	case TypeIncome:
		return TypeIncome, true
	}
	return "", false
}

// Transaction is a single ledger entry, always scoped to a user.
type Transaction struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	UserID     uuid.UUID       `db:"user_id" json:"-"`
	Type       TransactionType `db:"type" json:"type"`
	Title      string          `db:"title" json:"title"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Date       time.Time       `db:"date" json:"date"`
	CategoryID *uuid.UUID      `db:"category_id" json:"categoryId"`
	IsFixed    bool            `db:"is_fixed" json:"isFixed"`
	Notes      *string         `db:"notes" json:"notes"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`

	// Category is populated on list reads for display; nil elsewhere.
	Category *Category `db:"-" json:"category,omitempty"`
}

// TransactionFilter narrows list queries. Zero values mean "no filter".
type TransactionFilter struct {
	Month int
	Year  int
	Type  TransactionType
}

// DuplicateKey is the five-field tuple (plus owner) that decides whether an
// import row matches an already-stored transaction.
type DuplicateKey struct {
	UserID     uuid.UUID
	Type       TransactionType
	Title      string
	Amount     decimal.Decimal
	Date       time.Time
	CategoryID *uuid.UUID
}

type TransactionRepository interface {
	List(ctx context.Context, userID uuid.UUID, f TransactionFilter) ([]Transaction, error)
	ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Transaction, error)
	Create(ctx context.Context, t *Transaction) error
	Update(ctx context.Context, userID, id uuid.UUID, t *Transaction) (*Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// FindDuplicate returns ErrNotFound when no stored transaction matches
	// the key; amount equality is numeric, not textual.
	FindDuplicate(ctx context.Context, key DuplicateKey) (*Transaction, error)
}

// MonthlySummary aggregates one month of transactions for the dashboard.
type MonthlySummary struct {
	TotalIncome        decimal.Decimal            `json:"totalIncome"`
	TotalExpense       decimal.Decimal            `json:"totalExpense"`
	Balance            decimal.Decimal            `json:"balance"`
	FixedExpenses      decimal.Decimal            `json:"fixedExpenses"`
	VariableExpenses   decimal.Decimal            `json:"variableExpenses"`
	ExpensesByCategory map[string]decimal.Decimal `json:"expensesByCategory"`
}

// RowError records one failed import line. Line numbers are 1-based file
// positions, so the first data row reports as line 2.
type RowError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// ImportOutcome is the summary returned verbatim for every accepted upload.
type ImportOutcome struct {
	Success  bool          `json:"success"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   int           `json:"errors"`
	Preview  []Transaction `json:"preview"`
	Details  ImportDetails `json:"details"`
}

type ImportDetails struct {
	Transactions []Transaction `json:"transactions"`
	Errors       []RowError    `json:"errors"`
}
