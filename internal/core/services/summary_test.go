package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"finvault/internal/core/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeMonthlySummary(t *testing.T) {
	food := &domain.Category{Name: "Food"}
	housing := &domain.Category{Name: "Housing"}

	transactions := []domain.Transaction{
		{Type: domain.TypeIncome, Amount: dec("5000")},
		{Type: domain.TypeIncome, Amount: dec("250.50")},
		{Type: domain.TypeExpense, Amount: dec("1200"), IsFixed: true, Category: housing},
		{Type: domain.TypeExpense, Amount: dec("300.25"), Category: food},
		{Type: domain.TypeExpense, Amount: dec("99.75"), Category: food},
		{Type: domain.TypeExpense, Amount: dec("50")}, // uncategorized
	}

	summary := ComputeMonthlySummary(transactions)

	assert.True(t, summary.TotalIncome.Equal(dec("5250.50")), "income: %s", summary.TotalIncome)
	assert.True(t, summary.TotalExpense.Equal(dec("1650")), "expense: %s", summary.TotalExpense)
	assert.True(t, summary.Balance.Equal(dec("3600.50")), "balance: %s", summary.Balance)
	assert.True(t, summary.FixedExpenses.Equal(dec("1200")))
	assert.True(t, summary.VariableExpenses.Equal(dec("450")))

	assert.Len(t, summary.ExpensesByCategory, 2)
	assert.True(t, summary.ExpensesByCategory["Food"].Equal(dec("400")))
	assert.True(t, summary.ExpensesByCategory["Housing"].Equal(dec("1200")))
}

func TestComputeMonthlySummary_Empty(t *testing.T) {
	summary := ComputeMonthlySummary(nil)

	assert.True(t, summary.TotalIncome.IsZero())
	assert.True(t, summary.TotalExpense.IsZero())
	assert.True(t, summary.Balance.IsZero())
	assert.Empty(t, summary.ExpensesByCategory)
}
