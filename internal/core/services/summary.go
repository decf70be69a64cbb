package services

import (
	"github.com/shopspring/decimal"

	"finvault/internal/core/domain"
)

// ComputeMonthlySummary aggregates one month of transactions into the
// dashboard totals. Pure function; the caller picks the month range.
func ComputeMonthlySummary(transactions []domain.Transaction) domain.MonthlySummary {
	summary := domain.MonthlySummary{
		ExpensesByCategory: make(map[string]decimal.Decimal),
	}

	for _, t := range transactions {
		switch t.Type {
		case domain.TypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)

		case domain.TypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount)
			if t.IsFixed {
				summary.FixedExpenses = summary.FixedExpenses.Add(t.Amount)
			} else {
				summary.VariableExpenses = summary.VariableExpenses.Add(t.Amount)
			}
			if t.Category != nil {
				name := t.Category.Name
				summary.ExpensesByCategory[name] = summary.ExpensesByCategory[name].Add(t.Amount)
			}
		}
	}

	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}
