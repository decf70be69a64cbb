package services

import (
	"time"

	"github.com/shopspring/decimal"

	"finvault/internal/core/domain"
)

// ProjectionPoint is one step of a forward-looking investment projection.
type ProjectionPoint struct {
	Month       int             `json:"month"`
	Date        string          `json:"date"`
	Value       decimal.Decimal `json:"value"`
	TotalMonths int             `json:"totalMonths"`
}

// MonthsSinceStart counts whole 30-day periods between start and now,
// clamped at zero for future start dates.
func MonthsSinceStart(start, now time.Time) int {
	days := int(now.Sub(start).Hours() / 24)
	months := days / 30
	if months < 0 {
		return 0
	}
	return months
}

// EstimatedValue compounds the principal monthly at annual_rate_bps/12 and
// adds the contribution after each period, rounded to cents.
//
// FV = PV * (1 + r)^n + PMT * [((1 + r)^n - 1) / r], iterated.
func EstimatedValue(inv domain.Investment, months int) decimal.Decimal {
	monthlyRate := decimal.NewFromInt(int64(inv.AnnualRateBps)).
		Div(decimal.NewFromInt(10000)).
		Div(decimal.NewFromInt(12))
	growth := decimal.NewFromInt(1).Add(monthlyRate)

	balance := inv.Principal
	for i := 0; i < months; i++ {
		balance = balance.Mul(growth)
		balance = balance.Add(inv.MonthlyContribution)
	}

	return balance.Round(2)
}

// Projection returns the next twelve months of estimated values, month 0
// being today's position.
func Projection(inv domain.Investment, now time.Time) []ProjectionPoint {
	elapsed := MonthsSinceStart(inv.StartDate, now)

	points := make([]ProjectionPoint, 0, 13)
	for i := 0; i <= 12; i++ {
		totalMonths := elapsed + i
		points = append(points, ProjectionPoint{
			Month:       i,
			Date:        now.AddDate(0, i, 0).Format("2006-01"),
			Value:       EstimatedValue(inv, totalMonths),
			TotalMonths: totalMonths,
		})
	}
	return points
}
