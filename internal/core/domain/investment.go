package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentType classifies an investment position.
type InvestmentType string

const (
	InvestmentCDI    InvestmentType = "CDI"
	InvestmentFixed  InvestmentType = "FIXED"
	InvestmentStocks InvestmentType = "STOCKS"
	InvestmentCrypto InvestmentType = "CRYPTO"
	InvestmentOther  InvestmentType = "OTHER"
)

// Investment is a position with a flat annual rate expressed in basis
// points. Projections are computed on read, never stored.
type Investment struct {
	ID                  uuid.UUID       `db:"id" json:"id"`
	UserID              uuid.UUID       `db:"user_id" json:"-"`
	Name                string          `db:"name" json:"name"`
	Type                InvestmentType  `db:"type" json:"type"`
	Principal           decimal.Decimal `db:"principal" json:"principal"`
	MonthlyContribution decimal.Decimal `db:"monthly_contribution" json:"monthlyContribution"`
	AnnualRateBps       int             `db:"annual_rate_bps" json:"annualRateBps"`
	StartDate           time.Time       `db:"start_date" json:"startDate"`
	CreatedAt           time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updatedAt"`
}

type InvestmentRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]Investment, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*Investment, error)
	Create(ctx context.Context, inv *Investment) error
	Update(ctx context.Context, userID, id uuid.UUID, inv *Investment) (*Investment, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
