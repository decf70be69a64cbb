package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recurrence is the billing cadence of a subscription.
type Recurrence string

const (
	RecurrenceMonthly    Recurrence = "MONTHLY"
	RecurrenceQuarterly  Recurrence = "QUARTERLY"
	RecurrenceSemiannual Recurrence = "SEMIANNUAL"
	RecurrenceAnnual     Recurrence = "ANNUAL"
)

// ParseRecurrence normalizes case-insensitive input against the enumeration.
func ParseRecurrence(s string) (Recurrence, bool) {
	switch Recurrence(strings.ToUpper(strings.TrimSpace(s))) {
	case RecurrenceMonthly:
		return RecurrenceMonthly, true
	case RecurrenceQuarterly:
		return RecurrenceQuarterly, true
	case RecurrenceSemiannual:
		return RecurrenceSemiannual, true
	case RecurrenceAnnual:
		return RecurrenceAnnual, true
	}
	return "", false
}

// Subscription is a recurring paid service plus the credential used to
// manage it. Like VaultAccount, the password is stored as an envelope.
type Subscription struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	UserID            uuid.UUID       `db:"user_id" json:"-"`
	Name              string          `db:"name" json:"name"`
	Email             *string         `db:"email" json:"email"`
	PasswordEncrypted string          `db:"password_encrypted" json:"-"`
	PhotoURL          *string         `db:"photo_url" json:"photoUrl"`
	Amount            decimal.Decimal `db:"amount" json:"amount"`
	Recurrence        Recurrence      `db:"recurrence" json:"recurrence"`
	PaymentDay        int             `db:"payment_day" json:"paymentDay"`
	NextPaymentDate   *time.Time      `db:"next_payment_date" json:"nextPaymentDate"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updatedAt"`

	HasPassword bool `db:"-" json:"hasPassword"`
}

type SubscriptionRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]Subscription, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*Subscription, error)
	Create(ctx context.Context, s *Subscription) error
	Update(ctx context.Context, userID, id uuid.UUID, s *Subscription) (*Subscription, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
