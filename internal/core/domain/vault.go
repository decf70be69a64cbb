package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VaultAccount stores one credential. The password never leaves the process
// unencrypted except through the explicit /password reveal endpoint; the
// PasswordEncrypted column holds the iv:tag:ciphertext envelope.
type VaultAccount struct {
	ID                uuid.UUID `db:"id" json:"id"`
	UserID            uuid.UUID `db:"user_id" json:"-"`
	Name              string    `db:"name" json:"name"`
	Email             *string   `db:"email" json:"email"`
	PasswordEncrypted string    `db:"password_encrypted" json:"-"`
	PlatformPhotoURL  *string   `db:"platform_photo_url" json:"platformPhotoUrl"`
	Notes             *string   `db:"notes" json:"notes"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`

	// HasPassword replaces the ciphertext in API responses.
	HasPassword bool `db:"-" json:"hasPassword"`
}

type VaultAccountRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]VaultAccount, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*VaultAccount, error)
	Create(ctx context.Context, a *VaultAccount) error
	Update(ctx context.Context, userID, id uuid.UUID, a *VaultAccount) (*VaultAccount, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
