package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

// UserContextKey carries the provisioned *User through the request context
// once the auth middleware has verified the bearer token.
const UserContextKey contextKey = "finvault_user"

// User is the local shadow of an identity-provider account. The provider
// remains the source of truth for authentication; we only keep the profile
// fields needed to scope and display data.
type User struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ProviderID string    `db:"provider_id" json:"-"`
	Email      string    `db:"email" json:"email"`
	Name       *string   `db:"name" json:"name"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// UserFromContext extracts the authenticated user set by the middleware.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(UserContextKey).(*User)
	return u, ok
}

type UserRepository interface {
	GetByProviderID(ctx context.Context, providerID string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateProfile(ctx context.Context, id uuid.UUID, email string, name *string) (*User, error)
}
