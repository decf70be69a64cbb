package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"finvault/internal/core/domain"
)

// UserStore is the slice of the user repository provisioning needs.
type UserStore interface {
	GetByProviderID(ctx context.Context, providerID string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	UpdateProfile(ctx context.Context, id uuid.UUID, email string, name *string) (*domain.User, error)
}

// CategorySeeder seeds the default category set for a user.
type CategorySeeder interface {
	EnsureDefaults(ctx context.Context, userID uuid.UUID) error
}

// AuthService provisions the local shadow user for verified identity
// claims: create on first sight, refresh profile drift afterwards, and make
// sure the default categories exist either way.
type AuthService struct {
	users      UserStore
	categories CategorySeeder
	logger     *slog.Logger
}

func NewAuthService(users UserStore, categories CategorySeeder, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		categories: categories,
		logger:     logger,
	}
}

// EnsureUser maps verified claims onto a local user row.
func (s *AuthService) EnsureUser(ctx context.Context, claims *IdentityClaims) (*domain.User, error) {
	email := claims.Email
	if email == "" {
		// The provider is not obliged to share an email; synthesize a
		// stable placeholder so the column stays non-null.
		email = fmt.Sprintf("user_%s@provider.local", claims.Subject)
	}
	var name *string
	if claims.Name != "" {
		name = &claims.Name
	}

	user, err := s.users.GetByProviderID(ctx, claims.Subject)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		user = &domain.User{ProviderID: claims.Subject, Email: email, Name: name}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("provision user: %w", err)
		}
		s.logger.Info("provisioned new user", slog.String("user_id", user.ID.String()))

	case err != nil:
		return nil, err

	case user.Email != email || !equalName(user.Name, name):
		user, err = s.users.UpdateProfile(ctx, user.ID, email, name)
		if err != nil {
			return nil, fmt.Errorf("refresh user profile: %w", err)
		}
	}

	if err := s.categories.EnsureDefaults(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("seed default categories: %w", err)
	}

	return user, nil
}

func equalName(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
