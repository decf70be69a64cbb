package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finvault/internal/core/domain"
)

type fakeUserStore struct {
	byProvider map[string]*domain.User
	updates    int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byProvider: make(map[string]*domain.User)}
}

func (f *fakeUserStore) GetByProviderID(_ context.Context, providerID string) (*domain.User, error) {
	if u, ok := f.byProvider[providerID]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserStore) Create(_ context.Context, u *domain.User) error {
	u.ID = uuid.New()
	stored := *u
	f.byProvider[u.ProviderID] = &stored
	return nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id uuid.UUID, email string, name *string) (*domain.User, error) {
	for _, u := range f.byProvider {
		if u.ID == id {
			u.Email = email
			u.Name = name
			f.updates++
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeCategorySeeder struct {
	seededFor []uuid.UUID
}

func (f *fakeCategorySeeder) EnsureDefaults(_ context.Context, userID uuid.UUID) error {
	f.seededFor = append(f.seededFor, userID)
	return nil
}

func claimsFor(subject, email, name string) *IdentityClaims {
	return &IdentityClaims{
		Email:            email,
		Name:             name,
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	}
}

func TestAuthService_EnsureUser(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("first sight creates the user and seeds categories", func(t *testing.T) {
		users := newFakeUserStore()
		seeder := &fakeCategorySeeder{}
		svc := NewAuthService(users, seeder, logger)

		user, err := svc.EnsureUser(context.Background(), claimsFor("provider|1", "a@b.dev", "Ana"))
		require.NoError(t, err)

		assert.Equal(t, "provider|1", user.ProviderID)
		assert.Equal(t, "a@b.dev", user.Email)
		require.NotNil(t, user.Name)
		assert.Equal(t, "Ana", *user.Name)
		assert.Equal(t, []uuid.UUID{user.ID}, seeder.seededFor)
	})

	t.Run("returning user is not recreated", func(t *testing.T) {
		users := newFakeUserStore()
		seeder := &fakeCategorySeeder{}
		svc := NewAuthService(users, seeder, logger)

		first, err := svc.EnsureUser(context.Background(), claimsFor("provider|1", "a@b.dev", "Ana"))
		require.NoError(t, err)
		second, err := svc.EnsureUser(context.Background(), claimsFor("provider|1", "a@b.dev", "Ana"))
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 0, users.updates)
		// Defaults are re-ensured on every request; the seeder is
		// idempotent at the store level.
		assert.Len(t, seeder.seededFor, 2)
	})

	t.Run("profile drift triggers an update", func(t *testing.T) {
		users := newFakeUserStore()
		svc := NewAuthService(users, &fakeCategorySeeder{}, logger)

		first, err := svc.EnsureUser(context.Background(), claimsFor("provider|1", "old@b.dev", "Ana"))
		require.NoError(t, err)
		second, err := svc.EnsureUser(context.Background(), claimsFor("provider|1", "new@b.dev", "Ana Maria"))
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "new@b.dev", second.Email)
		require.NotNil(t, second.Name)
		assert.Equal(t, "Ana Maria", *second.Name)
		assert.Equal(t, 1, users.updates)
	})

	t.Run("missing email gets a stable placeholder", func(t *testing.T) {
		users := newFakeUserStore()
		svc := NewAuthService(users, &fakeCategorySeeder{}, logger)

		user, err := svc.EnsureUser(context.Background(), claimsFor("provider|42", "", ""))
		require.NoError(t, err)

		assert.Equal(t, "user_provider|42@provider.local", user.Email)
		assert.Nil(t, user.Name)
	})
}
