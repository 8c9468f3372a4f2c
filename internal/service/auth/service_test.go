package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/timeclock-backend/internal/auth"
	"github.com/heartmarshall/timeclock-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type userRepoMock struct {
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByPINLookupFunc func(ctx context.Context, lookup string) (*domain.User, error)
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *userRepoMock) GetByPINLookup(ctx context.Context, lookup string) (*domain.User, error) {
	return m.GetByPINLookupFunc(ctx, lookup)
}

type tokenManagerMock struct {
	GenerateAccessTokenFunc func(userID uuid.UUID, role string) (string, error)
	ValidateAccessTokenFunc func(token string) (uuid.UUID, string, error)
}

func (m *tokenManagerMock) GenerateAccessToken(userID uuid.UUID, role string) (string, error) {
	return m.GenerateAccessTokenFunc(userID, role)
}

func (m *tokenManagerMock) ValidateAccessToken(token string) (uuid.UUID, string, error) {
	return m.ValidateAccessTokenFunc(token)
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func newTestService(users userRepo, tokens tokenManager) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, users, tokens)
}

func userWithPIN(pin string, role domain.Role) *domain.User {
	hash, err := auth.HashPIN(pin)
	if err != nil {
		panic(err)
	}
	return &domain.User{
		ID:        uuid.New(),
		Name:      "Test User",
		PINHash:   hash,
		PINLookup: auth.PINLookupKey(pin),
		Role:      role,
		Status:    domain.UserStatusActive,
	}
}

// ---------------------------------------------------------------------------
// LoginWithPIN tests
// ---------------------------------------------------------------------------

func TestService_LoginWithPIN_Success(t *testing.T) {
	t.Parallel()

	u := userWithPIN("4242", domain.RoleWorker)

	users := &userRepoMock{
		GetByPINLookupFunc: func(ctx context.Context, lookup string) (*domain.User, error) {
			assert.Equal(t, auth.PINLookupKey("4242"), lookup)
			return u, nil
		},
	}
	tokens := &tokenManagerMock{
		GenerateAccessTokenFunc: func(userID uuid.UUID, role string) (string, error) {
			assert.Equal(t, u.ID, userID)
			assert.Equal(t, "WORKER", role)
			return "signed-token", nil
		},
	}

	svc := newTestService(users, tokens)

	result, err := svc.LoginWithPIN(context.Background(), "4242")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", result.AccessToken)
	assert.Equal(t, u.ID, result.User.ID)
}

func TestService_LoginWithPIN_UnknownPIN(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{
		GetByPINLookupFunc: func(ctx context.Context, lookup string) (*domain.User, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := newTestService(users, &tokenManagerMock{})

	_, err := svc.LoginWithPIN(context.Background(), "9999")

	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_LoginWithPIN_MalformedPIN(t *testing.T) {
	t.Parallel()

	// The repo must not even be consulted for garbage input.
	svc := newTestService(&userRepoMock{}, &tokenManagerMock{})

	for _, pin := range []string{"", "12", "abcd", "12345678901234567890"} {
		_, err := svc.LoginWithPIN(context.Background(), pin)
		require.ErrorIs(t, err, domain.ErrUnauthorized, "pin %q", pin)
	}
}

func TestService_LoginWithPIN_HashMismatch(t *testing.T) {
	t.Parallel()

	// Lookup digest matches but the bcrypt hash belongs to a different PIN.
	// Should never happen with consistent data; must still deny.
	u := userWithPIN("1111", domain.RoleWorker)
	u.PINLookup = auth.PINLookupKey("4242")

	users := &userRepoMock{
		GetByPINLookupFunc: func(ctx context.Context, lookup string) (*domain.User, error) {
			return u, nil
		},
	}

	svc := newTestService(users, &tokenManagerMock{})

	_, err := svc.LoginWithPIN(context.Background(), "4242")

	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_LoginWithPIN_Suspended(t *testing.T) {
	t.Parallel()

	u := userWithPIN("4242", domain.RoleWorker)
	u.Status = domain.UserStatusSuspended

	users := &userRepoMock{
		GetByPINLookupFunc: func(ctx context.Context, lookup string) (*domain.User, error) {
			return u, nil
		},
	}

	svc := newTestService(users, &tokenManagerMock{})

	_, err := svc.LoginWithPIN(context.Background(), "4242")

	require.ErrorIs(t, err, domain.ErrUserSuspended)
}

// ---------------------------------------------------------------------------
// ValidateToken tests
// ---------------------------------------------------------------------------

func TestService_ValidateToken_UsesLiveRole(t *testing.T) {
	t.Parallel()

	u := userWithPIN("4242", domain.RoleTimekeeper)

	users := &userRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return u, nil
		},
	}
	tokens := &tokenManagerMock{
		ValidateAccessTokenFunc: func(token string) (uuid.UUID, string, error) {
			// Token still claims the old role; the record wins.
			return u.ID, "WORKER", nil
		},
	}

	svc := newTestService(users, tokens)

	id, role, err := svc.ValidateToken(context.Background(), "some-token")

	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	assert.Equal(t, domain.RoleTimekeeper, role)
}

func TestService_ValidateToken_InvalidToken(t *testing.T) {
	t.Parallel()

	tokens := &tokenManagerMock{
		ValidateAccessTokenFunc: func(token string) (uuid.UUID, string, error) {
			return uuid.Nil, "", assert.AnError
		},
	}

	svc := newTestService(&userRepoMock{}, tokens)

	_, _, err := svc.ValidateToken(context.Background(), "garbage")

	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_ValidateToken_DeletedUser(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return nil, domain.ErrNotFound
		},
	}
	tokens := &tokenManagerMock{
		ValidateAccessTokenFunc: func(token string) (uuid.UUID, string, error) {
			return uuid.New(), "WORKER", nil
		},
	}

	svc := newTestService(users, tokens)

	_, _, err := svc.ValidateToken(context.Background(), "stale-token")

	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_ValidateToken_SuspendedUser(t *testing.T) {
	t.Parallel()

	u := userWithPIN("4242", domain.RoleWorker)
	u.Status = domain.UserStatusSuspended

	users := &userRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return u, nil
		},
	}
	tokens := &tokenManagerMock{
		ValidateAccessTokenFunc: func(token string) (uuid.UUID, string, error) {
			return u.ID, "WORKER", nil
		},
	}

	svc := newTestService(users, tokens)

	_, _, err := svc.ValidateToken(context.Background(), "token")

	require.ErrorIs(t, err, domain.ErrUserSuspended)
}
