// Package auth implements PIN login and access token validation.
//
// Login is by PIN alone, kiosk style. A deterministic digest of the PIN
// locates the candidate account, and the stored bcrypt hash authenticates
// it. Every failure mode (unknown PIN, digest hit with hash mismatch)
// collapses to ErrUnauthorized so responses do not leak which PINs exist.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/timeclock-backend/internal/auth"
	"github.com/heartmarshall/timeclock-backend/internal/domain"
)

// userRepo defines the user repository interface needed by the auth service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByPINLookup(ctx context.Context, lookup string) (*domain.User, error)
}

// tokenManager defines the token operations needed by the auth service.
type tokenManager interface {
	GenerateAccessToken(userID uuid.UUID, role string) (string, error)
	ValidateAccessToken(token string) (uuid.UUID, string, error)
}

// Service implements login and token validation.
type Service struct {
	log    *slog.Logger
	users  userRepo
	tokens tokenManager
}

// NewService creates a new auth service instance.
func NewService(logger *slog.Logger, users userRepo, tokens tokenManager) *Service {
	return &Service{
		log:    logger.With("service", "auth"),
		users:  users,
		tokens: tokens,
	}
}

// LoginResult is a successful authentication: the account plus its access token.
type LoginResult struct {
	User        *domain.User
	AccessToken string
}

// LoginWithPIN authenticates by raw PIN and issues an access token.
// Suspended accounts fail with ErrUserSuspended even when the PIN is right.
func (s *Service) LoginWithPIN(ctx context.Context, pin string) (*LoginResult, error) {
	if err := auth.ValidatePIN(pin); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByPINLookup(ctx, auth.PINLookupKey(pin))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.LoginWithPIN get user: %w", err)
	}

	if !auth.VerifyPIN(user.PINHash, pin) {
		return nil, domain.ErrUnauthorized
	}
	if user.IsSuspended() {
		return nil, domain.ErrUserSuspended
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("auth.LoginWithPIN generate token: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID.String()),
		slog.String("role", user.Role.String()))

	return &LoginResult{User: user, AccessToken: token}, nil
}

// ValidateToken checks an access token and returns the authenticated user's
// ID and role. The role comes from the live user record, not the token
// claims, so a role change or suspension takes effect on the next request
// rather than at token expiry.
func (s *Service) ValidateToken(ctx context.Context, token string) (uuid.UUID, domain.Role, error) {
	userID, _, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, "", domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, "", domain.ErrUnauthorized
		}
		return uuid.Nil, "", fmt.Errorf("auth.ValidateToken get user: %w", err)
	}
	if user.IsSuspended() {
		return uuid.Nil, "", domain.ErrUserSuspended
	}

	return user.ID, user.Role, nil
}
