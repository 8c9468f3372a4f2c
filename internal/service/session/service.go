// Package session owns the open/closed state machine for a user's current
// work session. Clock-in and clock-out are the only two transitions; both
// run inside a transaction holding the user's row lock, so two concurrent
// clock actions for the same user can never both observe "no open session".
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/timeclock-backend/internal/authz"
	"github.com/heartmarshall/timeclock-backend/internal/domain"
	"github.com/heartmarshall/timeclock-backend/pkg/ctxutil"
)

// userRepo defines the user repository interface needed by the session service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// entryRepo defines the time-entry repository interface needed by the session service.
type entryRepo interface {
	GetOpenByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.TimeEntry, error)
	GetOpenByOwnerForUpdate(ctx context.Context, ownerID uuid.UUID) (*domain.TimeEntry, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.TimeEntry, error)
	Create(ctx context.Context, e *domain.TimeEntry) (*domain.TimeEntry, error)
	Update(ctx context.Context, e *domain.TimeEntry) (*domain.TimeEntry, error)
}

// txManager defines the transaction manager interface needed by the session service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements clock-in and clock-out.
type Service struct {
	log     *slog.Logger
	users   userRepo
	entries entryRepo
	tx      txManager
	now     func() time.Time
}

// NewService creates a new session service instance.
func NewService(logger *slog.Logger, users userRepo, entries entryRepo, tx txManager) *Service {
	return &Service{
		log:     logger.With("service", "session"),
		users:   users,
		entries: entries,
		tx:      tx,
		now:     time.Now,
	}
}

// ClockIn opens a new session for the authenticated actor.
// Fails with ErrUserSuspended for suspended accounts and with
// ErrAlreadyOpenSession if an OPEN entry already exists.
func (s *Service) ClockIn(ctx context.Context) (*domain.TimeEntry, error) {
	actorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	role, ok := ctxutil.UserRoleFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := authz.Decide(role, authz.ActionClockIn, authz.Self).Err(authz.ActionClockIn); err != nil {
		return nil, err
	}

	var created *domain.TimeEntry
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// The row lock spans the check-then-create sequence: a concurrent
		// clock-in for the same user waits here until we commit.
		user, err := s.users.GetByIDForUpdate(ctx, actorID)
		if err != nil {
			return fmt.Errorf("session.ClockIn get user: %w", err)
		}
		if user.IsSuspended() {
			return domain.ErrUserSuspended
		}

		_, err = s.entries.GetOpenByOwner(ctx, actorID)
		switch {
		case err == nil:
			return domain.ErrAlreadyOpenSession
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("session.ClockIn check open entry: %w", err)
		}

		created, err = s.entries.Create(ctx, &domain.TimeEntry{
			ID:          uuid.New(),
			OwnerUserID: actorID,
			ClockInAt:   s.now().UTC(),
			Status:      domain.EntryStatusOpen,
		})
		if err != nil {
			return fmt.Errorf("session.ClockIn create entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "clocked in",
		slog.String("user_id", actorID.String()),
		slog.String("entry_id", created.ID.String()))

	return created, nil
}

// ClockOut closes the actor's OPEN session. Fails with ErrNoOpenSession if
// none exists. A normal clock-out is not a correction and writes no audit
// note. Suspended accounts are locked out of clock-out like everything else;
// a session left open at suspension time is closed by a privileged
// force-clock-out.
func (s *Service) ClockOut(ctx context.Context) (*domain.TimeEntry, error) {
	actorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	role, ok := ctxutil.UserRoleFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := authz.Decide(role, authz.ActionClockOut, authz.Self).Err(authz.ActionClockOut); err != nil {
		return nil, err
	}

	var closed *domain.TimeEntry
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByIDForUpdate(ctx, actorID)
		if err != nil {
			return fmt.Errorf("session.ClockOut get user: %w", err)
		}
		if user.IsSuspended() {
			return domain.ErrUserSuspended
		}

		open, err := s.entries.GetOpenByOwnerForUpdate(ctx, actorID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNoOpenSession
			}
			return fmt.Errorf("session.ClockOut get open entry: %w", err)
		}

		out := s.now().UTC()
		// A correction may have moved the clock-in past now; closing such an
		// entry would record a negative session.
		if !domain.ValidRange(open.ClockInAt, &out) {
			return domain.ErrInvalidTimeRange
		}
		open.ClockOutAt = &out
		open.Status = domain.EntryStatusClosed

		closed, err = s.entries.Update(ctx, open)
		if err != nil {
			return fmt.Errorf("session.ClockOut close entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "clocked out",
		slog.String("user_id", actorID.String()),
		slog.String("entry_id", closed.ID.String()))

	return closed, nil
}

// Status describes the actor's current clock state and entry history.
type Status struct {
	User          *domain.User
	Open          *domain.TimeEntry
	LastCompleted *domain.TimeEntry
	History       []domain.TimeEntry
}

// CurrentStatus returns the actor's open session (if any), their most
// recently completed session, and full entry history, newest first.
func (s *Service) CurrentStatus(ctx context.Context) (*Status, error) {
	actorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	role, ok := ctxutil.UserRoleFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := authz.Decide(role, authz.ActionViewEntries, authz.Self).Err(authz.ActionViewEntries); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("session.CurrentStatus get user: %w", err)
	}

	history, err := s.entries.ListByOwner(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("session.CurrentStatus list entries: %w", err)
	}

	status := &Status{User: user, History: history}
	for i := range history {
		e := &history[i]
		if e.IsOpen() && status.Open == nil {
			status.Open = e
			continue
		}
		if e.ClockOutAt != nil && status.LastCompleted == nil {
			status.LastCompleted = e
		}
	}
	return status, nil
}
