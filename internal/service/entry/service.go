// Package entry applies corrections to recorded time entries. Every
// successful correction appends exactly one audit note whose before
// snapshot is taken under the entry's row lock, inside the same
// transaction as the mutation: either both land or neither does.
package entry

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

// entryRepo defines the time-entry repository interface needed by the editor.
type entryRepo interface {
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.TimeEntry, error)
	GetOpenByOwnerForUpdate(ctx context.Context, ownerID uuid.UUID) (*domain.TimeEntry, error)
	Update(ctx context.Context, e *domain.TimeEntry) (*domain.TimeEntry, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.TimeEntry, error)
	ListAll(ctx context.Context, filter domain.EntryFilter) ([]domain.TimeEntry, error)
}

// auditRepo defines the audit sink interface needed by the editor.
type auditRepo interface {
	Append(ctx context.Context, note domain.AuditNote) (domain.AuditNote, error)
}

// txManager defines the transaction manager interface needed by the editor.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements entry corrections and listings.
type Service struct {
	log     *slog.Logger
	entries entryRepo
	audit   auditRepo
	tx      txManager
	now     func() time.Time
}

// NewService creates a new entry editor instance.
func NewService(logger *slog.Logger, entries entryRepo, audit auditRepo, tx txManager) *Service {
	return &Service{
		log:     logger.With("service", "entry"),
		entries: entries,
		audit:   audit,
		tx:      tx,
		now:     time.Now,
	}
}

// EditInput carries a correction. Nil time fields are left unchanged.
// Note must always be supplied; an empty string is a valid (if unhelpful)
// note, but the field itself is not optional at the transport layer.
type EditInput struct {
	ClockInAt  *time.Time
	ClockOutAt *time.Time
	Note       string
}

// EditEntry corrects the times on an existing entry.
//
// Setting a clock-out on an OPEN entry closes it (status CLOSED): that is
// the legitimate way for a privileged user to end someone's session at a
// chosen time. Every other successful edit moves the entry to EDITED.
// Correcting only the clock-in of an OPEN entry leaves it OPEN, so the
// session can still be closed by a normal clock-out.
//
// Resubmitting identical values still appends a new audit note: the trail
// records that a review action happened, not merely that a value changed.
func (s *Service) EditEntry(ctx context.Context, entryID uuid.UUID, input EditInput) (*domain.TimeEntry, error) {
	actorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	role, ok := ctxutil.UserRoleFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := authz.Decide(role, authz.ActionEditEntry, authz.Target{}).Err(authz.ActionEditEntry); err != nil {
		return nil, err
	}
	if input.ClockInAt == nil && input.ClockOutAt == nil {
		return nil, domain.NewValidationError("times", "at least one of clock_in_at or clock_out_at is required")
	}

	var updated *domain.TimeEntry
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.entries.GetByIDForUpdate(ctx, entryID)
		if err != nil {
			return fmt.Errorf("entry.EditEntry get entry: %w", err)
		}

		newIn := current.ClockInAt
		if input.ClockInAt != nil {
			newIn = input.ClockInAt.UTC()
		}
		newOut := current.ClockOutAt
		if input.ClockOutAt != nil {
			out := input.ClockOutAt.UTC()
			newOut = &out
		}
		if !domain.ValidRange(newIn, newOut) {
			return domain.ErrInvalidTimeRange
		}

		before := current.Snapshot()

		current.ClockInAt = newIn
		current.ClockOutAt = newOut
		switch {
		case current.Status == domain.EntryStatusOpen && newOut != nil:
			current.Status = domain.EntryStatusClosed
		case current.Status == domain.EntryStatusOpen:
			// Clock-in correction on a running session; stays OPEN.
		default:
			current.Status = domain.EntryStatusEdited
		}

		updated, err = s.entries.Update(ctx, current)
		if err != nil {
			return fmt.Errorf("entry.EditEntry update: %w", err)
		}

		if _, err := s.audit.Append(ctx, domain.AuditNote{
			ID:             uuid.New(),
			TargetType:     domain.TargetTypeTimeEntry,
			TargetID:       updated.ID,
			ActorUserID:    actorID,
			Action:         domain.AuditActionEdit,
			BeforeSnapshot: before,
			AfterSnapshot:  updated.Snapshot(),
			Note:           input.Note,
		}); err != nil {
			return fmt.Errorf("entry.EditEntry append audit note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "entry edited",
		slog.String("actor_id", actorID.String()),
		slog.String("entry_id", updated.ID.String()),
		slog.String("status", updated.Status.String()))

	return updated, nil
}

// ForceClockOut closes the target user's OPEN session at the current time on
// their behalf. Unlike a normal clock-out this is a correction performed by
// someone else, so it is audited.
func (s *Service) ForceClockOut(ctx context.Context, targetUserID uuid.UUID, note string) (*domain.TimeEntry, error) {
	actorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	role, ok := ctxutil.UserRoleFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := authz.Decide(role, authz.ActionForceClockOut, authz.Target{}).Err(authz.ActionForceClockOut); err != nil {
		return nil, err
	}

	var closed *domain.TimeEntry
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		open, err := s.entries.GetOpenByOwnerForUpdate(ctx, targetUserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNoOpenSession
			}
			return fmt.Errorf("entry.ForceClockOut get open entry: %w", err)
		}

		before := open.Snapshot()

		out := s.now().UTC()
		if !domain.ValidRange(open.ClockInAt, &out) {
			return domain.ErrInvalidTimeRange
		}
		open.ClockOutAt = &out
		open.Status = domain.EntryStatusClosed

		closed, err = s.entries.Update(ctx, open)
		if err != nil {
			return fmt.Errorf("entry.ForceClockOut close entry: %w", err)
		}

		if _, err := s.audit.Append(ctx, domain.AuditNote{
			ID:             uuid.New(),
			TargetType:     domain.TargetTypeTimeEntry,
			TargetID:       closed.ID,
			ActorUserID:    actorID,
			Action:         domain.AuditActionEdit,
			BeforeSnapshot: before,
			AfterSnapshot:  closed.Snapshot(),
			Note:           note,
		}); err != nil {
			return fmt.Errorf("entry.ForceClockOut append audit note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "session force-closed",
		slog.String("actor_id", actorID.String()),
		slog.String("target_user_id", targetUserID.String()),
		slog.String("entry_id", closed.ID.String()))

	return closed, nil
}

// ListByOwner returns one user's entries. Workers may only list their own;
// timekeepers and admins may list anyone's.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.TimeEntry, error) {
	actorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	role, ok := ctxutil.UserRoleFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	target := authz.Target{Self: actorID == ownerID}
	if err := authz.Decide(role, authz.ActionViewEntries, target).Err(authz.ActionViewEntries); err != nil {
		return nil, err
	}

	entries, err := s.entries.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("entry.ListByOwner: %w", err)
	}
	return entries, nil
}

// ListAll returns entries across all users, filtered. Privileged roles only.
func (s *Service) ListAll(ctx context.Context, filter domain.EntryFilter) ([]domain.TimeEntry, error) {
	_, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	role, ok := ctxutil.UserRoleFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := authz.Decide(role, authz.ActionViewEntries, authz.Target{}).Err(authz.ActionViewEntries); err != nil {
		return nil, err
	}

	entries, err := s.entries.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("entry.ListAll: %w", err)
	}
	return entries, nil
}
