// Package account manages user records: creation, suspension, reactivation
// and deletion. Lifecycle mutations append an audit note in the same
// transaction as the change; creation does not, since the created record is
// its own evidence.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/timeclock-backend/internal/auth"
	"github.com/heartmarshall/timeclock-backend/internal/authz"
	"github.com/heartmarshall/timeclock-backend/internal/domain"
	"github.com/heartmarshall/timeclock-backend/pkg/ctxutil"
)

// userRepo defines the user repository interface needed by the account service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	CountByRole(ctx context.Context, role domain.Role) (int, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// entryRepo defines the time-entry repository interface needed by the account service.
type entryRepo interface {
	HasOpenByOwner(ctx context.Context, ownerID uuid.UUID) (bool, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}

// auditRepo defines the audit sink interface needed by the account service.
type auditRepo interface {
	Append(ctx context.Context, note domain.AuditNote) (domain.AuditNote, error)
}

// txManager defines the transaction manager interface needed by the account service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements user lifecycle management.
type Service struct {
	log     *slog.Logger
	users   userRepo
	entries entryRepo
	audit   auditRepo
	tx      txManager
}

// NewService creates a new account service instance.
func NewService(logger *slog.Logger, users userRepo, entries entryRepo, audit auditRepo, tx txManager) *Service {
	return &Service{
		log:     logger.With("service", "account"),
		users:   users,
		entries: entries,
		audit:   audit,
		tx:      tx,
	}
}

// CreateInput carries the fields for a new user account.
type CreateInput struct {
	Name string
	PIN  string
	Role domain.Role
}

func (in CreateInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.NewValidationError("name", "name is required")
	}
	if !in.Role.IsValid() {
		return domain.NewValidationError("role", "unknown role")
	}
	if err := auth.ValidatePIN(in.PIN); err != nil {
		return domain.NewValidationError("pin", err.Error())
	}
	return nil
}

// CreateUser registers a new account. Timekeepers may create workers only;
// admins may create any role. A PIN colliding with an existing user's fails
// with ErrAlreadyExists via the unique lookup column.
func (s *Service) CreateUser(ctx context.Context, input CreateInput) (*domain.User, error) {
	role, ok := ctxutil.UserRoleFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := authz.Decide(role, authz.ActionCreateUser, authz.Target{Role: input.Role}).Err(authz.ActionCreateUser); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	pinHash, err := auth.HashPIN(input.PIN)
	if err != nil {
		return nil, fmt.Errorf("account.CreateUser hash pin: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		PINHash:   pinHash,
		PINLookup: auth.PINLookupKey(input.PIN),
		Role:      input.Role,
		Status:    domain.UserStatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("account.CreateUser: %w", err)
	}

	s.log.InfoContext(ctx, "user created",
		slog.String("user_id", created.ID.String()),
		slog.String("role", created.Role.String()))

	return created, nil
}

// SuspendUser moves an ACTIVE account to SUSPENDED. The note explaining the
// suspension is mandatory. Suspension does not touch an open session; the
// user can still clock out of it.
func (s *Service) SuspendUser(ctx context.Context, targetID uuid.UUID, note string) (*domain.User, error) {
	actorID, role, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(note) == "" {
		return nil, domain.NewValidationError("note", "a note explaining the suspension is required")
	}
	if actorID == targetID {
		return nil, domain.NewValidationError("user_id", "cannot suspend your own account")
	}

	var updated *domain.User
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		target, err := s.users.GetByIDForUpdate(ctx, targetID)
		if err != nil {
			return fmt.Errorf("account.SuspendUser get user: %w", err)
		}
		if err := authz.Decide(role, authz.ActionSuspendUser, authz.Target{Role: target.Role}).Err(authz.ActionSuspendUser); err != nil {
			return err
		}
		if target.IsSuspended() {
			return domain.ErrAlreadySuspended
		}

		before := target.Snapshot()

		updated, err = s.users.UpdateStatus(ctx, targetID, domain.UserStatusSuspended)
		if err != nil {
			return fmt.Errorf("account.SuspendUser update status: %w", err)
		}

		return s.appendNote(ctx, actorID, domain.AuditActionSuspend, updated, before, note)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user suspended",
		slog.String("actor_id", actorID.String()),
		slog.String("user_id", targetID.String()))

	return updated, nil
}

// ReactivateUser moves a SUSPENDED account back to ACTIVE. Reactivating an
// account that is not suspended fails with ErrNotSuspended.
func (s *Service) ReactivateUser(ctx context.Context, targetID uuid.UUID, note string) (*domain.User, error) {
	actorID, role, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(note) == "" {
		return nil, domain.NewValidationError("note", "a note explaining the reactivation is required")
	}

	var updated *domain.User
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		target, err := s.users.GetByIDForUpdate(ctx, targetID)
		if err != nil {
			return fmt.Errorf("account.ReactivateUser get user: %w", err)
		}
		if err := authz.Decide(role, authz.ActionReactivate, authz.Target{Role: target.Role}).Err(authz.ActionReactivate); err != nil {
			return err
		}
		if !target.IsSuspended() {
			return domain.ErrNotSuspended
		}

		before := target.Snapshot()

		updated, err = s.users.UpdateStatus(ctx, targetID, domain.UserStatusActive)
		if err != nil {
			return fmt.Errorf("account.ReactivateUser update status: %w", err)
		}

		return s.appendNote(ctx, actorID, domain.AuditActionReactivate, updated, before, note)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user reactivated",
		slog.String("actor_id", actorID.String()),
		slog.String("user_id", targetID.String()))

	return updated, nil
}

// DeleteUser permanently removes an account and its time entries. Admin only.
// Fails with ErrOpenSessionExists while the user has a running session; the
// session must be closed (or force-closed) first. Audit notes about the user
// outlive the account.
func (s *Service) DeleteUser(ctx context.Context, targetID uuid.UUID, note string) error {
	actorID, role, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := authz.Decide(role, authz.ActionDeleteUser, authz.Target{}).Err(authz.ActionDeleteUser); err != nil {
		return err
	}
	if actorID == targetID {
		return domain.NewValidationError("user_id", "cannot delete your own account")
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		target, err := s.users.GetByIDForUpdate(ctx, targetID)
		if err != nil {
			return fmt.Errorf("account.DeleteUser get user: %w", err)
		}

		open, err := s.entries.HasOpenByOwner(ctx, targetID)
		if err != nil {
			return fmt.Errorf("account.DeleteUser check open session: %w", err)
		}
		if open {
			return domain.ErrOpenSessionExists
		}

		if target.Role == domain.RoleAdmin {
			admins, err := s.users.CountByRole(ctx, domain.RoleAdmin)
			if err != nil {
				return fmt.Errorf("account.DeleteUser count admins: %w", err)
			}
			if admins <= 1 {
				return domain.NewValidationError("user_id", "cannot delete the last admin account")
			}
		}

		before := target.Snapshot()

		if _, err := s.entries.DeleteByOwner(ctx, targetID); err != nil {
			return fmt.Errorf("account.DeleteUser delete entries: %w", err)
		}
		if err := s.users.Delete(ctx, targetID); err != nil {
			return fmt.Errorf("account.DeleteUser delete user: %w", err)
		}

		if _, err := s.audit.Append(ctx, domain.AuditNote{
			ID:             uuid.New(),
			TargetType:     domain.TargetTypeUser,
			TargetID:       targetID,
			ActorUserID:    actorID,
			Action:         domain.AuditActionDelete,
			BeforeSnapshot: before,
			AfterSnapshot:  nil,
			Note:           note,
		}); err != nil {
			return fmt.Errorf("account.DeleteUser append audit note: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "user deleted",
		slog.String("actor_id", actorID.String()),
		slog.String("user_id", targetID.String()))

	return nil
}

// GetUser returns a single account. Self-lookup is always allowed; looking
// at other accounts requires a privileged role.
func (s *Service) GetUser(ctx context.Context, targetID uuid.UUID) (*domain.User, error) {
	actorID, role, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if actorID != targetID {
		if err := authz.Decide(role, authz.ActionViewUsers, authz.Target{}).Err(authz.ActionViewUsers); err != nil {
			return nil, err
		}
	}

	u, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("account.GetUser: %w", err)
	}
	return u, nil
}

// ListUsers returns every account. Privileged roles only.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	_, role, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(role, authz.ActionViewUsers, authz.Target{}).Err(authz.ActionViewUsers); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("account.ListUsers: %w", err)
	}
	return users, nil
}

func (s *Service) appendNote(ctx context.Context, actorID uuid.UUID, action domain.AuditAction, after *domain.User, before map[string]any, note string) error {
	if _, err := s.audit.Append(ctx, domain.AuditNote{
		ID:             uuid.New(),
		TargetType:     domain.TargetTypeUser,
		TargetID:       after.ID,
		ActorUserID:    actorID,
		Action:         action,
		BeforeSnapshot: before,
		AfterSnapshot:  after.Snapshot(),
		Note:           note,
	}); err != nil {
		return fmt.Errorf("append audit note: %w", err)
	}
	return nil
}

func actorFromCtx(ctx context.Context) (uuid.UUID, domain.Role, error) {
	actorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return uuid.Nil, "", domain.ErrUnauthorized
	}
	role, ok := ctxutil.UserRoleFromCtx(ctx)
	if !ok {
		return uuid.Nil, "", domain.ErrUnauthorized
	}
	return actorID, role, nil
}
