// Package audit exposes read access to the audit trail. Writing notes is
// done by the services that perform the audited mutations; this service
// only answers "what happened to this record" questions.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/timeclock-backend/internal/authz"
	"github.com/heartmarshall/timeclock-backend/internal/domain"
	"github.com/heartmarshall/timeclock-backend/pkg/ctxutil"
)

// auditRepo defines the audit repository interface needed by the audit service.
type auditRepo interface {
	ListByTarget(ctx context.Context, targetType domain.TargetType, targetID uuid.UUID) ([]domain.AuditNote, error)
	ListByActor(ctx context.Context, actorID uuid.UUID) ([]domain.AuditNote, error)
}

// Service implements audit trail queries.
type Service struct {
	log   *slog.Logger
	notes auditRepo
}

// NewService creates a new audit service instance.
func NewService(logger *slog.Logger, notes auditRepo) *Service {
	return &Service{
		log:   logger.With("service", "audit"),
		notes: notes,
	}
}

// HistoryForTarget returns the change history of one record, oldest first.
func (s *Service) HistoryForTarget(ctx context.Context, targetType domain.TargetType, targetID uuid.UUID) ([]domain.AuditNote, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}
	if !targetType.IsValid() {
		return nil, domain.NewValidationError("target_type", "unknown target type")
	}

	notes, err := s.notes.ListByTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("audit.HistoryForTarget: %w", err)
	}
	return notes, nil
}

// HistoryByActor returns the notes one actor has written, most recent first.
func (s *Service) HistoryByActor(ctx context.Context, actorID uuid.UUID) ([]domain.AuditNote, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}

	notes, err := s.notes.ListByActor(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("audit.HistoryByActor: %w", err)
	}
	return notes, nil
}

func (s *Service) authorize(ctx context.Context) error {
	role, ok := ctxutil.UserRoleFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	return authz.Decide(role, authz.ActionViewAudit, authz.Target{}).Err(authz.ActionViewAudit)
}
