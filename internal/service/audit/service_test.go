package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/timeclock-backend/internal/domain"
	"github.com/heartmarshall/timeclock-backend/pkg/ctxutil"
)

type auditRepoMock struct {
	ListByTargetFunc func(ctx context.Context, targetType domain.TargetType, targetID uuid.UUID) ([]domain.AuditNote, error)
	ListByActorFunc  func(ctx context.Context, actorID uuid.UUID) ([]domain.AuditNote, error)
}

func (m *auditRepoMock) ListByTarget(ctx context.Context, targetType domain.TargetType, targetID uuid.UUID) ([]domain.AuditNote, error) {
	return m.ListByTargetFunc(ctx, targetType, targetID)
}

func (m *auditRepoMock) ListByActor(ctx context.Context, actorID uuid.UUID) ([]domain.AuditNote, error) {
	return m.ListByActorFunc(ctx, actorID)
}

func newTestService(notes auditRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, notes)
}

func roleCtx(role domain.Role) context.Context {
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())
	return ctxutil.WithUserRole(ctx, role)
}

func TestService_HistoryForTarget_TimekeeperAllowed(t *testing.T) {
	t.Parallel()

	targetID := uuid.New()
	notes := &auditRepoMock{
		ListByTargetFunc: func(ctx context.Context, targetType domain.TargetType, id uuid.UUID) ([]domain.AuditNote, error) {
			assert.Equal(t, domain.TargetTypeTimeEntry, targetType)
			assert.Equal(t, targetID, id)
			return []domain.AuditNote{{ID: uuid.New(), TargetID: targetID}}, nil
		},
	}

	svc := newTestService(notes)

	got, err := svc.HistoryForTarget(roleCtx(domain.RoleTimekeeper), domain.TargetTypeTimeEntry, targetID)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_HistoryForTarget_WorkerForbidden(t *testing.T) {
	t.Parallel()

	svc := newTestService(&auditRepoMock{})

	_, err := svc.HistoryForTarget(roleCtx(domain.RoleWorker), domain.TargetTypeTimeEntry, uuid.New())

	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_HistoryForTarget_UnknownTargetType(t *testing.T) {
	t.Parallel()

	svc := newTestService(&auditRepoMock{})

	_, err := svc.HistoryForTarget(roleCtx(domain.RoleAdmin), "WIDGET", uuid.New())

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_HistoryForTarget_NoIdentity(t *testing.T) {
	t.Parallel()

	svc := newTestService(&auditRepoMock{})

	_, err := svc.HistoryForTarget(context.Background(), domain.TargetTypeUser, uuid.New())

	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_HistoryByActor_AdminAllowed(t *testing.T) {
	t.Parallel()

	actorID := uuid.New()
	notes := &auditRepoMock{
		ListByActorFunc: func(ctx context.Context, id uuid.UUID) ([]domain.AuditNote, error) {
			assert.Equal(t, actorID, id)
			return nil, nil
		},
	}

	svc := newTestService(notes)

	_, err := svc.HistoryByActor(roleCtx(domain.RoleAdmin), actorID)

	require.NoError(t, err)
}
