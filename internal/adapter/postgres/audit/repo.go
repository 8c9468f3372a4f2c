// Package audit implements the audit trail store using PostgreSQL.
// It provides append-only operations: notes are inserted and read, never
// updated or deleted. There is deliberately no Update or Delete method.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/timeclock-backend/internal/adapter/postgres"
	"github.com/heartmarshall/timeclock-backend/internal/domain"
)

// Repo provides audit note persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const noteColumns = `id, target_type, target_id, actor_user_id, action, before_snapshot, after_snapshot, note, created_at`

// Append inserts a new audit note and returns the persisted record.
func (r *Repo) Append(ctx context.Context, note domain.AuditNote) (domain.AuditNote, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	before, err := json.Marshal(note.BeforeSnapshot)
	if err != nil {
		return domain.AuditNote{}, fmt.Errorf("audit_note marshal before snapshot: %w", err)
	}
	after, err := json.Marshal(note.AfterSnapshot)
	if err != nil {
		return domain.AuditNote{}, fmt.Errorf("audit_note marshal after snapshot: %w", err)
	}

	row := q.QueryRow(ctx, `
		INSERT INTO audit_notes (id, target_type, target_id, actor_user_id, action, before_snapshot, after_snapshot, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+noteColumns,
		note.ID, note.TargetType.String(), note.TargetID, note.ActorUserID,
		note.Action.String(), before, after, note.Note,
	)

	appended, err := scanNote(row)
	if err != nil {
		return domain.AuditNote{}, postgres.MapError(err, "audit_note", note.ID)
	}
	return *appended, nil
}

// ListByTarget returns the change history for one entity in chronological
// order (oldest first).
func (r *Repo) ListByTarget(ctx context.Context, targetType domain.TargetType, targetID uuid.UUID) ([]domain.AuditNote, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT `+noteColumns+` FROM audit_notes
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at ASC`,
		targetType.String(), targetID,
	)
	if err != nil {
		return nil, postgres.MapError(err, "audit_note", targetID)
	}
	defer rows.Close()

	var notes []domain.AuditNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, postgres.MapError(err, "audit_note", targetID)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "audit_note", targetID)
	}
	return notes, nil
}

// ListByActor returns notes written by one actor, most recent first.
func (r *Repo) ListByActor(ctx context.Context, actorID uuid.UUID) ([]domain.AuditNote, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT `+noteColumns+` FROM audit_notes
		WHERE actor_user_id = $1
		ORDER BY created_at DESC`,
		actorID,
	)
	if err != nil {
		return nil, postgres.MapError(err, "audit_note", actorID)
	}
	defer rows.Close()

	var notes []domain.AuditNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, postgres.MapError(err, "audit_note", actorID)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "audit_note", actorID)
	}
	return notes, nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanNote(row pgx.Row) (*domain.AuditNote, error) {
	var n domain.AuditNote
	var targetType, action string
	var before, after []byte
	err := row.Scan(&n.ID, &targetType, &n.TargetID, &n.ActorUserID, &action, &before, &after, &n.Note, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.TargetType = domain.TargetType(targetType)
	n.Action = domain.AuditAction(action)

	if len(before) > 0 {
		if err := json.Unmarshal(before, &n.BeforeSnapshot); err != nil {
			return nil, fmt.Errorf("audit_note %s unmarshal before snapshot: %w", n.ID, err)
		}
	}
	if len(after) > 0 {
		if err := json.Unmarshal(after, &n.AfterSnapshot); err != nil {
			return nil, fmt.Errorf("audit_note %s unmarshal after snapshot: %w", n.ID, err)
		}
	}
	return &n, nil
}
