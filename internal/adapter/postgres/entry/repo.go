// Package entry implements the time-entry record store using PostgreSQL.
//
// The one-OPEN-entry-per-user invariant is enforced twice: services take the
// owner's user row lock around their check-then-create sequence, and the
// uq_time_entries_open_owner partial unique index backstops it at the
// database level.
package entry

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/timeclock-backend/internal/adapter/postgres"
	"github.com/heartmarshall/timeclock-backend/internal/domain"
)

// Repo provides time-entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new time-entry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const entryColumns = `id, owner_user_id, clock_in_at, clock_out_at, status, created_at, updated_at`

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a time entry by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TimeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+entryColumns+` FROM time_entries WHERE id = $1`, id)
	e, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "time_entry", id)
	}
	return e, nil
}

// GetByIDForUpdate returns a time entry with its row locked for the duration
// of the surrounding transaction. Edits and concurrent clock-outs on the same
// entry serialize on this lock, so an audit snapshot always captures the
// state actually overwritten. Must be called inside RunInTx.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.TimeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+entryColumns+` FROM time_entries WHERE id = $1 FOR UPDATE`, id)
	e, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "time_entry", id)
	}
	return e, nil
}

// GetOpenByOwner returns the owner's OPEN entry, or ErrNotFound if none.
func (r *Repo) GetOpenByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.TimeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE owner_user_id = $1 AND status = 'OPEN'`,
		ownerID,
	)
	e, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "time_entry", ownerID)
	}
	return e, nil
}

// GetOpenByOwnerForUpdate returns the owner's OPEN entry with its row locked
// for the duration of the surrounding transaction, or ErrNotFound if none.
// Clock-outs take this lock so a concurrent edit cannot slip in between the
// read and the close. Must be called inside RunInTx.
func (r *Repo) GetOpenByOwnerForUpdate(ctx context.Context, ownerID uuid.UUID) (*domain.TimeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE owner_user_id = $1 AND status = 'OPEN' FOR UPDATE`,
		ownerID,
	)
	e, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "time_entry", ownerID)
	}
	return e, nil
}

// HasOpenByOwner reports whether the owner currently has an OPEN entry.
func (r *Repo) HasOpenByOwner(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM time_entries WHERE owner_user_id = $1 AND status = 'OPEN')`,
		ownerID,
	).Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "time_entry", ownerID)
	}
	return exists, nil
}

// ListByOwner returns the owner's entries, most recent clock-in first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.TimeEntry, error) {
	query := builder.
		Select(entryColumns).
		From("time_entries").
		Where(sq.Eq{"owner_user_id": ownerID}).
		OrderBy("clock_in_at DESC")

	return r.list(ctx, query, ownerID)
}

// ListAll returns entries matching the filter, most recent clock-in first.
func (r *Repo) ListAll(ctx context.Context, filter domain.EntryFilter) ([]domain.TimeEntry, error) {
	query := builder.
		Select(entryColumns).
		From("time_entries").
		OrderBy("clock_in_at DESC")

	if filter.OwnerID != nil {
		query = query.Where(sq.Eq{"owner_user_id": *filter.OwnerID})
	}
	if filter.Status != nil {
		query = query.Where(sq.Eq{"status": filter.Status.String()})
	}
	if filter.From != nil {
		query = query.Where(sq.GtOrEq{"clock_in_at": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(sq.Lt{"clock_in_at": *filter.To})
	}

	return r.list(ctx, query, uuid.Nil)
}

func (r *Repo) list(ctx context.Context, query sq.SelectBuilder, id uuid.UUID) ([]domain.TimeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "time_entry", id)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "time_entry", id)
	}
	defer rows.Close()

	var entries []domain.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, postgres.MapError(err, "time_entry", id)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "time_entry", id)
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new time entry and returns the persisted record.
func (r *Repo) Create(ctx context.Context, e *domain.TimeEntry) (*domain.TimeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		INSERT INTO time_entries (id, owner_user_id, clock_in_at, clock_out_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+entryColumns,
		e.ID, e.OwnerUserID, e.ClockInAt, e.ClockOutAt, e.Status.String(),
	)
	created, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "time_entry", e.ID)
	}
	return created, nil
}

// Update rewrites the mutable fields of an entry (times and status) in place.
// ID and owner never change.
func (r *Repo) Update(ctx context.Context, e *domain.TimeEntry) (*domain.TimeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		UPDATE time_entries
		SET clock_in_at = $2, clock_out_at = $3, status = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+entryColumns,
		e.ID, e.ClockInAt, e.ClockOutAt, e.Status.String(),
	)
	updated, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "time_entry", e.ID)
	}
	return updated, nil
}

// DeleteByOwner removes all entries owned by the given user and returns the
// number removed. Only account deletion uses this; edits never delete.
func (r *Repo) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `DELETE FROM time_entries WHERE owner_user_id = $1`, ownerID)
	if err != nil {
		return 0, postgres.MapError(err, "time_entry", ownerID)
	}
	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanEntry(row pgx.Row) (*domain.TimeEntry, error) {
	var e domain.TimeEntry
	var status string
	err := row.Scan(&e.ID, &e.OwnerUserID, &e.ClockInAt, &e.ClockOutAt, &status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Status = domain.EntryStatus(status)
	return &e, nil
}
