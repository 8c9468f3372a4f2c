package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry is a single clock-in/clock-out record. ClockOutAt is nil while
// the session is open. Corrections mutate the times in place and move the
// status to EDITED; the entry itself is never deleted by an edit.
type TimeEntry struct {
	ID          uuid.UUID
	OwnerUserID uuid.UUID
	ClockInAt   time.Time
	ClockOutAt  *time.Time
	Status      EntryStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOpen reports whether the entry represents a running session.
func (e *TimeEntry) IsOpen() bool {
	return e.Status == EntryStatusOpen
}

// ValidRange reports whether clockOut is strictly after clockIn.
// A nil clockOut (still open) is always a valid range.
func ValidRange(clockIn time.Time, clockOut *time.Time) bool {
	if clockOut == nil {
		return true
	}
	return clockOut.After(clockIn)
}

// EntryFilter narrows entry listings. Nil fields match everything.
// From is inclusive and To exclusive, both against clock-in time.
type EntryFilter struct {
	OwnerID *uuid.UUID
	Status  *EntryStatus
	From    *time.Time
	To      *time.Time
}

// Snapshot returns the audited subset of the entry's state. Timestamps are
// rendered in RFC 3339 so snapshots stay readable in the audit trail.
func (e *TimeEntry) Snapshot() map[string]any {
	snap := map[string]any{
		"clock_in_at": e.ClockInAt.UTC().Format(time.RFC3339Nano),
		"status":      e.Status.String(),
	}
	if e.ClockOutAt != nil {
		snap["clock_out_at"] = e.ClockOutAt.UTC().Format(time.RFC3339Nano)
	} else {
		snap["clock_out_at"] = nil
	}
	return snap
}
