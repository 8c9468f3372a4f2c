package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidRange(t *testing.T) {
	t.Parallel()

	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	after := in.Add(time.Minute)
	before := in.Add(-time.Minute)

	assert.True(t, ValidRange(in, nil), "open entry is always valid")
	assert.True(t, ValidRange(in, &after))
	assert.False(t, ValidRange(in, &in), "equal times are invalid")
	assert.False(t, ValidRange(in, &before))
}

func TestTimeEntry_Snapshot(t *testing.T) {
	t.Parallel()

	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)

	open := TimeEntry{ClockInAt: in, Status: EntryStatusOpen}
	snap := open.Snapshot()
	assert.Equal(t, "2026-03-02T09:00:00Z", snap["clock_in_at"])
	assert.Equal(t, "OPEN", snap["status"])
	require.Contains(t, snap, "clock_out_at")
	assert.Nil(t, snap["clock_out_at"])

	closed := TimeEntry{ClockInAt: in, ClockOutAt: &out, Status: EntryStatusClosed}
	snap = closed.Snapshot()
	assert.Equal(t, "2026-03-02T17:00:00Z", snap["clock_out_at"])
	assert.Equal(t, "CLOSED", snap["status"])
}

func TestTimeEntry_IsOpen(t *testing.T) {
	t.Parallel()

	assert.True(t, (&TimeEntry{Status: EntryStatusOpen}).IsOpen())
	assert.False(t, (&TimeEntry{Status: EntryStatusClosed}).IsOpen())
	assert.False(t, (&TimeEntry{Status: EntryStatusEdited}).IsOpen())
}
