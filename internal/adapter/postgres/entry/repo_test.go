package entry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/timeclock-backend/internal/adapter/postgres/testhelper"
	userrepo "github.com/heartmarshall/timeclock-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/timeclock-backend/internal/domain"
)

func seedOwner(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	created, err := userrepo.New(pool).Create(context.Background(), &domain.User{
		ID:        uuid.New(),
		Name:      "Entry Owner",
		PINHash:   "hash",
		PINLookup: uuid.NewString(),
		Role:      domain.RoleWorker,
		Status:    domain.UserStatusActive,
	})
	require.NoError(t, err)
	return created.ID
}

func openEntry(ownerID uuid.UUID, in time.Time) *domain.TimeEntry {
	return &domain.TimeEntry{
		ID:          uuid.New(),
		OwnerUserID: ownerID,
		ClockInAt:   in,
		Status:      domain.EntryStatusOpen,
	}
}

func TestRepo_CreateAndGetOpenByOwner(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ownerID := seedOwner(t, pool)

	in := time.Now().UTC().Truncate(time.Microsecond)
	created, err := repo.Create(context.Background(), openEntry(ownerID, in))
	require.NoError(t, err)
	assert.True(t, created.ClockInAt.Equal(in))

	got, err := repo.GetOpenByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Nil(t, got.ClockOutAt)
}

func TestRepo_Create_SecondOpenEntryRejected(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ownerID := seedOwner(t, pool)

	_, err := repo.Create(context.Background(), openEntry(ownerID, time.Now().UTC()))
	require.NoError(t, err)

	// The partial unique index blocks a second OPEN entry for the same owner.
	_, err = repo.Create(context.Background(), openEntry(ownerID, time.Now().UTC()))
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRepo_Create_OpenWithClockOutRejected(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ownerID := seedOwner(t, pool)

	out := time.Now().UTC()
	e := openEntry(ownerID, out.Add(-time.Hour))
	e.ClockOutAt = &out

	_, err := repo.Create(context.Background(), e)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestRepo_Update_ClosesEntry(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ownerID := seedOwner(t, pool)

	in := time.Now().UTC().Add(-8 * time.Hour).Truncate(time.Microsecond)
	created, err := repo.Create(context.Background(), openEntry(ownerID, in))
	require.NoError(t, err)

	out := in.Add(8 * time.Hour)
	created.ClockOutAt = &out
	created.Status = domain.EntryStatusClosed

	updated, err := repo.Update(context.Background(), created)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusClosed, updated.Status)
	require.NotNil(t, updated.ClockOutAt)
	assert.True(t, updated.ClockOutAt.Equal(out))

	_, err = repo.GetOpenByOwner(context.Background(), ownerID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_Update_RangeCheckEnforced(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ownerID := seedOwner(t, pool)

	in := time.Now().UTC().Truncate(time.Microsecond)
	created, err := repo.Create(context.Background(), openEntry(ownerID, in))
	require.NoError(t, err)

	bad := in.Add(-time.Minute)
	created.ClockOutAt = &bad
	created.Status = domain.EntryStatusClosed

	_, err = repo.Update(context.Background(), created)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestRepo_HasOpenByOwner(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ownerID := seedOwner(t, pool)

	has, err := repo.HasOpenByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = repo.Create(context.Background(), openEntry(ownerID, time.Now().UTC()))
	require.NoError(t, err)

	has, err = repo.HasOpenByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRepo_ListByOwner_NewestFirst(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ownerID := seedOwner(t, pool)

	base := time.Now().UTC().Add(-48 * time.Hour).Truncate(time.Microsecond)
	for i := 0; i < 3; i++ {
		in := base.Add(time.Duration(i) * 12 * time.Hour)
		out := in.Add(8 * time.Hour)
		_, err := repo.Create(context.Background(), &domain.TimeEntry{
			ID:          uuid.New(),
			OwnerUserID: ownerID,
			ClockInAt:   in,
			ClockOutAt:  &out,
			Status:      domain.EntryStatusClosed,
		})
		require.NoError(t, err)
	}

	entries, err := repo.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].ClockInAt.After(entries[i].ClockInAt))
	}
}

func TestRepo_ListAll_Filtered(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ownerID := seedOwner(t, pool)

	in := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Microsecond)
	_, err := repo.Create(context.Background(), openEntry(ownerID, in))
	require.NoError(t, err)

	status := domain.EntryStatusOpen
	from := in.Add(-time.Minute)
	to := in.Add(time.Minute)

	entries, err := repo.ListAll(context.Background(), domain.EntryFilter{
		OwnerID: &ownerID,
		Status:  &status,
		From:    &from,
		To:      &to,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ownerID, entries[0].OwnerUserID)

	// The filter window is [from, to): an entry exactly at "to" is excluded.
	entries, err = repo.ListAll(context.Background(), domain.EntryFilter{OwnerID: &ownerID, To: &in})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRepo_DeleteByOwner(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ownerID := seedOwner(t, pool)

	in := time.Now().UTC().Add(-time.Hour)
	out := in.Add(30 * time.Minute)
	_, err := repo.Create(context.Background(), &domain.TimeEntry{
		ID: uuid.New(), OwnerUserID: ownerID, ClockInAt: in, ClockOutAt: &out, Status: domain.EntryStatusClosed,
	})
	require.NoError(t, err)

	n, err := repo.DeleteByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries, err := repo.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
