package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	t.Parallel()

	for _, r := range []Role{RoleAdmin, RoleTimekeeper, RoleWorker} {
		assert.True(t, r.IsValid(), r)
	}
	assert.False(t, Role("MANAGER").IsValid())
	assert.False(t, Role("").IsValid())
	assert.False(t, Role("admin").IsValid(), "roles are case-sensitive")
}

func TestEntryStatus_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []EntryStatus{EntryStatusOpen, EntryStatusClosed, EntryStatusEdited} {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, EntryStatus("DELETED").IsValid())
}

func TestAuditAction_IsValid(t *testing.T) {
	t.Parallel()

	for _, a := range []AuditAction{AuditActionEdit, AuditActionSuspend, AuditActionReactivate, AuditActionDelete} {
		assert.True(t, a.IsValid(), a)
	}
	assert.False(t, AuditAction("CREATE").IsValid())
}

func TestTargetType_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, TargetTypeTimeEntry.IsValid())
	assert.True(t, TargetTypeUser.IsValid())
	assert.False(t, TargetType("SHIFT").IsValid())
}
