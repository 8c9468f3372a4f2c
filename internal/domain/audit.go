package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditNote documents one correction or account-status change. Notes are
// append-only: once written they are never mutated or deleted, even when
// the target entity is. The target reference is non-owning (TargetType +
// TargetID), used only for history lookup.
type AuditNote struct {
	ID             uuid.UUID
	TargetType     TargetType
	TargetID       uuid.UUID
	ActorUserID    uuid.UUID
	Action         AuditAction
	BeforeSnapshot map[string]any
	AfterSnapshot  map[string]any
	Note           string
	CreatedAt      time.Time
}
