package rest

import (
	"time"

	"github.com/heartmarshall/timeclock-backend/internal/domain"
)

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type entryResponse struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"ownerUserId"`
	ClockInAt   time.Time  `json:"clockInAt"`
	ClockOutAt  *time.Time `json:"clockOutAt,omitempty"`
	Status      string     `json:"status"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type auditNoteResponse struct {
	ID             string         `json:"id"`
	TargetType     string         `json:"targetType"`
	TargetID       string         `json:"targetId"`
	ActorUserID    string         `json:"actorUserId"`
	Action         string         `json:"action"`
	BeforeSnapshot map[string]any `json:"beforeSnapshot,omitempty"`
	AfterSnapshot  map[string]any `json:"afterSnapshot,omitempty"`
	Note           string         `json:"note"`
	CreatedAt      time.Time      `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Role:      u.Role.String(),
		Status:    u.Status.String(),
		CreatedAt: u.CreatedAt,
	}
}

func toEntryResponse(e *domain.TimeEntry) entryResponse {
	return entryResponse{
		ID:          e.ID.String(),
		OwnerUserID: e.OwnerUserID.String(),
		ClockInAt:   e.ClockInAt,
		ClockOutAt:  e.ClockOutAt,
		Status:      e.Status.String(),
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEntryResponses(entries []domain.TimeEntry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toEntryResponse(&entries[i]))
	}
	return out
}

func toAuditNoteResponse(n *domain.AuditNote) auditNoteResponse {
	return auditNoteResponse{
		ID:             n.ID.String(),
		TargetType:     n.TargetType.String(),
		TargetID:       n.TargetID.String(),
		ActorUserID:    n.ActorUserID.String(),
		Action:         n.Action.String(),
		BeforeSnapshot: n.BeforeSnapshot,
		AfterSnapshot:  n.AfterSnapshot,
		Note:           n.Note,
		CreatedAt:      n.CreatedAt,
	}
}
