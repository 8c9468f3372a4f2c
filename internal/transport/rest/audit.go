package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/timeclock-backend/internal/domain"
)

// auditService defines the minimal interface needed by AuditHandler.
type auditService interface {
	HistoryForTarget(ctx context.Context, targetType domain.TargetType, targetID uuid.UUID) ([]domain.AuditNote, error)
	HistoryByActor(ctx context.Context, actorID uuid.UUID) ([]domain.AuditNote, error)
}

// AuditHandler serves audit trail REST endpoints.
type AuditHandler struct {
	svc auditService
	log *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(svc auditService, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, log: logger.With("handler", "audit")}
}

// HistoryForEntry handles GET /v1/entries/{id}/audit.
func (h *AuditHandler) HistoryForEntry(w http.ResponseWriter, r *http.Request) {
	h.historyForTarget(w, r, domain.TargetTypeTimeEntry)
}

// HistoryForUser handles GET /v1/users/{id}/audit.
func (h *AuditHandler) HistoryForUser(w http.ResponseWriter, r *http.Request) {
	h.historyForTarget(w, r, domain.TargetTypeUser)
}

// HistoryByActor handles GET /v1/audit/by-actor/{id}.
func (h *AuditHandler) HistoryByActor(w http.ResponseWriter, r *http.Request) {
	actorID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid actor id")
		return
	}

	notes, err := h.svc.HistoryByActor(r.Context(), actorID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuditNoteResponses(notes))
}

func (h *AuditHandler) historyForTarget(w http.ResponseWriter, r *http.Request, targetType domain.TargetType) {
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target id")
		return
	}

	notes, err := h.svc.HistoryForTarget(r.Context(), targetType, targetID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuditNoteResponses(notes))
}

func toAuditNoteResponses(notes []domain.AuditNote) []auditNoteResponse {
	out := make([]auditNoteResponse, 0, len(notes))
	for i := range notes {
		out = append(out, toAuditNoteResponse(&notes[i]))
	}
	return out
}
