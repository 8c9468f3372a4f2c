package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/timeclock-backend/internal/domain"
	"github.com/heartmarshall/timeclock-backend/internal/service/entry"
)

// entryService defines the minimal interface needed by EntryHandler.
type entryService interface {
	EditEntry(ctx context.Context, entryID uuid.UUID, input entry.EditInput) (*domain.TimeEntry, error)
	ForceClockOut(ctx context.Context, targetUserID uuid.UUID, note string) (*domain.TimeEntry, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.TimeEntry, error)
	ListAll(ctx context.Context, filter domain.EntryFilter) ([]domain.TimeEntry, error)
}

// EntryHandler serves time-entry REST endpoints.
type EntryHandler struct {
	svc entryService
	log *slog.Logger
}

// NewEntryHandler creates an EntryHandler.
func NewEntryHandler(svc entryService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{svc: svc, log: logger.With("handler", "entries")}
}

type editEntryRequest struct {
	ClockInAt  *time.Time `json:"clockInAt"`
	ClockOutAt *time.Time `json:"clockOutAt"`
	Note       string     `json:"note"`
}

type forceClockOutRequest struct {
	Note string `json:"note"`
}

// List handles GET /v1/entries.
// Query parameters: ownerId, status, from, to (RFC 3339 timestamps).
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEntryFilter(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	entries, err := h.svc.ListAll(r.Context(), filter)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponses(entries))
}

// ListByUser handles GET /v1/users/{id}/entries.
func (h *EntryHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	entries, err := h.svc.ListByOwner(r.Context(), ownerID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponses(entries))
}

// Edit handles PATCH /v1/entries/{id}.
func (h *EntryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	var req editEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.EditEntry(r.Context(), entryID, entry.EditInput{
		ClockInAt:  req.ClockInAt,
		ClockOutAt: req.ClockOutAt,
		Note:       req.Note,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(updated))
}

// ForceClockOut handles POST /v1/users/{id}/force-clock-out.
func (h *EntryHandler) ForceClockOut(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req forceClockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	closed, err := h.svc.ForceClockOut(r.Context(), targetID, req.Note)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(closed))
}

func parseEntryFilter(r *http.Request) (domain.EntryFilter, error) {
	var filter domain.EntryFilter
	q := r.URL.Query()

	if v := q.Get("ownerId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("ownerId", "must be a UUID")
		}
		filter.OwnerID = &id
	}
	if v := q.Get("status"); v != "" {
		status := domain.EntryStatus(v)
		if !status.IsValid() {
			return filter, domain.NewValidationError("status", "unknown entry status")
		}
		filter.Status = &status
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, domain.NewValidationError("from", "must be an RFC 3339 timestamp")
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, domain.NewValidationError("to", "must be an RFC 3339 timestamp")
		}
		filter.To = &t
	}
	return filter, nil
}
