package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/timeclock-backend/internal/domain"
	"github.com/heartmarshall/timeclock-backend/internal/service/session"
)

// sessionService defines the minimal interface needed by ClockHandler.
type sessionService interface {
	ClockIn(ctx context.Context) (*domain.TimeEntry, error)
	ClockOut(ctx context.Context) (*domain.TimeEntry, error)
	CurrentStatus(ctx context.Context) (*session.Status, error)
}

// ClockHandler serves the kiosk clock endpoints.
type ClockHandler struct {
	svc sessionService
	log *slog.Logger
}

// NewClockHandler creates a ClockHandler.
func NewClockHandler(svc sessionService, logger *slog.Logger) *ClockHandler {
	return &ClockHandler{svc: svc, log: logger.With("handler", "clock")}
}

type statusResponse struct {
	User          userResponse    `json:"user"`
	Open          *entryResponse  `json:"open,omitempty"`
	LastCompleted *entryResponse  `json:"lastCompleted,omitempty"`
	History       []entryResponse `json:"history"`
}

// ClockIn handles POST /v1/clock/in.
func (h *ClockHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.ClockIn(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

// ClockOut handles POST /v1/clock/out.
func (h *ClockHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.ClockOut(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

// Status handles GET /v1/clock/status.
func (h *ClockHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.CurrentStatus(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := statusResponse{
		User:    toUserResponse(status.User),
		History: make([]entryResponse, 0, len(status.History)),
	}
	if status.Open != nil {
		open := toEntryResponse(status.Open)
		resp.Open = &open
	}
	if status.LastCompleted != nil {
		last := toEntryResponse(status.LastCompleted)
		resp.LastCompleted = &last
	}
	for i := range status.History {
		resp.History = append(resp.History, toEntryResponse(&status.History[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}
