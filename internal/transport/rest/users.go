package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/timeclock-backend/internal/domain"
	"github.com/heartmarshall/timeclock-backend/internal/service/account"
)

// accountService defines the minimal interface needed by UserHandler.
type accountService interface {
	CreateUser(ctx context.Context, input account.CreateInput) (*domain.User, error)
	SuspendUser(ctx context.Context, targetID uuid.UUID, note string) (*domain.User, error)
	ReactivateUser(ctx context.Context, targetID uuid.UUID, note string) (*domain.User, error)
	DeleteUser(ctx context.Context, targetID uuid.UUID, note string) error
	GetUser(ctx context.Context, targetID uuid.UUID) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// UserHandler serves user lifecycle REST endpoints.
type UserHandler struct {
	svc accountService
	log *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc accountService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: logger.With("handler", "users")}
}

type createUserRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
	Role string `json:"role"`
}

type noteRequest struct {
	Note string `json:"note"`
}

// Create handles POST /v1/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.CreateUser(r.Context(), account.CreateInput{
		Name: req.Name,
		PIN:  req.PIN,
		Role: domain.Role(req.Role),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(created))
}

// Get handles GET /v1/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	u, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// List handles GET /v1/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Suspend handles POST /v1/users/{id}/suspend.
func (h *UserHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	h.updateStatus(w, r, h.svc.SuspendUser)
}

// Reactivate handles POST /v1/users/{id}/reactivate.
func (h *UserHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	h.updateStatus(w, r, h.svc.ReactivateUser)
}

// Delete handles DELETE /v1/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req noteRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.svc.DeleteUser(r.Context(), id, req.Note); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) updateStatus(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID, string) (*domain.User, error)) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := fn(r.Context(), id, req.Note)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}
