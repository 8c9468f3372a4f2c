package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/timeclock-backend/internal/domain"
)

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleError maps domain errors to HTTP status codes. Anything unmapped is
// a 500 and gets logged; mapped errors are the client's problem and are not.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": vErr.Errors,
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation failed")
	case errors.Is(err, domain.ErrInvalidTimeRange):
		writeError(w, http.StatusUnprocessableEntity, "clock-out must be after clock-in")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrUserSuspended):
		writeError(w, http.StatusForbidden, "account suspended")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyOpenSession):
		writeError(w, http.StatusConflict, "an open session already exists")
	case errors.Is(err, domain.ErrNoOpenSession):
		writeError(w, http.StatusConflict, "no open session")
	case errors.Is(err, domain.ErrAlreadySuspended):
		writeError(w, http.StatusConflict, "account is already suspended")
	case errors.Is(err, domain.ErrNotSuspended):
		writeError(w, http.StatusConflict, "account is not suspended")
	case errors.Is(err, domain.ErrOpenSessionExists):
		writeError(w, http.StatusConflict, "user has an open session")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
