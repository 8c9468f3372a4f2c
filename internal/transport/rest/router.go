package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/timeclock-backend/internal/config"
	"github.com/heartmarshall/timeclock-backend/internal/transport/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth    *AuthHandler
	Clock   *ClockHandler
	Entries *EntryHandler
	Users   *UserHandler
	Audit   *AuditHandler
	Health  *HealthHandler
}

// RouterDeps carries the cross-cutting pieces the router wires around handlers.
type RouterDeps struct {
	Logger         *slog.Logger
	TokenValidator middleware.TokenValidator
	CORS           config.CORSConfig
	// LoginRatePerMinute limits login attempts per client IP. PIN login is
	// brute-forceable without it. Zero disables the limiter.
	LoginRatePerMinute int
}

// NewRouter assembles the HTTP routing table. Login and health probes are
// public; everything else sits behind the auth middleware.
func NewRouter(h Handlers, deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Public.
	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	login := http.Handler(http.HandlerFunc(h.Auth.Login))
	if deps.LoginRatePerMinute > 0 {
		rl := middleware.NewRateLimiter(5 * time.Minute)
		login = rl.Limit(deps.LoginRatePerMinute)(login)
	}
	mux.Handle("POST /v1/auth/login", login)

	// Authenticated.
	api := http.NewServeMux()

	api.HandleFunc("POST /v1/clock/in", h.Clock.ClockIn)
	api.HandleFunc("POST /v1/clock/out", h.Clock.ClockOut)
	api.HandleFunc("GET /v1/clock/status", h.Clock.Status)

	api.HandleFunc("GET /v1/entries", h.Entries.List)
	api.HandleFunc("PATCH /v1/entries/{id}", h.Entries.Edit)
	api.HandleFunc("GET /v1/entries/{id}/audit", h.Audit.HistoryForEntry)

	api.HandleFunc("POST /v1/users", h.Users.Create)
	api.HandleFunc("GET /v1/users", h.Users.List)
	api.HandleFunc("GET /v1/users/{id}", h.Users.Get)
	api.HandleFunc("DELETE /v1/users/{id}", h.Users.Delete)
	api.HandleFunc("POST /v1/users/{id}/suspend", h.Users.Suspend)
	api.HandleFunc("POST /v1/users/{id}/reactivate", h.Users.Reactivate)
	api.HandleFunc("GET /v1/users/{id}/entries", h.Entries.ListByUser)
	api.HandleFunc("POST /v1/users/{id}/force-clock-out", h.Entries.ForceClockOut)
	api.HandleFunc("GET /v1/users/{id}/audit", h.Audit.HistoryForUser)

	api.HandleFunc("GET /v1/audit/by-actor/{id}", h.Audit.HistoryByActor)

	mux.Handle("/v1/", middleware.Auth(deps.TokenValidator)(api))

	return middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(deps.Logger),
		middleware.Logger(deps.Logger),
		middleware.CORS(deps.CORS),
	)(mux)
}
