package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/heartmarshall/timeclock-backend/internal/adapter/postgres"
	auditrepo "github.com/heartmarshall/timeclock-backend/internal/adapter/postgres/audit"
	entryrepo "github.com/heartmarshall/timeclock-backend/internal/adapter/postgres/entry"
	userrepo "github.com/heartmarshall/timeclock-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/timeclock-backend/internal/auth"
	"github.com/heartmarshall/timeclock-backend/internal/config"
	accountsvc "github.com/heartmarshall/timeclock-backend/internal/service/account"
	auditsvc "github.com/heartmarshall/timeclock-backend/internal/service/audit"
	authsvc "github.com/heartmarshall/timeclock-backend/internal/service/auth"
	entrysvc "github.com/heartmarshall/timeclock-backend/internal/service/entry"
	sessionsvc "github.com/heartmarshall/timeclock-backend/internal/service/session"
	"github.com/heartmarshall/timeclock-backend/internal/transport/rest"
)

// loginRatePerMinute caps PIN login attempts per client IP.
const loginRatePerMinute = 10

// Run is the application entry point. It loads configuration, connects to
// the database, wires repositories, services and HTTP handlers, and serves
// until the context is cancelled or a termination signal arrives.
func Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	users := userrepo.New(pool)
	entries := entryrepo.New(pool)
	auditNotes := auditrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	authService := authsvc.NewService(logger, users, jwtManager)
	sessionService := sessionsvc.NewService(logger, users, entries, txManager)
	entryService := entrysvc.NewService(logger, entries, auditNotes, txManager)
	accountService := accountsvc.NewService(logger, users, entries, auditNotes, txManager)
	auditService := auditsvc.NewService(logger, auditNotes)

	router := rest.NewRouter(rest.Handlers{
		Auth:    rest.NewAuthHandler(authService, logger),
		Clock:   rest.NewClockHandler(sessionService, logger),
		Entries: rest.NewEntryHandler(entryService, logger),
		Users:   rest.NewUserHandler(accountService, logger),
		Audit:   rest.NewAuditHandler(auditService, logger),
		Health:  rest.NewHealthHandler(pool, BuildVersion()),
	}, rest.RouterDeps{
		Logger:             logger,
		TokenValidator:     authService,
		CORS:               cfg.CORS,
		LoginRatePerMinute: loginRatePerMinute,
	})

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
