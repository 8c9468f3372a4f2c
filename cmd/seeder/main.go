// Command seeder creates the initial user accounts so a fresh deployment
// can be logged into. It is idempotent: accounts that already exist (by PIN
// collision) are skipped, not duplicated. Intended to be run offline, not
// as part of the main server.
//
// Flags:
//
//	--admin-pin       PIN for the bootstrap admin account (required)
//	--timekeeper-pin  PIN for a timekeeper account (optional)
//	--worker-pin      PIN for a demo worker account (optional)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/timeclock-backend/internal/adapter/postgres"
	userrepo "github.com/heartmarshall/timeclock-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/timeclock-backend/internal/app"
	"github.com/heartmarshall/timeclock-backend/internal/auth"
	"github.com/heartmarshall/timeclock-backend/internal/config"
	"github.com/heartmarshall/timeclock-backend/internal/domain"
)

func main() {
	adminPIN := flag.String("admin-pin", "", "PIN for the bootstrap admin account")
	timekeeperPIN := flag.String("timekeeper-pin", "", "PIN for a timekeeper account")
	workerPIN := flag.String("worker-pin", "", "PIN for a demo worker account")
	flag.Parse()

	if *adminPIN == "" {
		log.Fatal("--admin-pin is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	users := userrepo.New(pool)

	accounts := []struct {
		name string
		pin  string
		role domain.Role
	}{
		{"Admin", *adminPIN, domain.RoleAdmin},
		{"Timekeeper", *timekeeperPIN, domain.RoleTimekeeper},
		{"Worker", *workerPIN, domain.RoleWorker},
	}

	for _, a := range accounts {
		if a.pin == "" {
			continue
		}
		if err := seedAccount(ctx, users, a.name, a.pin, a.role); err != nil {
			logger.Error("seed account",
				slog.String("name", a.name),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("account ready", slog.String("name", a.name), slog.String("role", a.role.String()))
	}
}

func seedAccount(ctx context.Context, users *userrepo.Repo, name, pin string, role domain.Role) error {
	if err := auth.ValidatePIN(pin); err != nil {
		return err
	}

	hash, err := auth.HashPIN(pin)
	if err != nil {
		return err
	}

	_, err = users.Create(ctx, &domain.User{
		ID:        uuid.New(),
		Name:      name,
		PINHash:   hash,
		PINLookup: auth.PINLookupKey(pin),
		Role:      role,
		Status:    domain.UserStatusActive,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil
	}
	return err
}
