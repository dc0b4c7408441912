package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pointledger/internal/api"
	"pointledger/internal/infra/logging"
	"pointledger/internal/infra/pgutils"
	"pointledger/internal/repos/points"
	"pointledger/internal/repos/points/memory"
	pgpoints "pointledger/internal/repos/points/postgres"
	"pointledger/internal/services/ledger"
	"pointledger/pkg/envconf"
	"pointledger/pkg/shutdownqueue"

	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	_ = godotenv.Load()

	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Store ---
	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	ledgerSrv := ledger.New(store)

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, ledgerSrv)

	// Register HTTP server graceful shutdown
	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port, "store", cfg.StoreBackend)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

// openStore builds the points store selected by APP_STORE_BACKEND.
func openStore(ctx context.Context, cfg *apiConfig) (points.Store, error) {
	switch cfg.StoreBackend {
	case backendMemory:
		return memory.New(), nil

	case backendPostgres:
		if cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("PG_DSN is required when APP_STORE_BACKEND=%s", backendPostgres)
		}

		db, err := pgutils.OpenDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}

		shutdownqueue.Add(func(context.Context) error {
			slog.Info("Close database pool")

			return db.Close()
		})

		return pgpoints.New(db), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
