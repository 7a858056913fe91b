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
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/internal/app"
	"github.com/MrJamesThe3rd/tally/internal/config"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/tally/internal/http/analytics"
	backupHandler "github.com/MrJamesThe3rd/tally/internal/http/backup"
	budgetHandler "github.com/MrJamesThe3rd/tally/internal/http/budget"
	exportHandler "github.com/MrJamesThe3rd/tally/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	txHandler "github.com/MrJamesThe3rd/tally/internal/http/transaction"
	"github.com/MrJamesThe3rd/tally/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(os.Stderr, cfg.App.LogLevel, "api")

	a, err := app.Open(cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	handlers := tallyHttp.Handlers{
		Transactions: txHandler.NewHandler(a.Ledger),
		Budgets:      budgetHandler.NewHandler(a.Ledger),
		Analytics:    analyticsHandler.NewHandler(a.Ledger),
		Import:       importHandler.NewHandler(a.Import, a.Ledger),
		Export:       exportHandler.NewHandler(a.Export, a.Ledger),
	}

	if a.Backup != nil {
		handlers.Backup = backupHandler.NewHandler(a.Backup, a.Ledger)
	}

	router := tallyHttp.New(tallyHttp.Options{
		Timeout:     cfg.Server.Timeout,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "name", cfg.App.Name, "addr", srv.Addr, "backend", cfg.Store.Backend)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		a.Close()
		os.Exit(1)
	}
}
