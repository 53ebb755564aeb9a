package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/opsdesk/instascrape/internal/config"
	"github.com/opsdesk/instascrape/internal/dispatch"
	"github.com/opsdesk/instascrape/internal/ingest"
	"github.com/opsdesk/instascrape/internal/poller"
	"github.com/opsdesk/instascrape/internal/sheet"
	"github.com/opsdesk/instascrape/internal/webui"
)

func main() {
	// 1. Setup
	godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Configuration invalid", "err", err)
		os.Exit(1)
	}

	// 2. Authenticate to the sheet (fatal on bad credentials)
	ctx := context.Background()
	store, err := sheet.NewClient(ctx, cfg.GoogleCreds, cfg.SheetID, cfg.CacheTTL)
	if err != nil {
		logger.Error("Sheet client failed", "err", err)
		os.Exit(1)
	}

	dispatcher := dispatch.NewClient(dispatch.Options{
		URL:          cfg.WebhookURL,
		APIKey:       cfg.WebhookAPIKey,
		APIKeyHeader: cfg.APIKeyHeader,
		PayloadShape: cfg.PayloadShape,
		Timeout:      cfg.DispatchTimeout,
	})

	wait := &poller.Poller{
		Store:    store,
		Interval: cfg.PollInterval,
		Progress: func(elapsed, total time.Duration) {
			logger.Info("Waiting for sheet update",
				"elapsed_s", int(elapsed.Seconds()),
				"total_s", int(total.Seconds()))
		},
	}

	// 3. Load preset roster (optional input)
	roster, err := ingest.LoadAccounts(cfg.RosterPath)
	if err != nil {
		logger.Info("No accounts roster loaded", "path", cfg.RosterPath, "err", err)
	}

	// 4. Run Console
	console := webui.NewServer(store, dispatcher, wait, cfg.PollTimeout, roster)
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: console.Handler(),
	}

	go func() {
		logger.Info("Starting Console", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Console failed", "err", err)
			os.Exit(1)
		}
	}()

	// 5. Graceful Shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "err", err)
	}
}
