package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/rentledger/internal/app"
	"github.com/MrJamesThe3rd/rentledger/internal/config"
	ledgerHTTP "github.com/MrJamesThe3rd/rentledger/internal/http"
	assetHandler "github.com/MrJamesThe3rd/rentledger/internal/http/asset"
	billHandler "github.com/MrJamesThe3rd/rentledger/internal/http/bill"
	exportHandler "github.com/MrJamesThe3rd/rentledger/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/rentledger/internal/http/importcsv"
	presetHandler "github.com/MrJamesThe3rd/rentledger/internal/http/preset"
	tenancyHandler "github.com/MrJamesThe3rd/rentledger/internal/http/tenancy"
	"github.com/MrJamesThe3rd/rentledger/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ledger, err := app.New(ctx, cfg, log, registry)
	if err != nil {
		return err
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			log.Error("failed to close ledger", zap.Error(err))
		}
	}()

	handlers := ledgerHTTP.Handlers{
		Assets:    assetHandler.NewHandler(ledger.Assets),
		Tenancies: tenancyHandler.NewHandler(ledger.Tenancies),
		Bills:     billHandler.NewHandler(ledger.Bills),
		Presets:   presetHandler.NewHandler(ledger.Presets),
		Import:    importHandler.NewHandler(ledger.Importer),
		Export:    exportHandler.NewHandler(ledger.Export, log),
	}

	router := ledgerHTTP.New(handlers, ledgerHTTP.Options{
		Log:            log,
		Metrics:        ledger.Metrics,
		Gatherer:       registry,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
		Timeout:        cfg.Server.Timeout,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr), zap.String("store", cfg.Store.Driver))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return nil
}
