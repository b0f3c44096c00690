package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/rentledger/internal/app"
	"github.com/MrJamesThe3rd/rentledger/internal/config"
	"github.com/MrJamesThe3rd/rentledger/internal/logger"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Operate the rental billing ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		migrateCmd(),
		importCmd(),
		remindCmd(),
		exportCmd(),
		tokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is the configuration and logger shared by every command.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		ServiceName: "ledgerctl",
		Environment: cfg.App.Environment,
		Level:       cfg.Log.Level,
		Format:      "console",
	})
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, log: log}, nil
}

// withLedger runs fn against a fully wired ledger and closes it afterwards.
func withLedger(ctx context.Context, fn func(e *env, ledger *app.App) error) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	ledger, err := app.New(ctx, e.cfg, e.log, nil)
	if err != nil {
		return err
	}

	runErr := fn(e, ledger)

	if err := ledger.Close(); err != nil && runErr == nil {
		return err
	}

	return runErr
}
