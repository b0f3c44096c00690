package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	assetStore "github.com/MrJamesThe3rd/rentledger/internal/asset/store"
	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	billStore "github.com/MrJamesThe3rd/rentledger/internal/bill/store"
	"github.com/MrJamesThe3rd/rentledger/internal/config"
	"github.com/MrJamesThe3rd/rentledger/internal/database"
	"github.com/MrJamesThe3rd/rentledger/internal/export"
	"github.com/MrJamesThe3rd/rentledger/internal/importer"
	"github.com/MrJamesThe3rd/rentledger/internal/metrics"
	"github.com/MrJamesThe3rd/rentledger/internal/notify"
	"github.com/MrJamesThe3rd/rentledger/internal/preset"
	presetStore "github.com/MrJamesThe3rd/rentledger/internal/preset/store"
	"github.com/MrJamesThe3rd/rentledger/internal/store/memory"
	"github.com/MrJamesThe3rd/rentledger/internal/tenancy"
	tenancyStore "github.com/MrJamesThe3rd/rentledger/internal/tenancy/store"
)

// App holds the wired services shared by the server, the CLI and the TUI.
type App struct {
	Assets    *asset.Service
	Tenancies *tenancy.Service
	Bills     *bill.Service
	Presets   *preset.Service
	Importer  *importer.Service
	Export    *export.Service
	Metrics   *metrics.Metrics

	// DB is nil with the memory store.
	DB *sql.DB

	closers []func() error
}

type repositories struct {
	assets    asset.Repository
	bills     bill.Repository
	tenancies tenancy.Repository
	presets   preset.Repository
}

// New builds every service from cfg. Metrics are registered on registerer
// when it is not nil.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, registerer prometheus.Registerer) (*App, error) {
	a := &App{}

	repos, err := a.openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	fallback, err := cfg.Fallback()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	if registerer != nil {
		a.Metrics = metrics.New(registerer, metrics.Config{
			ServiceName: cfg.App.Name,
			Environment: cfg.App.Environment,
		})
	}

	notifier := a.notifier(cfg, log)

	a.Assets = asset.NewService(repos.assets)
	a.Presets = preset.NewService(repos.presets, log)
	a.Bills = bill.NewService(repos.bills,
		bill.WithNamer(a.Presets),
		bill.WithNotifier(notifier),
		bill.WithMetrics(a.Metrics),
		bill.WithLogger(log),
	)
	a.Tenancies = tenancy.NewService(repos.tenancies,
		tenancy.WithResolver(asset.NewResolver(fallback)),
		tenancy.WithNotifier(notifier),
		tenancy.WithMetrics(a.Metrics),
		tenancy.WithLogger(log),
	)
	a.Importer = importer.NewService(a.Bills, log)
	a.Export = export.NewService(a.Bills, a.Assets)

	if cfg.Store.Seed {
		if err := Seed(ctx, a); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("seeding demo data: %w", err)
		}
	}

	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repositories, error) {
	if cfg.Store.Driver == "memory" {
		s := memory.New()
		log.Info("using in-memory store")

		return repositories{assets: s, bills: s, tenancies: s, presets: s}, nil
	}

	db, err := database.New(ctx, cfg.ConnectionString(), database.PoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return repositories{}, fmt.Errorf("connecting to database: %w", err)
	}

	a.DB = db
	a.closers = append(a.closers, db.Close)

	if cfg.DB.AutoMigrate {
		applied, err := database.Migrate(ctx, db)
		if err != nil {
			_ = a.Close()
			return repositories{}, fmt.Errorf("migrating database: %w", err)
		}

		if len(applied) > 0 {
			log.Info("applied migrations", zap.Strings("versions", applied))
		}
	}

	return repositories{
		assets:    assetStore.New(db),
		bills:     billStore.New(db),
		tenancies: tenancyStore.New(db),
		presets:   presetStore.New(db),
	}, nil
}

func (a *App) notifier(cfg *config.Config, log *zap.Logger) notify.Notifier {
	var next notify.Notifier

	switch cfg.Notify.Driver {
	case "none":
		return notify.Nop{}
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, client.Close)

		next = notify.NewRedis(client, cfg.Notify.ChannelPrefix, cfg.Notify.Timeout, log)
	default:
		next = notify.NewLog(log)
	}

	async := notify.NewAsync(next)

	// Pending notifications drain before any client is closed.
	a.closers = append([]func() error{func() error { async.Close(); return nil }}, a.closers...)

	return async
}

// Close waits for pending notifications and releases connections.
func (a *App) Close() error {
	var errs []error

	for _, c := range a.closers {
		errs = append(errs, c())
	}

	a.closers = nil

	return errors.Join(errs...)
}
