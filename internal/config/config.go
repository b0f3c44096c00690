package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
)

type Config struct {
	App struct {
		Name        string `envconfig:"APP_NAME" default:"rentledger"`
		Environment string `envconfig:"APP_ENV" default:"development"`
		Port        int    `envconfig:"PORT" default:"8080"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"json"`
	}

	Store struct {
		// Driver is "memory" or "postgres".
		Driver string `envconfig:"STORE_DRIVER" default:"memory"`
		Seed   bool   `envconfig:"STORE_SEED" default:"false"`
	}

	DB struct {
		Host            string        `envconfig:"DB_HOST" default:"localhost"`
		Port            int           `envconfig:"DB_PORT" default:"5432"`
		User            string        `envconfig:"DB_USER" default:"postgres"`
		Password        string        `envconfig:"DB_PASSWORD" default:""`
		Name            string        `envconfig:"DB_NAME" default:"rentledger"`
		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
		AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	}

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	Notify struct {
		// Driver is "log", "redis" or "none".
		Driver        string        `envconfig:"NOTIFY_DRIVER" default:"log"`
		ChannelPrefix string        `envconfig:"NOTIFY_CHANNEL_PREFIX" default:"rentledger:renter:"`
		Timeout       time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"2s"`
	}

	Auth struct {
		// JWTSecret enables HS256 bearer tokens. When empty the X-Actor-ID
		// header names the caller.
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
		RateLimit      float64       `envconfig:"RATE_LIMIT_RPS" default:"20"`
		RateBurst      int           `envconfig:"RATE_LIMIT_BURST" default:"40"`
	}

	Billing struct {
		FallbackOrder []string `envconfig:"BILLING_FALLBACK_ORDER" default:"monthly,daily"`
	}

	Export struct {
		Dir string `envconfig:"EXPORT_DIR" default:"exports"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Fallback returns the configured rate fallback order.
func (c *Config) Fallback() ([]asset.Cycle, error) {
	order := make([]asset.Cycle, 0, len(c.Billing.FallbackOrder))

	for _, raw := range c.Billing.FallbackOrder {
		cycle := asset.Cycle(strings.ToLower(strings.TrimSpace(raw)))
		if cycle == "" {
			continue
		}

		if !cycle.Valid() {
			return nil, fmt.Errorf("unknown billing cycle %q in fallback order", raw)
		}

		order = append(order, cycle)
	}

	return order, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Store.Driver {
	case "memory", "postgres":
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	switch cfg.Notify.Driver {
	case "log", "redis", "none":
	default:
		return nil, fmt.Errorf("unknown notify driver %q", cfg.Notify.Driver)
	}

	if _, err := cfg.Fallback(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
