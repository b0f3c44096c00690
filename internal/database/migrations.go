package database

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	Version string
	Name    string
	Up      string
}

var migrations = []migration{
	{
		Version: "20260501000001",
		Name:    "create_assets",
		Up: `
CREATE TABLE IF NOT EXISTS assets (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    owner_id     TEXT NOT NULL,
    kind         TEXT NOT NULL,
    title        TEXT NOT NULL DEFAULT '',
    rates        JSONB NOT NULL DEFAULT '[]',
    status       TEXT NOT NULL DEFAULT 'active',
    is_listed    BOOLEAN NOT NULL DEFAULT FALSE,
    hide_contact BOOLEAN NOT NULL DEFAULT FALSE,
    booking_type TEXT NOT NULL DEFAULT 'instant',
    utilities    JSONB NOT NULL DEFAULT '{}',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_assets_owner ON assets (owner_id, status);
`,
	},
	{
		Version: "20260501000002",
		Name:    "create_tenancies",
		Up: `
CREATE TABLE IF NOT EXISTS tenancies (
    id                 UUID PRIMARY KEY,
    asset_id           UUID NOT NULL REFERENCES assets (id),
    owner_id           TEXT NOT NULL,
    renter_id          TEXT NOT NULL,
    renter_name        TEXT NOT NULL DEFAULT '',
    renter_phone       TEXT NOT NULL DEFAULT '',
    renter_email       TEXT NOT NULL DEFAULT '',
    renter_national_id TEXT NOT NULL DEFAULT '',
    lease_months       INT NOT NULL DEFAULT 0,
    billing_cycle      TEXT NOT NULL,
    status             TEXT NOT NULL,
    start_date         TIMESTAMPTZ NOT NULL,
    end_date           TIMESTAMPTZ,
    notes              TEXT NOT NULL DEFAULT '',
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at         TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_tenancies_asset ON tenancies (asset_id, status);
CREATE INDEX IF NOT EXISTS idx_tenancies_renter ON tenancies (renter_id);
`,
	},
	{
		Version: "20260501000003",
		Name:    "create_bills",
		Up: `
CREATE TABLE IF NOT EXISTS bills (
    id            UUID PRIMARY KEY,
    tenancy_id    UUID NOT NULL REFERENCES tenancies (id),
    asset_id      UUID NOT NULL REFERENCES assets (id),
    owner_id      TEXT NOT NULL,
    renter_id     TEXT NOT NULL,
    asset_kind    TEXT NOT NULL,
    cycle         TEXT NOT NULL,
    period_start  TIMESTAMPTZ NOT NULL,
    due_date      TIMESTAMPTZ NOT NULL,
    rent_amount   BIGINT NOT NULL,
    utilities     JSONB NOT NULL DEFAULT '{}',
    extra_charges JSONB NOT NULL DEFAULT '[]',
    total         BIGINT NOT NULL,
    paid_amount   BIGINT NOT NULL DEFAULT 0,
    paid_date     TIMESTAMPTZ,
    payments      JSONB NOT NULL DEFAULT '[]',
    status        TEXT NOT NULL,
    warnings      JSONB NOT NULL DEFAULT '[]',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_bills_tenancy ON bills (tenancy_id, period_start DESC);
CREATE INDEX IF NOT EXISTS idx_bills_owner ON bills (owner_id, status);
CREATE INDEX IF NOT EXISTS idx_bills_renter ON bills (renter_id, status);
`,
	},
	{
		Version: "20260501000004",
		Name:    "create_charge_presets",
		Up: `
CREATE TABLE IF NOT EXISTS charge_presets (
    id             BIGSERIAL PRIMARY KEY,
    raw_pattern    TEXT NOT NULL,
    preferred_name TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`,
	},
}

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// MigrationStatus reports whether a migration has been applied.
type MigrationStatus struct {
	Version string
	Name    string
	Applied bool
}

// Migrate applies every pending migration, each in its own transaction, and
// returns the versions it applied.
func Migrate(ctx context.Context, db *sql.DB) ([]string, error) {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}

	var done []string

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		if err := apply(ctx, db, m); err != nil {
			return done, err
		}

		done = append(done, m.Version)
	}

	return done, nil
}

// Status lists every known migration with its applied state.
func Status(ctx context.Context, db *sql.DB) ([]MigrationStatus, error) {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}

	out := make([]MigrationStatus, 0, len(migrations))
	for _, m := range migrations {
		out = append(out, MigrationStatus{Version: m.Version, Name: m.Name, Applied: applied[m.Version]})
	}

	return out, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("creating migrations table: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("reading applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)

	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning migration version: %w", err)
		}

		applied[v] = true
	}

	return applied, rows.Err()
}

func apply(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration %s: %w", m.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.Up); err != nil {
		return fmt.Errorf("applying migration %s (%s): %w", m.Version, m.Name, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("recording migration %s: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %s: %w", m.Version, err)
	}

	return nil
}
