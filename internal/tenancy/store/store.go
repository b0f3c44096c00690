package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	assetstore "github.com/MrJamesThe3rd/rentledger/internal/asset/store"
	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	billstore "github.com/MrJamesThe3rd/rentledger/internal/bill/store"
	"github.com/MrJamesThe3rd/rentledger/internal/tenancy"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectTenancyColumns = `
	id, asset_id, owner_id, renter_id, renter_name, renter_phone, renter_email, renter_national_id,
	lease_months, billing_cycle, status, start_date, end_date, notes, created_at, updated_at
`

func scanTenancy(s scanner) (*tenancy.Tenancy, error) {
	var (
		t             tenancy.Tenancy
		cycle, status string
	)

	if err := s.Scan(
		&t.ID, &t.AssetID, &t.OwnerID, &t.RenterID, &t.RenterName, &t.RenterPhone, &t.RenterEmail, &t.RenterNationalID,
		&t.LeaseMonths, &cycle, &status, &t.StartDate, &t.EndDate, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.BillingCycle = asset.Cycle(cycle)
	t.Status = tenancy.Status(status)

	return &t, nil
}

func (s *Store) GetTenancy(ctx context.Context, id uuid.UUID) (*tenancy.Tenancy, error) {
	query := `SELECT ` + selectTenancyColumns + ` FROM tenancies WHERE id = $1`

	t, err := scanTenancy(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tenancy.ErrNotFound
		}

		return nil, fmt.Errorf("getting tenancy: %w", err)
	}

	return t, nil
}

func (s *Store) ListTenancies(ctx context.Context, filter tenancy.ListFilter) ([]*tenancy.Tenancy, error) {
	query := `SELECT ` + selectTenancyColumns + ` FROM tenancies WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.OwnerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argIdx)

		args = append(args, *filter.OwnerID)
		argIdx++
	}

	if filter.RenterID != nil {
		query += fmt.Sprintf(" AND renter_id = $%d", argIdx)

		args = append(args, *filter.RenterID)
		argIdx++
	}

	if filter.AssetID != nil {
		query += fmt.Sprintf(" AND asset_id = $%d", argIdx)

		args = append(args, *filter.AssetID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	query += " ORDER BY start_date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tenancies: %w", err)
	}
	defer rows.Close()

	var out []*tenancy.Tenancy

	for rows.Next() {
		t, err := scanTenancy(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tenancy: %w", err)
		}

		out = append(out, t)
	}

	return out, rows.Err()
}

type lifecycleTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (tenancy.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning tenancy tx: %w", err)
	}

	return &lifecycleTx{tx: dbTx}, nil
}

func (ltx *lifecycleTx) Commit() error { return ltx.tx.Commit() }

func (ltx *lifecycleTx) Rollback() error {
	if err := ltx.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (ltx *lifecycleTx) LockAsset(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	query := `SELECT ` + assetstore.Columns + ` FROM assets a WHERE a.id = $1 FOR UPDATE`

	a, err := assetstore.Scan(ltx.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, asset.ErrNotFound
		}

		return nil, fmt.Errorf("locking asset: %w", err)
	}

	return a, nil
}

func (ltx *lifecycleTx) SetAssetStatus(ctx context.Context, id uuid.UUID, status asset.Status) error {
	return assetstore.SetStatus(ctx, ltx.tx, id, status)
}

func (ltx *lifecycleTx) LockTenancy(ctx context.Context, id uuid.UUID) (*tenancy.Tenancy, error) {
	query := `SELECT ` + selectTenancyColumns + ` FROM tenancies WHERE id = $1 FOR UPDATE`

	t, err := scanTenancy(ltx.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tenancy.ErrNotFound
		}

		return nil, fmt.Errorf("locking tenancy: %w", err)
	}

	return t, nil
}

func (ltx *lifecycleTx) CreateTenancy(ctx context.Context, t *tenancy.Tenancy) error {
	query := `
		INSERT INTO tenancies (` + selectTenancyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := ltx.tx.ExecContext(ctx, query,
		t.ID, t.AssetID, t.OwnerID, t.RenterID, t.RenterName, t.RenterPhone, t.RenterEmail, t.RenterNationalID,
		t.LeaseMonths, t.BillingCycle, t.Status, t.StartDate, t.EndDate, t.Notes, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting tenancy: %w", err)
	}

	return nil
}

func (ltx *lifecycleTx) UpdateTenancy(ctx context.Context, t *tenancy.Tenancy) error {
	query := `
		UPDATE tenancies
		SET status = $1, end_date = $2, notes = $3, updated_at = NOW()
		WHERE id = $4
	`

	if _, err := ltx.tx.ExecContext(ctx, query, t.Status, t.EndDate, t.Notes, t.ID); err != nil {
		return fmt.Errorf("updating tenancy: %w", err)
	}

	return nil
}

func (ltx *lifecycleTx) CreateBill(ctx context.Context, b *bill.Bill) error {
	return billstore.Insert(ctx, ltx.tx, b)
}
