package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/bill"
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

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const selectBillColumns = `
	id, tenancy_id, asset_id, owner_id, renter_id, asset_kind, cycle, period_start, due_date,
	rent_amount, utilities, extra_charges, total, paid_amount, paid_date, payments, status,
	warnings, created_at, updated_at
`

// jsonColumns holds the list and schedule fields of a bill, encoded for the
// JSONB columns.
type jsonColumns struct {
	utilities, extras, payments, warnings []byte
}

func encode(b *bill.Bill) (jsonColumns, error) {
	var (
		c   jsonColumns
		err error
	)

	if c.utilities, err = json.Marshal(asset.Flatten(b.Utilities)); err != nil {
		return c, fmt.Errorf("encoding utilities: %w", err)
	}

	if c.extras, err = json.Marshal(nonNil(b.ExtraCharges)); err != nil {
		return c, fmt.Errorf("encoding extra charges: %w", err)
	}

	if c.payments, err = json.Marshal(nonNil(b.Payments)); err != nil {
		return c, fmt.Errorf("encoding payments: %w", err)
	}

	if c.warnings, err = json.Marshal(nonNil(b.Warnings)); err != nil {
		return c, fmt.Errorf("encoding warnings: %w", err)
	}

	return c, nil
}

func scanBill(s scanner) (*bill.Bill, error) {
	var (
		b                   bill.Bill
		kind, cycle, status string
		c                   jsonColumns
	)

	if err := s.Scan(
		&b.ID, &b.TenancyID, &b.AssetID, &b.OwnerID, &b.RenterID, &kind, &cycle, &b.PeriodStart, &b.DueDate,
		&b.RentAmount, &c.utilities, &c.extras, &b.Total, &b.PaidAmount, &b.PaidDate, &c.payments, &status,
		&c.warnings, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.AssetKind = asset.Kind(kind)
	b.Cycle = asset.Cycle(cycle)
	b.Status = bill.Status(status)

	var flat asset.FlatUtilities
	if err := json.Unmarshal(c.utilities, &flat); err != nil {
		return nil, fmt.Errorf("decoding utilities: %w", err)
	}

	u, err := flat.For(b.AssetKind)
	if err != nil {
		return nil, err
	}

	b.Utilities = u

	if err := json.Unmarshal(c.extras, &b.ExtraCharges); err != nil {
		return nil, fmt.Errorf("decoding extra charges: %w", err)
	}

	if err := json.Unmarshal(c.payments, &b.Payments); err != nil {
		return nil, fmt.Errorf("decoding payments: %w", err)
	}

	if err := json.Unmarshal(c.warnings, &b.Warnings); err != nil {
		return nil, fmt.Errorf("decoding warnings: %w", err)
	}

	return &b, nil
}

// Insert writes a new bill inside or outside a transaction.
func Insert(ctx context.Context, db Execer, b *bill.Bill) error {
	c, err := encode(b)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bills (` + selectBillColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err = db.ExecContext(ctx, query,
		b.ID, b.TenancyID, b.AssetID, b.OwnerID, b.RenterID, b.AssetKind, b.Cycle, b.PeriodStart, b.DueDate,
		b.RentAmount, c.utilities, c.extras, b.Total, b.PaidAmount, b.PaidDate, c.payments, b.Status,
		c.warnings, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting bill: %w", err)
	}

	return nil
}

func (s *Store) GetBill(ctx context.Context, id uuid.UUID) (*bill.Bill, error) {
	query := `SELECT ` + selectBillColumns + ` FROM bills WHERE id = $1`

	b, err := scanBill(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bill.ErrNotFound
		}

		return nil, fmt.Errorf("getting bill: %w", err)
	}

	return b, nil
}

func (s *Store) ListBills(ctx context.Context, filter bill.ListFilter) ([]*bill.Bill, error) {
	query := `SELECT ` + selectBillColumns + ` FROM bills WHERE TRUE`

	var args []any

	add := func(clause string, v any) {
		args = append(args, v)
		query += fmt.Sprintf(clause, len(args))
	}

	if filter.OwnerID != nil {
		add(" AND owner_id = $%d", *filter.OwnerID)
	}

	if filter.RenterID != nil {
		add(" AND renter_id = $%d", *filter.RenterID)
	}

	if filter.TenancyID != nil {
		add(" AND tenancy_id = $%d", *filter.TenancyID)
	}

	if filter.AssetID != nil {
		add(" AND asset_id = $%d", *filter.AssetID)
	}

	if filter.Status != nil {
		add(" AND status = $%d", *filter.Status)
	}

	if filter.From != nil {
		add(" AND period_start >= $%d", *filter.From)
	}

	if filter.To != nil {
		add(" AND period_start < $%d", *filter.To)
	}

	query += " ORDER BY period_start DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	defer rows.Close()

	var bills []*bill.Bill

	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bill: %w", err)
		}

		bills = append(bills, b)
	}

	return bills, rows.Err()
}

// UpdateBill locks the bill row for the length of one transaction, hands the
// stored bill to fn and writes back what fn returns. Concurrent updates of
// the same bill queue on the row lock.
func (s *Store) UpdateBill(ctx context.Context, id uuid.UUID, fn func(bill.Bill) (bill.Bill, error)) (*bill.Bill, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning bill update: %w", err)
	}
	defer dbTx.Rollback()

	query := `SELECT ` + selectBillColumns + ` FROM bills WHERE id = $1 FOR UPDATE`

	current, err := scanBill(dbTx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bill.ErrNotFound
		}

		return nil, fmt.Errorf("locking bill: %w", err)
	}

	next, err := fn(*current)
	if err != nil {
		return nil, err
	}

	if err := write(ctx, dbTx, &next); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing bill update: %w", err)
	}

	return &next, nil
}

// write rewrites every mutable column of the bill in one statement, so the
// stored total never disagrees with the stored charges.
func write(ctx context.Context, db Execer, b *bill.Bill) error {
	c, err := encode(b)
	if err != nil {
		return err
	}

	query := `
		UPDATE bills
		SET rent_amount = $1, utilities = $2, extra_charges = $3, total = $4, paid_amount = $5,
		    paid_date = $6, payments = $7, status = $8, warnings = $9, updated_at = COALESCE($10, NOW())
		WHERE id = $11
	`

	res, err := db.ExecContext(ctx, query,
		b.RentAmount, c.utilities, c.extras, b.Total, b.PaidAmount,
		b.PaidDate, c.payments, b.Status, c.warnings, b.UpdatedAt,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating bill: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return bill.ErrNotFound
	}

	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
