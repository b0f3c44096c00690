package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Scanner is satisfied by both *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Columns lists the asset columns in the order Scan expects.
const Columns = `
	a.id, a.owner_id, a.kind, a.title, a.rates, a.status, a.is_listed, a.hide_contact,
	a.booking_type, a.utilities, a.created_at, a.updated_at
`

// Scan reads an asset row selected with Columns.
func Scan(s Scanner) (*asset.Asset, error) {
	var (
		a                         asset.Asset
		kind, status, bookingType string
		ratesJSON, utilitiesJSON  []byte
	)

	if err := s.Scan(
		&a.ID, &a.OwnerID, &kind, &a.Title, &ratesJSON, &status, &a.IsListed, &a.HideContact,
		&bookingType, &utilitiesJSON, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	a.Kind = asset.Kind(kind)
	a.Status = asset.Status(status)
	a.BookingType = asset.BookingType(bookingType)

	if err := json.Unmarshal(ratesJSON, &a.Rates); err != nil {
		return nil, fmt.Errorf("decoding rates: %w", err)
	}

	var flat asset.FlatUtilities
	if err := json.Unmarshal(utilitiesJSON, &flat); err != nil {
		return nil, fmt.Errorf("decoding utilities: %w", err)
	}

	u, err := flat.For(a.Kind)
	if err != nil {
		return nil, err
	}

	a.Utilities = u

	return &a, nil
}

func (s *Store) CreateAsset(ctx context.Context, a *asset.Asset) error {
	rates, err := json.Marshal(a.Rates)
	if err != nil {
		return fmt.Errorf("encoding rates: %w", err)
	}

	utilities, err := json.Marshal(asset.Flatten(a.Utilities))
	if err != nil {
		return fmt.Errorf("encoding utilities: %w", err)
	}

	query := `
		INSERT INTO assets (owner_id, kind, title, rates, status, is_listed, hide_contact, booking_type, utilities, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		a.OwnerID,
		a.Kind,
		a.Title,
		rates,
		a.Status,
		a.IsListed,
		a.HideContact,
		a.BookingType,
		utilities,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating asset: %w", err)
	}

	return nil
}

func (s *Store) GetAsset(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	query := `SELECT ` + Columns + ` FROM assets a WHERE a.id = $1`

	a, err := Scan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, asset.ErrNotFound
		}

		return nil, fmt.Errorf("getting asset: %w", err)
	}

	return a, nil
}

func (s *Store) ListAssets(ctx context.Context, filter asset.ListFilter) ([]*asset.Asset, error) {
	query := `SELECT ` + Columns + ` FROM assets a WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.OwnerID != nil {
		query += fmt.Sprintf(" AND a.owner_id = $%d", argIdx)

		args = append(args, *filter.OwnerID)
		argIdx++
	}

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND a.kind = $%d", argIdx)

		args = append(args, *filter.Kind)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND a.status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	if filter.ListedOnly {
		query += " AND a.is_listed"
	}

	query += " ORDER BY a.created_at ASC, a.title ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	defer rows.Close()

	var assets []*asset.Asset

	for rows.Next() {
		a, err := Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}

		assets = append(assets, a)
	}

	return assets, rows.Err()
}

// UpdateStatus changes the owner-controlled status. The rented check is part
// of the UPDATE, so a tenancy committed in between is never overwritten.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status asset.Status) error {
	query := `
		UPDATE assets
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status <> $3
	`

	res, err := s.db.ExecContext(ctx, query, status, id, asset.StatusRented)
	if err != nil {
		return fmt.Errorf("updating asset status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating asset status: %w", err)
	}

	if n > 0 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM assets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("checking asset: %w", err)
	}

	if !exists {
		return asset.ErrNotFound
	}

	return fmt.Errorf("%w: asset is rented", asset.ErrInvalidStatusTransition)
}

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SetStatus updates the status of one asset inside or outside a transaction.
func SetStatus(ctx context.Context, db Execer, id uuid.UUID, status asset.Status) error {
	query := `
		UPDATE assets
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating asset status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return asset.ErrNotFound
	}

	return nil
}
