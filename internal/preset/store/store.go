package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, rawName string) (string, error) {
	query := `
		SELECT preferred_name
		FROM charge_presets
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var preferred string

	err := s.db.QueryRowContext(ctx, query, rawName).Scan(&preferred)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding preset: %w", err)
	}

	return preferred, nil
}

func (s *Store) CreatePreset(ctx context.Context, rawPattern, preferredName string) error {
	query := `
		INSERT INTO charge_presets (raw_pattern, preferred_name, created_at)
		VALUES ($1, $2, NOW())
	`

	if _, err := s.db.ExecContext(ctx, query, rawPattern, preferredName); err != nil {
		return fmt.Errorf("creating preset: %w", err)
	}

	return nil
}
