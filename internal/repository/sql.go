package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// sqlCollection stores each record as a JSON body in the shared records table
type sqlCollection[T any] struct {
	db   *sqlx.DB
	name string
}

func NewSQLCollection[T any](db *sqlx.DB, name string) Collection[T] {
	return &sqlCollection[T]{db: db, name: name}
}

func (c *sqlCollection[T]) LoadAll(ctx context.Context) ([]T, error) {
	var bodies []string
	query := `SELECT body FROM records WHERE collection = $1 ORDER BY seq`

	err := c.db.SelectContext(ctx, &bodies, query, c.name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c.name, err)
	}

	records := make([]T, 0, len(bodies))
	for _, body := range bodies {
		var record T
		err = json.Unmarshal([]byte(body), &record)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s record: %w", c.name, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (c *sqlCollection[T]) AppendOne(ctx context.Context, record T) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", c.name, err)
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq int64
	err = tx.GetContext(ctx, &seq, `SELECT COALESCE(MAX(seq), 0) + 1 FROM records WHERE collection = $1`, c.name)
	if err != nil {
		return fmt.Errorf("failed to allocate %s sequence: %w", c.name, err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO records (collection, seq, body) VALUES ($1, $2, $3)`, c.name, seq, string(body))
	if err != nil {
		return fmt.Errorf("failed to insert %s record: %w", c.name, err)
	}

	return tx.Commit()
}

func (c *sqlCollection[T]) OverwriteAll(ctx context.Context, records []T) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `DELETE FROM records WHERE collection = $1`, c.name)
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", c.name, err)
	}

	for i, record := range records {
		body, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to encode %s record: %w", c.name, err)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO records (collection, seq, body) VALUES ($1, $2, $3)`, c.name, i+1, string(body))
		if err != nil {
			return fmt.Errorf("failed to insert %s record: %w", c.name, err)
		}
	}

	return tx.Commit()
}
