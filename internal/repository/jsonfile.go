package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// jsonCollection keeps a collection as a pretty-printed JSON array in one file
type jsonCollection[T any] struct {
	path string
}

func NewJSONCollection[T any](path string) Collection[T] {
	return &jsonCollection[T]{path: path}
}

// LoadAll never fails: a missing or unparsable file reads as empty
func (c *jsonCollection[T]) LoadAll(ctx context.Context) ([]T, error) {
	return loadData[T](c.path), nil
}

func (c *jsonCollection[T]) AppendOne(ctx context.Context, record T) error {
	records := loadData[T](c.path)
	records = append(records, record)
	return saveData(c.path, records)
}

func (c *jsonCollection[T]) OverwriteAll(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	return saveData(c.path, records)
}

func loadData[T any](path string) []T {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to read data file, using empty set", "path", path, "error", err)
		}
		return []T{}
	}

	records := []T{}
	err = json.Unmarshal(data, &records)
	if err != nil {
		slog.Warn("failed to parse data file, using empty set", "path", path, "error", err)
		return []T{}
	}
	return records
}

func saveData[T any](path string, records []T) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
