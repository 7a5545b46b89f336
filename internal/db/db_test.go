package db

import (
	"path/filepath"
	"testing"
)

func TestOpen_MigratesIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "records.db")

	first, err := Open("sqlite", path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	_, err = first.Exec(`INSERT INTO records (collection, seq, body) VALUES ('signups', 1, '{}')`)
	if err != nil {
		t.Fatalf("insert into records: %v", err)
	}
	first.Close()

	second, err := Open("sqlite", path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer second.Close()

	var n int
	if err := second.Get(&n, `SELECT COUNT(*) FROM records`); err != nil {
		t.Fatalf("count records: %v", err)
	}
	if n != 1 {
		t.Errorf("records = %d, want 1 (data kept across reopen)", n)
	}
}

func TestMigrateDown(t *testing.T) {
	database, err := Open("sqlite", filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	if err := MigrateDown(database.DB, "sqlite"); err != nil {
		t.Fatalf("MigrateDown: %v", err)
	}

	var n int
	err = database.Get(&n, `SELECT COUNT(*) FROM records`)
	if err == nil {
		t.Error("records table still exists after MigrateDown")
	}
}
