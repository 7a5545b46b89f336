package repository

import (
	"context"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/soraformula/soraformula/internal/model"
)

// Collection is an append-mostly list of records. Implementations do not
// coordinate concurrent writers: two read-modify-write cycles can race and
// the last OverwriteAll wins.
type Collection[T any] interface {
	// LoadAll returns every record in insertion order
	LoadAll(ctx context.Context) ([]T, error)

	// AppendOne adds a record at the end
	AppendOne(ctx context.Context, record T) error

	// OverwriteAll replaces the whole collection
	OverwriteAll(ctx context.Context, records []T) error
}

const (
	CollectionSignups    = "signups"
	CollectionActivities = "activities"
	CollectionPayments   = "payments"
	CollectionUsers      = "users"
)

// Collections groups the tables of the app; each service owns one of them
type Collections struct {
	Signups    Collection[model.Signup]
	Activities Collection[model.Activity]
	Payments   Collection[model.Payment]
	Users      Collection[model.User]
}

// NewJSONCollections stores each collection as dataDir/<name>.json
func NewJSONCollections(dataDir string) *Collections {
	path := func(name string) string {
		return filepath.Join(dataDir, name+".json")
	}
	return &Collections{
		Signups:    NewJSONCollection[model.Signup](path(CollectionSignups)),
		Activities: NewJSONCollection[model.Activity](path(CollectionActivities)),
		Payments:   NewJSONCollection[model.Payment](path(CollectionPayments)),
		Users:      NewJSONCollection[model.User](path(CollectionUsers)),
	}
}

// NewSQLCollections stores every collection in the records table of db
func NewSQLCollections(db *sqlx.DB) *Collections {
	return &Collections{
		Signups:    NewSQLCollection[model.Signup](db, CollectionSignups),
		Activities: NewSQLCollection[model.Activity](db, CollectionActivities),
		Payments:   NewSQLCollection[model.Payment](db, CollectionPayments),
		Users:      NewSQLCollection[model.User](db, CollectionUsers),
	}
}
