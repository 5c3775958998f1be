// Package db holds the catalog stores. Every store keeps rows of
// model.CatalogRow keyed by ID.
package db

import (
	"context"
	"fmt"

	"github.com/jsphweid/chordex/config"
	"github.com/jsphweid/chordex/model"
)

type Store interface {
	ListChords(ctx context.Context) ([]model.CatalogRow, error)
	UpsertChords(ctx context.Context, rows []model.CatalogRow) error
	UpdateNotes(ctx context.Context, id string, notes []string) error
	DeleteChords(ctx context.Context, ids []string) error
	Close() error
}

// Open picks a store by cfg.CatalogStore. "none" returns a nil store and no
// error; callers that need one should check.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.CatalogStore {
	case "", "none":
		return nil, nil
	case "sqlite":
		return OpenSQLite(ctx, cfg.SQLitePath)
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres store needs DATABASE_URL")
		}
		return OpenPostgres(cfg.DatabaseURL)
	case "dynamodb":
		return OpenDynamo(cfg.DynamoDBRegion, cfg.DynamoDBEndpoint, cfg.DynamoDBTable)
	}
	return nil, fmt.Errorf("unknown catalog store %q", cfg.CatalogStore)
}

// NotFoundError is returned when an update targets a row that does not
// exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("chord %q not found", e.ID)
}
