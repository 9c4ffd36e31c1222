// Package factory wires configuration to concrete platform adapters.
package factory

import (
	"context"
	"fmt"

	"github.com/platelog/platelog-backend/internal/config"
	"github.com/platelog/platelog-backend/internal/docstore"
	"github.com/platelog/platelog-backend/internal/docstore/firestore"
	"github.com/platelog/platelog-backend/internal/docstore/memstore"
	"github.com/platelog/platelog-backend/internal/docstore/postgres"
	"github.com/platelog/platelog-backend/internal/docstore/sqlite"
)

// NewDocStore selects the document store adapter based on cfg.StoreDriver.
func NewDocStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.StoreDriver {
	case "firestore":
		if cfg.FirestoreProjectID == "" {
			return nil, fmt.Errorf("FIRESTORE_PROJECT_ID is required when STORE_DRIVER is firestore")
		}
		var opts []firestore.Option
		if cfg.FirestoreBaseURL != "" {
			opts = append(opts, firestore.WithBaseURL(cfg.FirestoreBaseURL))
		}
		return firestore.New(cfg.FirestoreProjectID, opts...), nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("POSTGRES_DSN is required when STORE_DRIVER is postgres")
		}
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		return postgres.NewWithDB(db), nil
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		return sqlite.NewWithDB(db), nil
	case "memory":
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER: %s", cfg.StoreDriver)
	}
}
