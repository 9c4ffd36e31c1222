// Package postgres implements docstore.Store on a single jsonb documents
// table, for self-hosted deployments that replace Firestore. Field-masked
// patches rely on jsonb || replacing top-level keys wholesale, which matches
// the mask semantics exactly.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/platelog/platelog-backend/internal/docstore"
	"github.com/platelog/platelog-backend/internal/model"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the documents table when it is missing. Deployments
// with managed migrations can skip this.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS documents (
            collection  TEXT NOT NULL,
            doc_id      TEXT NOT NULL,
            fields      JSONB NOT NULL DEFAULT '{}'::jsonb,
            update_time TIMESTAMPTZ NOT NULL DEFAULT now(),
            PRIMARY KEY (collection, doc_id)
        )
    `)
	return err
}

// NewWithDB constructs a Postgres-backed store on an open connection.
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

type Store struct{ db *sql.DB }

func (s *Store) GetDocument(ctx context.Context, bearer, collection, id string) (docstore.Fields, error) {
	var raw []byte
	row := s.db.QueryRowContext(ctx, `
        SELECT fields FROM documents WHERE collection=$1 AND doc_id=$2
    `, collection, id)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get %s/%s: %w", collection, id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	var fields docstore.Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("get %s/%s: decode: %w", collection, id, err)
	}
	return fields, nil
}

func (s *Store) PatchDocument(ctx context.Context, bearer, collection, id string, fields docstore.Fields, mask []string) error {
	raw, err := json.Marshal(docstore.Masked(fields, mask))
	if err != nil {
		return fmt.Errorf("patch %s/%s: encode: %w", collection, id, err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO documents (collection, doc_id, fields)
        VALUES ($1, $2, $3)
        ON CONFLICT (collection, doc_id)
        DO UPDATE SET fields = documents.fields || EXCLUDED.fields,
                      update_time = now()
    `, collection, id, raw)
	if err != nil {
		return fmt.Errorf("patch %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, bearer, collection, id string) error {
	if _, err := s.db.ExecContext(ctx, `
        DELETE FROM documents WHERE collection=$1 AND doc_id=$2
    `, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// HealthPing reports basic connectivity.
func (s *Store) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var _ docstore.Store = (*Store)(nil)
