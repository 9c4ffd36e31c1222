// Package sqlite implements docstore.Store on a local SQLite file via the
// CGO-free modernc driver. Intended for dev mode and single-node installs.
// Masked patches are a read-merge-write inside one transaction: SQLite's
// json_patch merges nested objects, which would corrupt the tagged-union
// value encoding, so merging happens in Go at the top level only.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/platelog/platelog-backend/internal/docstore"
	"github.com/platelog/platelog-backend/internal/model"
)

// Open opens (and creates, if needed) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Concurrent writers otherwise trip SQLITE_BUSY immediately.
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the documents table when it is missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS documents (
            collection  TEXT NOT NULL,
            doc_id      TEXT NOT NULL,
            fields      TEXT NOT NULL DEFAULT '{}',
            update_time TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
            PRIMARY KEY (collection, doc_id)
        )
    `)
	return err
}

// NewWithDB constructs a SQLite-backed store on an open connection.
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

type Store struct{ db *sql.DB }

func (s *Store) GetDocument(ctx context.Context, bearer, collection, id string) (docstore.Fields, error) {
	var raw []byte
	row := s.db.QueryRowContext(ctx, `
        SELECT fields FROM documents WHERE collection=? AND doc_id=?
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
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("patch %s/%s: %w", collection, id, err)
	}
	defer func() { _ = tx.Rollback() }()

	doc := docstore.Fields{}
	var raw []byte
	row := tx.QueryRowContext(ctx, `
        SELECT fields FROM documents WHERE collection=? AND doc_id=?
    `, collection, id)
	switch err := row.Scan(&raw); {
	case errors.Is(err, sql.ErrNoRows):
		// first write creates the document
	case err != nil:
		return fmt.Errorf("patch %s/%s: %w", collection, id, err)
	default:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("patch %s/%s: decode: %w", collection, id, err)
		}
	}

	for name, v := range docstore.Masked(fields, mask) {
		doc[name] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("patch %s/%s: encode: %w", collection, id, err)
	}

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO documents (collection, doc_id, fields)
        VALUES (?, ?, ?)
        ON CONFLICT (collection, doc_id)
        DO UPDATE SET fields = excluded.fields,
                      update_time = strftime('%Y-%m-%dT%H:%M:%fZ','now')
    `, collection, id, merged); err != nil {
		return fmt.Errorf("patch %s/%s: %w", collection, id, err)
	}
	return tx.Commit()
}

func (s *Store) DeleteDocument(ctx context.Context, bearer, collection, id string) error {
	if _, err := s.db.ExecContext(ctx, `
        DELETE FROM documents WHERE collection=? AND doc_id=?
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
