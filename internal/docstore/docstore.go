// Package docstore defines the authenticated document-store capability both
// core services run against: per-document reads, field-masked upserts, and
// deletes, all on behalf of a bearer token. Drivers live under
// internal/docstore/<driver>/ (firestore, postgres, sqlite, memstore).
package docstore

import (
	"context"
	"fmt"
)

// Fields is a document body keyed by top-level field name.
type Fields map[string]Value

// Store exposes the persistence operations required by services. The bearer
// token identifies the end user to the store; drivers that enforce their own
// security rules (Firestore) forward it verbatim, embedded drivers ignore it
// because the service process is already trusted.
type Store interface {
	// GetDocument returns the document's fields, or an error wrapping
	// model.ErrNotFound when no document exists.
	GetDocument(ctx context.Context, bearer, collection, id string) (Fields, error)

	// PatchDocument writes exactly the fields named in mask, creating the
	// document if it does not exist. Fields outside the mask are untouched.
	PatchDocument(ctx context.Context, bearer, collection, id string, fields Fields, mask []string) error

	// DeleteDocument removes the document. Deleting a missing document is
	// not an error.
	DeleteDocument(ctx context.Context, bearer, collection, id string) error
}

// StatusError reports a non-success response from the backing store. The
// body snippet is kept short; it exists for diagnostics, not parsing.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: store returned status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: store returned status %d: %s", e.Op, e.Code, e.Body)
}

const snippetLimit = 256

// Snippet trims a response body down to something loggable.
func Snippet(body []byte) string {
	if len(body) > snippetLimit {
		return string(body[:snippetLimit]) + "…"
	}
	return string(body)
}

// Masked returns the subset of fields named in mask. Drivers use it so a
// patch can never smuggle unmasked fields into the stored document.
func Masked(fields Fields, mask []string) Fields {
	out := make(Fields, len(mask))
	for _, path := range mask {
		if v, ok := fields[path]; ok {
			out[path] = v
		}
	}
	return out
}
