// Package memstore is an in-memory docstore.Store for tests and pure-dev
// runs. It ignores bearer tokens; there are no rules to enforce in-process.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/platelog/platelog-backend/internal/docstore"
	"github.com/platelog/platelog-backend/internal/model"
)

type Store struct {
	mu   sync.RWMutex
	docs map[string]docstore.Fields
}

func New() *Store {
	return &Store{docs: make(map[string]docstore.Fields)}
}

func key(collection, id string) string { return collection + "/" + id }

func (s *Store) GetDocument(ctx context.Context, bearer, collection, id string) (docstore.Fields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key(collection, id)]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, model.ErrNotFound)
	}
	out := make(docstore.Fields, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out, nil
}

func (s *Store) PatchDocument(ctx context.Context, bearer, collection, id string, fields docstore.Fields, mask []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(collection, id)
	doc, ok := s.docs[k]
	if !ok {
		doc = make(docstore.Fields)
		s.docs[k] = doc
	}
	for name, v := range docstore.Masked(fields, mask) {
		doc[name] = v
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, bearer, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key(collection, id))
	return nil
}

// Len reports the number of stored documents; test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

var _ docstore.Store = (*Store)(nil)
