// Package firestore implements docstore.Store against the Firestore REST
// API. Every call runs with the end user's bearer token so Firestore's own
// security rules stay the authorization point; this driver makes no access
// decisions of its own.
package firestore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/platelog/platelog-backend/internal/docstore"
	"github.com/platelog/platelog-backend/internal/model"
)

const defaultBaseURL = "https://firestore.googleapis.com/v1"

// Store talks to one Firestore database over REST.
type Store struct {
	client   *resty.Client
	docsRoot string // projects/<p>/databases/(default)/documents
}

// Option adjusts the client, mainly for tests and the emulator.
type Option func(*Store)

// WithBaseURL points the driver at an emulator or a test server.
func WithBaseURL(base string) Option {
	return func(s *Store) { s.client.SetBaseURL(base) }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Store) {
		base := s.client.BaseURL
		s.client = resty.NewWithClient(hc).SetBaseURL(base)
	}
}

// New creates a driver for the given GCP project's default database.
func New(projectID string, opts ...Option) *Store {
	c := resty.New().
		SetBaseURL(defaultBaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)

	s := &Store{
		client:   c,
		docsRoot: fmt.Sprintf("projects/%s/databases/(default)/documents", projectID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// document is the REST resource shape; only fields matter here.
type document struct {
	Name   string          `json:"name,omitempty"`
	Fields docstore.Fields `json:"fields,omitempty"`
}

func (s *Store) docPath(collection, id string) string {
	return fmt.Sprintf("/%s/%s/%s", s.docsRoot, url.PathEscape(collection), url.PathEscape(id))
}

// GetDocument fetches a single document. A 404 maps to model.ErrNotFound;
// every other non-200 is a hard StatusError — the caller decides whether a
// missing document is meaningful.
func (s *Store) GetDocument(ctx context.Context, bearer, collection, id string) (docstore.Fields, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(bearer).
		Get(s.docPath(collection, id))
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, model.ErrNotFound)
	default:
		return nil, &docstore.StatusError{
			Op:   fmt.Sprintf("get %s/%s", collection, id),
			Code: resp.StatusCode(),
			Body: docstore.Snippet(resp.Body()),
		}
	}

	var doc document
	if err := json.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, fmt.Errorf("get %s/%s: decode: %w", collection, id, err)
	}
	if doc.Fields == nil {
		doc.Fields = docstore.Fields{}
	}
	return doc.Fields, nil
}

// PatchDocument upserts the masked fields via updateMask.fieldPaths. The
// mask limits the write server-side, so the request can never touch a field
// it does not name.
func (s *Store) PatchDocument(ctx context.Context, bearer, collection, id string, fields docstore.Fields, mask []string) error {
	params := url.Values{}
	for _, path := range mask {
		params.Add("updateMask.fieldPaths", path)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(bearer).
		SetQueryParamsFromValues(params).
		SetBody(document{Fields: docstore.Masked(fields, mask)}).
		Patch(s.docPath(collection, id))
	if err != nil {
		return fmt.Errorf("patch %s/%s: %w", collection, id, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return &docstore.StatusError{
			Op:   fmt.Sprintf("patch %s/%s", collection, id),
			Code: resp.StatusCode(),
			Body: docstore.Snippet(resp.Body()),
		}
	}
	return nil
}

// DeleteDocument removes a document. Firestore treats deleting a missing
// document as success, which matches the Store contract.
func (s *Store) DeleteDocument(ctx context.Context, bearer, collection, id string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(bearer).
		Delete(s.docPath(collection, id))
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return &docstore.StatusError{
			Op:   fmt.Sprintf("delete %s/%s", collection, id),
			Code: resp.StatusCode(),
			Body: docstore.Snippet(resp.Body()),
		}
	}
	return nil
}

var _ docstore.Store = (*Store)(nil)
