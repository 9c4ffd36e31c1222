// Package storetest holds a compliance suite every docstore driver must
// pass. Drivers provide a clean, isolated store from makeStore.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/platelog/platelog-backend/internal/docstore"
	"github.com/platelog/platelog-backend/internal/model"
)

const bearer = "storetest-token"

// Run exercises the docstore.Store contract against one driver.
func Run(t *testing.T, makeStore func(t *testing.T) docstore.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	collection := "docs-" + uuid.New().String()

	// Missing document reads as model.ErrNotFound.
	if _, err := s.GetDocument(ctx, bearer, collection, "nope"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("get missing: want ErrNotFound, got %v", err)
	}

	// A masked patch creates the document.
	now := time.Date(2026, 2, 14, 8, 30, 0, 0, time.UTC)
	fields := docstore.Fields{
		"userId":    docstore.String("u1"),
		"count":     docstore.Integer(3),
		"flag":      docstore.Bool(true),
		"updatedAt": docstore.Timestamp(now),
		"tags":      docstore.Strings([]string{"a", "b"}),
	}
	mask := []string{"userId", "count", "flag", "updatedAt", "tags"}
	if err := s.PatchDocument(ctx, bearer, collection, "d1", fields, mask); err != nil {
		t.Fatalf("patch create: %v", err)
	}

	got, err := s.GetDocument(ctx, bearer, collection, "d1")
	if err != nil {
		t.Fatalf("get after create: %v", err)
	}
	if v, ok := got["userId"].AsString(); !ok || v != "u1" {
		t.Fatalf("userId: got %v ok=%v", v, ok)
	}
	if n, ok := got["count"].AsInt(); !ok || n != 3 {
		t.Fatalf("count: got %d ok=%v", n, ok)
	}
	if b, ok := got["flag"].AsBool(); !ok || !b {
		t.Fatalf("flag: got %v ok=%v", b, ok)
	}
	if ts, ok := got["updatedAt"].AsTime(); !ok || !ts.Equal(now) {
		t.Fatalf("updatedAt: got %v ok=%v", ts, ok)
	}
	if tags, ok := got["tags"].AsStrings(); !ok || len(tags) != 2 || tags[0] != "a" {
		t.Fatalf("tags: got %v ok=%v", tags, ok)
	}

	// A patch touches only the masked fields, even when the body names more.
	patch := docstore.Fields{
		"count":  docstore.Integer(4),
		"userId": docstore.String("intruder"),
	}
	if err := s.PatchDocument(ctx, bearer, collection, "d1", patch, []string{"count"}); err != nil {
		t.Fatalf("masked patch: %v", err)
	}
	got, err = s.GetDocument(ctx, bearer, collection, "d1")
	if err != nil {
		t.Fatalf("get after masked patch: %v", err)
	}
	if n, _ := got["count"].AsInt(); n != 4 {
		t.Fatalf("count after masked patch: got %d want 4", n)
	}
	if v, _ := got["userId"].AsString(); v != "u1" {
		t.Fatalf("userId leaked through mask: got %q", v)
	}

	// Changing a field's value type replaces the union cleanly.
	if err := s.PatchDocument(ctx, bearer, collection, "d1", docstore.Fields{"count": docstore.String("reset")}, []string{"count"}); err != nil {
		t.Fatalf("type-change patch: %v", err)
	}
	got, err = s.GetDocument(ctx, bearer, collection, "d1")
	if err != nil {
		t.Fatalf("get after type change: %v", err)
	}
	if v, ok := got["count"].AsString(); !ok || v != "reset" {
		t.Fatalf("count after type change: got %v ok=%v", v, ok)
	}
	if _, ok := got["count"].AsInt(); ok {
		t.Fatalf("count kept stale integer member after type change")
	}

	// Re-applying the same patch is a no-op.
	if err := s.PatchDocument(ctx, bearer, collection, "d1", docstore.Fields{"count": docstore.String("reset")}, []string{"count"}); err != nil {
		t.Fatalf("idempotent re-patch: %v", err)
	}

	// Delete is idempotent.
	if err := s.DeleteDocument(ctx, bearer, collection, "d1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetDocument(ctx, bearer, collection, "d1"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("get after delete: want ErrNotFound, got %v", err)
	}
	if err := s.DeleteDocument(ctx, bearer, collection, "d1"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}
