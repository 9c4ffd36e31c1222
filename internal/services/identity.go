package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/platelog/platelog-backend/internal/docstore"
	"github.com/platelog/platelog-backend/internal/metrics"
	"github.com/platelog/platelog-backend/internal/model"
)

// IdentityService reassigns ownership of diary entries when a guest upgrades
// to a permanent account.
//
// The entry id list must be captured while still signed in as the guest: the
// store's rules give the new identity no read access to the guest's entries,
// only a write grant conditioned on setting userId to its own id. This
// service therefore never reads entry content; it drives the batch of
// single-field ownership patches and aggregates the outcome.
type IdentityService struct {
	store       docstore.Store
	concurrency int
}

func NewIdentityService(store docstore.Store, concurrency int) *IdentityService {
	if concurrency <= 0 {
		concurrency = DefaultWriteConcurrency
	}
	return &IdentityService{store: store, concurrency: concurrency}
}

// MergeGuestEntries patches userId on each listed entry to newUserID. The
// bearer token must belong to the new identity.
//
// Degenerate input (either id empty, ids equal, or no entries) is a
// legitimate no-op and succeeds without touching the store. Any patch
// failure fails the whole merge; the result still reports how many patches
// landed and which attempted ids failed. Re-running with the same arguments
// is safe: re-setting userId to the same value is a no-op at the store.
func (s *IdentityService) MergeGuestEntries(ctx context.Context, bearer, guestUserID, newUserID string, entryIDs []string) (*model.MergeResult, error) {
	if guestUserID == "" || newUserID == "" || guestUserID == newUserID || len(entryIDs) == 0 {
		return &model.MergeResult{}, nil
	}

	var (
		merged atomic.Int64
		mu     sync.Mutex
		failed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, entryID := range entryIDs {
		entryID := entryID
		g.Go(func() error {
			fields := docstore.Fields{"userId": docstore.String(newUserID)}
			if err := s.store.PatchDocument(gctx, bearer, entriesCollection, entryID, fields, []string{"userId"}); err != nil {
				mu.Lock()
				failed = append(failed, entryID)
				mu.Unlock()
				return err
			}
			merged.Add(1)
			return nil
		})
	}
	err := g.Wait()

	sort.Strings(failed)
	res := &model.MergeResult{MergedCount: int(merged.Load()), FailedEntryIDs: failed}
	metrics.EntriesMergedTotal.Add(float64(res.MergedCount))
	if err != nil {
		metrics.MergesTotal.WithLabelValues("error").Inc()
		return res, fmt.Errorf("merge entries for %s: %d of %d reassignments failed: %w",
			newUserID, len(entryIDs)-res.MergedCount, len(entryIDs), err)
	}
	metrics.MergesTotal.WithLabelValues("ok").Inc()
	return res, nil
}
