package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/platelog/platelog-backend/internal/docstore"
	"github.com/platelog/platelog-backend/internal/model"
)

// DiaryService owns the entry lifecycle: create, read, bookmark, delete,
// and the bulk account wipe. Ownership is enforced by the store's rules via
// the caller's bearer token; this layer only shapes documents and drives
// writes.
type DiaryService struct {
	store       docstore.Store
	concurrency int
	now         func() time.Time
}

func NewDiaryService(store docstore.Store, concurrency int) *DiaryService {
	if concurrency <= 0 {
		concurrency = DefaultWriteConcurrency
	}
	return &DiaryService{store: store, concurrency: concurrency, now: time.Now}
}

// CreateEntry persists a new entry owned by e.UserID and returns it with
// the generated id and creation time filled in.
func (s *DiaryService) CreateEntry(ctx context.Context, bearer string, e *model.DiaryEntry) (*model.DiaryEntry, error) {
	if e.UserID == "" {
		return nil, fmt.Errorf("create entry: user id is required: %w", model.ErrValidation)
	}
	if e.Date == "" {
		return nil, fmt.Errorf("create entry: date is required: %w", model.ErrValidation)
	}
	if e.EntryType == "" {
		e.EntryType = model.EntryMeal
	}

	out := *e
	if out.EntryID == "" {
		out.EntryID = uuid.New().String()
	}
	out.CreatedAt = s.now().UTC()

	fields, mask := entryFields(&out)
	if err := s.store.PatchDocument(ctx, bearer, entriesCollection, out.EntryID, fields, mask); err != nil {
		return nil, fmt.Errorf("create entry %s: %w", out.EntryID, err)
	}
	return &out, nil
}

// GetEntry fetches one entry by id.
func (s *DiaryService) GetEntry(ctx context.Context, bearer, entryID string) (*model.DiaryEntry, error) {
	fields, err := s.store.GetDocument(ctx, bearer, entriesCollection, entryID)
	if err != nil {
		return nil, err
	}
	return entryFromFields(entryID, fields), nil
}

// SetBookmark flips the bookmark flag. The mask keeps the write to the flag
// and the update instant; nothing else on the entry can change.
func (s *DiaryService) SetBookmark(ctx context.Context, bearer, entryID string, bookmarked bool) error {
	fields := docstore.Fields{
		"bookmarked": docstore.Bool(bookmarked),
		"updatedAt":  docstore.Timestamp(s.now().UTC()),
	}
	if err := s.store.PatchDocument(ctx, bearer, entriesCollection, entryID, fields, []string{"bookmarked", "updatedAt"}); err != nil {
		return fmt.Errorf("bookmark entry %s: %w", entryID, err)
	}
	return nil
}

// DeleteEntry removes one entry.
func (s *DiaryService) DeleteEntry(ctx context.Context, bearer, entryID string) error {
	return s.store.DeleteDocument(ctx, bearer, entriesCollection, entryID)
}

// WipeEntries deletes the listed entries with the same bounded fan-out the
// merge uses. The caller supplies the id list for the same reason the merge
// does: enumeration happens client-side while the ids are still readable.
// Returns the number of deletes that succeeded; any failure fails the wipe
// and the caller retries with the same list (deletes are idempotent).
func (s *DiaryService) WipeEntries(ctx context.Context, bearer string, entryIDs []string) (int, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}

	var deleted atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, entryID := range entryIDs {
		entryID := entryID
		g.Go(func() error {
			if err := s.store.DeleteDocument(gctx, bearer, entriesCollection, entryID); err != nil {
				return err
			}
			deleted.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(deleted.Load()), fmt.Errorf("wipe entries: %d of %d deletes failed: %w",
			len(entryIDs)-int(deleted.Load()), len(entryIDs), err)
	}
	return int(deleted.Load()), nil
}

// entryFields encodes an entry into store fields plus the matching mask.
func entryFields(e *model.DiaryEntry) (docstore.Fields, []string) {
	fields := docstore.Fields{
		"userId":     docstore.String(e.UserID),
		"entryType":  docstore.String(string(e.EntryType)),
		"content":    docstore.String(e.Content),
		"feeling":    docstore.String(e.Feeling),
		"location":   docstore.String(string(e.Location)),
		"company":    docstore.String(string(e.Company)),
		"behaviors":  docstore.Strings(e.Behaviors),
		"bookmarked": docstore.Bool(e.Bookmarked),
		"date":       docstore.String(e.Date),
		"time":       docstore.String(e.Time),
		"createdAt":  docstore.Timestamp(e.CreatedAt),
	}
	mask := []string{
		"userId", "entryType", "content", "feeling", "location", "company",
		"behaviors", "bookmarked", "date", "time", "createdAt",
	}
	if e.UpdatedAt != nil {
		fields["updatedAt"] = docstore.Timestamp(*e.UpdatedAt)
		mask = append(mask, "updatedAt")
	}
	return fields, mask
}

func entryFromFields(entryID string, fields docstore.Fields) *model.DiaryEntry {
	e := &model.DiaryEntry{EntryID: entryID}
	if v, ok := fields["userId"].AsString(); ok {
		e.UserID = v
	}
	if v, ok := fields["entryType"].AsString(); ok {
		e.EntryType = model.EntryType(v)
	}
	if v, ok := fields["content"].AsString(); ok {
		e.Content = v
	}
	if v, ok := fields["feeling"].AsString(); ok {
		e.Feeling = v
	}
	if v, ok := fields["location"].AsString(); ok {
		e.Location = model.Location(v)
	}
	if v, ok := fields["company"].AsString(); ok {
		e.Company = model.Company(v)
	}
	if v, ok := fields["behaviors"].AsStrings(); ok {
		e.Behaviors = v
	}
	if v, ok := fields["bookmarked"].AsBool(); ok {
		e.Bookmarked = v
	}
	if v, ok := fields["date"].AsString(); ok {
		e.Date = v
	}
	if v, ok := fields["time"].AsString(); ok {
		e.Time = v
	}
	if v, ok := fields["createdAt"].AsTime(); ok {
		e.CreatedAt = v
	}
	if v, ok := fields["updatedAt"].AsTime(); ok {
		e.UpdatedAt = &v
	}
	return e
}
