package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platelog/platelog-backend/internal/docstore"
	"github.com/platelog/platelog-backend/internal/docstore/memstore"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var quotaDay = time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

func seedQuota(t *testing.T, s docstore.Store, userID, date string, count int) {
	t.Helper()
	fields := docstore.Fields{
		"userId": docstore.String(userID),
		"date":   docstore.String(date),
		"count":  docstore.Integer(int64(count)),
	}
	err := s.PatchDocument(context.Background(), "tok", "analysisQuotas", userID, fields, []string{"userId", "date", "count"})
	require.NoError(t, err)
}

func TestQuotaCheck_FreshUserHasFullAllowance(t *testing.T) {
	t.Parallel()

	svc := NewQuotaServiceWithClock(memstore.New(), 10, fixedClock(quotaDay))
	st, err := svc.Check(context.Background(), "tok", "u1")
	require.NoError(t, err)
	assert.True(t, st.Allowed)
	assert.Equal(t, 10, st.Remaining)
	assert.Equal(t, 10, st.Limit)
}

func TestQuotaCheck_ActiveCounts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		count     int
		allowed   bool
		remaining int
	}{
		{"under limit", 3, true, 7},
		{"one left", 9, true, 1},
		{"at limit", 10, false, 0},
		{"over limit", 12, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memstore.New()
			seedQuota(t, store, "u1", "2026-08-29", tc.count)
			svc := NewQuotaServiceWithClock(store, 10, fixedClock(quotaDay))

			st, err := svc.Check(context.Background(), "tok", "u1")
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, st.Allowed)
			assert.Equal(t, tc.remaining, st.Remaining)
		})
	}
}

func TestQuotaCheck_StaleDateResets(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	// Exhausted yesterday; today must read as a full allowance.
	seedQuota(t, store, "u1", "2026-08-28", 10)
	svc := NewQuotaServiceWithClock(store, 10, fixedClock(quotaDay))

	st, err := svc.Check(context.Background(), "tok", "u1")
	require.NoError(t, err)
	assert.True(t, st.Allowed)
	assert.Equal(t, 10, st.Remaining)
}

func TestQuotaIncrement_FreshAndSameDay(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	svc := NewQuotaServiceWithClock(store, 10, fixedClock(quotaDay))
	ctx := context.Background()

	require.NoError(t, svc.Increment(ctx, "tok", "u1"))
	fields, err := store.GetDocument(ctx, "tok", "analysisQuotas", "u1")
	require.NoError(t, err)
	n, _ := fields["count"].AsInt()
	assert.EqualValues(t, 1, n)
	date, _ := fields["date"].AsString()
	assert.Equal(t, "2026-08-29", date)
	if _, ok := fields["lastAnalysisAt"].AsTime(); !ok {
		t.Fatal("lastAnalysisAt not written")
	}

	require.NoError(t, svc.Increment(ctx, "tok", "u1"))
	fields, err = store.GetDocument(ctx, "tok", "analysisQuotas", "u1")
	require.NoError(t, err)
	n, _ = fields["count"].AsInt()
	assert.EqualValues(t, 2, n)
}

func TestQuotaIncrement_StaleDateOverwrites(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	seedQuota(t, store, "u1", "2026-08-28", 10)
	svc := NewQuotaServiceWithClock(store, 10, fixedClock(quotaDay))

	require.NoError(t, svc.Increment(context.Background(), "tok", "u1"))
	fields, err := store.GetDocument(context.Background(), "tok", "analysisQuotas", "u1")
	require.NoError(t, err)
	n, _ := fields["count"].AsInt()
	assert.EqualValues(t, 1, n, "rollover overwrites, never accumulates")
	date, _ := fields["date"].AsString()
	assert.Equal(t, "2026-08-29", date)
}

func TestQuota_ExhaustionScenario(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	svc := NewQuotaServiceWithClock(store, 10, fixedClock(quotaDay))
	ctx := context.Background()

	st, err := svc.Check(ctx, "tok", "u1")
	require.NoError(t, err)
	assert.True(t, st.Allowed)
	assert.Equal(t, 10, st.Remaining)

	for i := 0; i < 10; i++ {
		require.NoError(t, svc.Increment(ctx, "tok", "u1"))
	}

	st, err = svc.Check(ctx, "tok", "u1")
	require.NoError(t, err)
	assert.False(t, st.Allowed)
	assert.Equal(t, 0, st.Remaining)

	// The next UTC day starts a fresh allowance.
	tomorrow := NewQuotaServiceWithClock(store, 10, fixedClock(quotaDay.Add(24*time.Hour)))
	st, err = tomorrow.Check(ctx, "tok", "u1")
	require.NoError(t, err)
	assert.True(t, st.Allowed)
	assert.Equal(t, 10, st.Remaining)
}

// failingStore returns a transport failure on every call.
type failingStore struct{ err error }

func (f *failingStore) GetDocument(ctx context.Context, bearer, collection, id string) (docstore.Fields, error) {
	return nil, f.err
}
func (f *failingStore) PatchDocument(ctx context.Context, bearer, collection, id string, fields docstore.Fields, mask []string) error {
	return f.err
}
func (f *failingStore) DeleteDocument(ctx context.Context, bearer, collection, id string) error {
	return f.err
}

func TestQuota_TransportErrorsPropagate(t *testing.T) {
	t.Parallel()

	boom := &docstore.StatusError{Op: "get analysisQuotas/u1", Code: 500, Body: "oops"}
	svc := NewQuotaServiceWithClock(&failingStore{err: boom}, 10, fixedClock(quotaDay))

	_, err := svc.Check(context.Background(), "tok", "u1")
	var se *docstore.StatusError
	require.True(t, errors.As(err, &se), "check must surface the transport error, got %v", err)

	err = svc.Increment(context.Background(), "tok", "u1")
	require.True(t, errors.As(err, &se), "increment must surface the transport error, got %v", err)
}

func TestQuota_EmptyUserIDRejected(t *testing.T) {
	t.Parallel()

	svc := NewQuotaServiceWithClock(memstore.New(), 10, fixedClock(quotaDay))
	if _, err := svc.Check(context.Background(), "tok", ""); err == nil {
		t.Fatal("expected validation error")
	}
	if err := svc.Increment(context.Background(), "tok", ""); err == nil {
		t.Fatal("expected validation error")
	}
}
