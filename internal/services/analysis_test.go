package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platelog/platelog-backend/internal/docstore/memstore"
	"github.com/platelog/platelog-backend/internal/model"
)

type stubAnalyzer struct {
	calls int
	err   error
}

func (a *stubAnalyzer) Analyze(ctx context.Context, entry *model.DiaryEntry) (*model.MealAnalysis, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return &model.MealAnalysis{Summary: "balanced enough", Model: "stub", CreatedAt: time.Now().UTC()}, nil
}

func newAnalysisFixture(t *testing.T, analyzer Analyzer) (*AnalysisService, *QuotaService, string) {
	t.Helper()
	store := memstore.New()
	diary := NewDiaryService(store, 2)
	quota := NewQuotaServiceWithClock(store, 2, fixedClock(quotaDay))

	created, err := diary.CreateEntry(context.Background(), "tok", &model.DiaryEntry{
		UserID: "u1", Content: "samgyeopsal", Date: "2026-08-29",
	})
	require.NoError(t, err)
	return NewAnalysisService(diary, quota, analyzer), quota, created.EntryID
}

func TestAnalyzeEntry_ConsumesQuota(t *testing.T) {
	t.Parallel()

	analyzer := &stubAnalyzer{}
	svc, quota, entryID := newAnalysisFixture(t, analyzer)
	ctx := context.Background()

	res, err := svc.AnalyzeEntry(ctx, "tok", "u1", entryID)
	require.NoError(t, err)
	assert.Equal(t, entryID, res.EntryID)
	assert.Equal(t, "balanced enough", res.Summary)
	assert.Equal(t, 1, res.Remaining)

	st, err := quota.Check(ctx, "tok", "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Remaining)
}

func TestAnalyzeEntry_DeniedWhenExhausted(t *testing.T) {
	t.Parallel()

	analyzer := &stubAnalyzer{}
	svc, quota, entryID := newAnalysisFixture(t, analyzer)
	ctx := context.Background()

	require.NoError(t, quota.Increment(ctx, "tok", "u1"))
	require.NoError(t, quota.Increment(ctx, "tok", "u1"))

	_, err := svc.AnalyzeEntry(ctx, "tok", "u1", entryID)
	assert.True(t, errors.Is(err, model.ErrQuotaExceeded), "got %v", err)
	assert.Equal(t, 0, analyzer.calls, "denied request must not reach the analyzer")
}

func TestAnalyzeEntry_FailedAnalysisDoesNotConsumeQuota(t *testing.T) {
	t.Parallel()

	analyzer := &stubAnalyzer{err: errors.New("model unavailable")}
	svc, quota, entryID := newAnalysisFixture(t, analyzer)
	ctx := context.Background()

	_, err := svc.AnalyzeEntry(ctx, "tok", "u1", entryID)
	require.Error(t, err)

	st, err := quota.Check(ctx, "tok", "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Remaining, "failed analysis must not burn quota")
}

func TestAnalyzeEntry_MissingEntry(t *testing.T) {
	t.Parallel()

	analyzer := &stubAnalyzer{}
	svc, _, _ := newAnalysisFixture(t, analyzer)

	_, err := svc.AnalyzeEntry(context.Background(), "tok", "u1", "ghost")
	assert.True(t, errors.Is(err, model.ErrNotFound), "got %v", err)
	assert.Equal(t, 0, analyzer.calls)
}
