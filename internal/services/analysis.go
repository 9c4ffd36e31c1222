package services

import (
	"context"
	"fmt"

	"github.com/platelog/platelog-backend/internal/metrics"
	"github.com/platelog/platelog-backend/internal/model"
)

// Analyzer produces an AI assessment of a single diary entry. The OpenAI
// implementation lives in internal/analysis; tests substitute their own.
type Analyzer interface {
	Analyze(ctx context.Context, entry *model.DiaryEntry) (*model.MealAnalysis, error)
}

// AnalysisService runs the quota-gated analysis flow: check, analyze,
// increment. A failed analysis never consumes quota; an analysis that
// succeeded but whose usage write failed is reported as an error, because
// silently skipping the increment would leak free analyses.
type AnalysisService struct {
	diary    *DiaryService
	quota    *QuotaService
	analyzer Analyzer
}

func NewAnalysisService(diary *DiaryService, quota *QuotaService, analyzer Analyzer) *AnalysisService {
	return &AnalysisService{diary: diary, quota: quota, analyzer: analyzer}
}

// AnalyzeEntry analyzes one of the user's entries, enforcing the daily cap.
// Returns model.ErrQuotaExceeded (wrapped) when the user is out of quota.
func (s *AnalysisService) AnalyzeEntry(ctx context.Context, bearer, userID, entryID string) (*model.MealAnalysis, error) {
	st, err := s.quota.Check(ctx, bearer, userID)
	if err != nil {
		return nil, err
	}
	if !st.Allowed {
		return nil, fmt.Errorf("analyze entry %s: %w", entryID, model.ErrQuotaExceeded)
	}

	entry, err := s.diary.GetEntry(ctx, bearer, entryID)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(ctx, entry)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("analyze entry %s: %w", entryID, err)
	}

	if err := s.quota.Increment(ctx, bearer, userID); err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.AnalysesTotal.WithLabelValues("ok").Inc()

	result.EntryID = entryID
	result.Remaining = st.Remaining - 1
	if result.Remaining < 0 {
		result.Remaining = 0
	}
	return result, nil
}
