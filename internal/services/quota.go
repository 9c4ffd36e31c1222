package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/platelog/platelog-backend/internal/docstore"
	"github.com/platelog/platelog-backend/internal/metrics"
	"github.com/platelog/platelog-backend/internal/model"
)

// QuotaService enforces the rolling daily cap on AI analyses. The quota
// document is keyed by user id; its count only applies while its date is
// "today" (UTC), so a stale date reads as zero and the first write of a new
// day overwrites the counter.
//
// The store offers no transaction or conditional write over this interface,
// so Check and Increment are separate round trips. Concurrent requests for
// one user can therefore exceed the limit by at most in-flight-requests
// minus one; that soft cap is accepted, not worked around here.
type QuotaService struct {
	store docstore.Store
	limit int
	now   func() time.Time
}

func NewQuotaService(store docstore.Store, limit int) *QuotaService {
	return newQuotaService(store, limit, time.Now)
}

// NewQuotaServiceWithClock fixes the clock; tests use it to cross day
// boundaries.
func NewQuotaServiceWithClock(store docstore.Store, limit int, now func() time.Time) *QuotaService {
	return newQuotaService(store, limit, now)
}

func newQuotaService(store docstore.Store, limit int, now func() time.Time) *QuotaService {
	if limit <= 0 {
		limit = DefaultDailyAnalysisLimit
	}
	return &QuotaService{store: store, limit: limit, now: now}
}

// Limit reports the configured daily cap.
func (s *QuotaService) Limit() int { return s.limit }

func (s *QuotaService) today() string {
	return s.now().UTC().Format("2006-01-02")
}

// Check reads the user's quota document and reports whether another
// analysis is allowed today and how many remain.
func (s *QuotaService) Check(ctx context.Context, bearer, userID string) (*model.QuotaStatus, error) {
	if userID == "" {
		return nil, fmt.Errorf("check quota: user id is required: %w", model.ErrValidation)
	}
	count, err := s.countToday(ctx, bearer, userID)
	if err != nil {
		return nil, err
	}

	remaining := s.limit - count
	if remaining < 0 {
		remaining = 0
	}
	st := &model.QuotaStatus{Allowed: count < s.limit, Remaining: remaining, Limit: s.limit}
	if st.Allowed {
		metrics.QuotaDecisions.WithLabelValues("allowed").Inc()
	} else {
		metrics.QuotaDecisions.WithLabelValues("denied").Inc()
	}
	return st, nil
}

// Increment records one analysis. It re-reads the document so each call is
// consistent with the store at call time rather than with an earlier Check,
// then upserts userId, date, count and lastAnalysisAt under a field mask.
// Callers must Check first; Increment does not enforce the cap.
func (s *QuotaService) Increment(ctx context.Context, bearer, userID string) error {
	if userID == "" {
		return fmt.Errorf("increment quota: user id is required: %w", model.ErrValidation)
	}
	count, err := s.countToday(ctx, bearer, userID)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	fields := docstore.Fields{
		"userId":         docstore.String(userID),
		"date":           docstore.String(s.today()),
		"count":          docstore.Integer(int64(count + 1)),
		"lastAnalysisAt": docstore.Timestamp(now),
	}
	mask := []string{"userId", "date", "count", "lastAnalysisAt"}
	if err := s.store.PatchDocument(ctx, bearer, quotaCollection, userID, fields, mask); err != nil {
		return fmt.Errorf("increment quota for %s: %w", userID, err)
	}
	return nil
}

// countToday resolves the effective count for the current UTC date. A
// missing document and a stale date both mean zero; a stale date must never
// read as an exhausted quota.
func (s *QuotaService) countToday(ctx context.Context, bearer, userID string) (int, error) {
	fields, err := s.store.GetDocument(ctx, bearer, quotaCollection, userID)
	if errors.Is(err, model.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read quota for %s: %w", userID, err)
	}

	if date, ok := fields["date"].AsString(); !ok || date != s.today() {
		return 0, nil
	}
	n, ok := fields["count"].AsInt()
	if !ok {
		return 0, nil
	}
	return int(n), nil
}
