package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platelog/platelog-backend/internal/auth"
	"github.com/platelog/platelog-backend/internal/config"
	"github.com/platelog/platelog-backend/internal/docstore/memstore"
	"github.com/platelog/platelog-backend/internal/model"
	"github.com/platelog/platelog-backend/internal/services"
)

// stubAnalyzer returns a canned assessment without calling any AI backend.
type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, e *model.DiaryEntry) (*model.MealAnalysis, error) {
	return &model.MealAnalysis{
		Summary:   "balanced meal",
		Model:     "stub",
		CreatedAt: time.Now().UTC(),
	}, nil
}

func newTestServer(t *testing.T, cfg *config.Config) (*httptest.Server, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	srv := httptest.NewServer(NewRouter(cfg, store, stubAnalyzer{}))
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func guestToken(id string) string { return "tok_local_platelog_guest:" + id }

func TestHealthEndpointIsPublic(t *testing.T) {
	srv, _ := newTestServer(t, config.NewForTesting())

	resp, err := http.Get(srv.URL + "/v0/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestEntriesRequireAuth(t *testing.T) {
	srv, _ := newTestServer(t, config.NewForTesting())

	resp := doJSON(t, "POST", srv.URL+"/v0/entries", "", map[string]string{"content": "toast"})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp2 := doJSON(t, "POST", srv.URL+"/v0/entries", "not-a-known-token", map[string]string{"content": "toast"})
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestEntryLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, config.NewForTesting())

	create := doJSON(t, "POST", srv.URL+"/v0/entries", auth.LocalDevToken, map[string]interface{}{
		"entryType": "meal",
		"content":   "lentil soup with bread",
		"feeling":   "satisfied",
		"location":  "home",
		"company":   "family",
		"behaviors": []string{"ate slowly"},
		"date":      "2026-08-29",
		"time":      "12:30",
	})
	require.Equal(t, http.StatusCreated, create.StatusCode)
	var entry model.DiaryEntry
	decode(t, create, &entry)
	require.NotEmpty(t, entry.EntryID)
	assert.Equal(t, "platelog-dev", entry.UserID)

	entryURL := fmt.Sprintf("%s/v0/entries/%s", srv.URL, entry.EntryID)

	got := doJSON(t, "GET", entryURL, auth.LocalDevToken, nil)
	require.Equal(t, http.StatusOK, got.StatusCode)
	var fetched model.DiaryEntry
	decode(t, got, &fetched)
	assert.Equal(t, entry.Content, fetched.Content)
	assert.False(t, fetched.Bookmarked)

	// Another caller must not see the entry.
	other := doJSON(t, "GET", entryURL, guestToken("stranger"), nil)
	defer func() { _ = other.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, other.StatusCode)

	mark := doJSON(t, "PATCH", entryURL+"/bookmark", auth.LocalDevToken, map[string]bool{"bookmarked": true})
	defer func() { _ = mark.Body.Close() }()
	require.Equal(t, http.StatusNoContent, mark.StatusCode)

	got2 := doJSON(t, "GET", entryURL, auth.LocalDevToken, nil)
	var marked model.DiaryEntry
	decode(t, got2, &marked)
	assert.True(t, marked.Bookmarked)

	del := doJSON(t, "DELETE", entryURL, auth.LocalDevToken, nil)
	defer func() { _ = del.Body.Close() }()
	require.Equal(t, http.StatusNoContent, del.StatusCode)

	gone := doJSON(t, "GET", entryURL, auth.LocalDevToken, nil)
	defer func() { _ = gone.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, gone.StatusCode)
}

func TestCreateEntryRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t, config.NewForTesting())

	resp := doJSON(t, "POST", srv.URL+"/v0/entries", auth.LocalDevToken, map[string]interface{}{
		"content": "pasta",
		"date":    "29/08/2026",
	})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQuotaStatusFreshUser(t *testing.T) {
	srv, _ := newTestServer(t, config.NewForTesting())

	resp := doJSON(t, "GET", srv.URL+"/v0/analysis/quota", auth.LocalDevToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var st model.QuotaStatus
	decode(t, resp, &st)
	assert.True(t, st.Allowed)
	assert.Equal(t, 10, st.Limit)
	assert.Equal(t, 10, st.Remaining)
}

func TestAnalyzeEntryConsumesQuota(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.DailyAnalysisLimit = 1
	srv, _ := newTestServer(t, cfg)

	create := doJSON(t, "POST", srv.URL+"/v0/entries", auth.LocalDevToken, map[string]interface{}{
		"content": "double cheeseburger",
		"date":    "2026-08-29",
	})
	require.Equal(t, http.StatusCreated, create.StatusCode)
	var entry model.DiaryEntry
	decode(t, create, &entry)

	analyzeURL := fmt.Sprintf("%s/v0/entries/%s/analysis", srv.URL, entry.EntryID)

	first := doJSON(t, "POST", analyzeURL, auth.LocalDevToken, nil)
	require.Equal(t, http.StatusOK, first.StatusCode)
	var analysis model.MealAnalysis
	decode(t, first, &analysis)
	assert.Equal(t, "balanced meal", analysis.Summary)
	assert.Equal(t, entry.EntryID, analysis.EntryID)
	assert.Equal(t, 0, analysis.Remaining)

	second := doJSON(t, "POST", analyzeURL, auth.LocalDevToken, nil)
	defer func() { _ = second.Body.Close() }()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}

func TestAnalyzeMissingEntry(t *testing.T) {
	srv, _ := newTestServer(t, config.NewForTesting())

	resp := doJSON(t, "POST", srv.URL+"/v0/entries/nope/analysis", auth.LocalDevToken, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAccountMerge(t *testing.T) {
	cfg := config.NewForTesting()
	srv, store := newTestServer(t, cfg)

	// Entries created while the caller was still a guest.
	diary := services.NewDiaryService(store, cfg.MergeConcurrency)
	var ids []string
	for i := 0; i < 3; i++ {
		e, err := diary.CreateEntry(context.Background(), guestToken("guest-7"), &model.DiaryEntry{
			UserID:  "guest-7",
			Content: fmt.Sprintf("guest meal %d", i),
			Date:    "2026-08-28",
		})
		require.NoError(t, err)
		ids = append(ids, e.EntryID)
	}

	resp := doJSON(t, "POST", srv.URL+"/v0/account/merge", auth.LocalDevToken, map[string]interface{}{
		"guestUserId": "guest-7",
		"entryIds":    ids,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Success     bool `json:"success"`
		MergedCount int  `json:"mergedCount"`
	}
	decode(t, resp, &out)
	assert.True(t, out.Success)
	assert.Equal(t, 3, out.MergedCount)

	for _, id := range ids {
		e, err := diary.GetEntry(context.Background(), auth.LocalDevToken, id)
		require.NoError(t, err)
		assert.Equal(t, "platelog-dev", e.UserID)
	}
}

func TestAccountMergeRejectsGuests(t *testing.T) {
	srv, _ := newTestServer(t, config.NewForTesting())

	resp := doJSON(t, "POST", srv.URL+"/v0/account/merge", guestToken("guest-1"), map[string]interface{}{
		"guestUserId": "guest-2",
		"entryIds":    []string{"e1"},
	})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAccountMergeValidation(t *testing.T) {
	srv, _ := newTestServer(t, config.NewForTesting())

	resp := doJSON(t, "POST", srv.URL+"/v0/account/merge", auth.LocalDevToken, map[string]interface{}{
		"entryIds": []string{"e1"},
	})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAccountWipe(t *testing.T) {
	cfg := config.NewForTesting()
	srv, store := newTestServer(t, cfg)

	diary := services.NewDiaryService(store, cfg.MergeConcurrency)
	var ids []string
	for i := 0; i < 2; i++ {
		e, err := diary.CreateEntry(context.Background(), auth.LocalDevToken, &model.DiaryEntry{
			UserID:  "platelog-dev",
			Content: fmt.Sprintf("meal %d", i),
			Date:    "2026-08-29",
		})
		require.NoError(t, err)
		ids = append(ids, e.EntryID)
	}

	resp := doJSON(t, "POST", srv.URL+"/v0/account/wipe", auth.LocalDevToken, map[string]interface{}{
		"entryIds": ids,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		DeletedCount int `json:"deletedCount"`
	}
	decode(t, resp, &out)
	assert.Equal(t, 2, out.DeletedCount)
	assert.Equal(t, 0, store.Len())
}

func TestMetricsEndpointIsPublic(t *testing.T) {
	srv, _ := newTestServer(t, config.NewForTesting())

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
