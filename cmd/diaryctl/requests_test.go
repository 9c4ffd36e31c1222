package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRunMerge_SendsBearerAndBody(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/account/merge" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		_, _ = w.Write([]byte(`{"success":true,"mergedCount":2}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	if err := runMerge(srv.URL, "tok-1", "guest-9", []string{"e1", "e2"}, &out); err != nil {
		t.Fatalf("runMerge: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("bad auth header: %q", gotAuth)
	}
	if gotBody["guestUserId"] != "guest-9" {
		t.Fatalf("bad body: %v", gotBody)
	}
	if !strings.Contains(out.String(), `"mergedCount":2`) {
		t.Fatalf("response not echoed: %s", out.String())
	}
}

func TestRunQuota_SurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := runQuota(srv.URL, "bad-token", io.Discard)
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestSplitIDs(t *testing.T) {
	got := splitIDs(" e1, e2 ,,e3 ")
	if len(got) != 3 || got[0] != "e1" || got[2] != "e3" {
		t.Fatalf("unexpected split: %v", got)
	}
	if splitIDs("") != nil {
		t.Fatal("empty input should yield nil")
	}
}
