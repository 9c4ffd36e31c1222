package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type entryRequest struct {
	EntryType string   `json:"entryType,omitempty"`
	Content   string   `json:"content"`
	Feeling   string   `json:"feeling,omitempty"`
	Location  string   `json:"location,omitempty"`
	Company   string   `json:"company,omitempty"`
	Behaviors []string `json:"behaviors,omitempty"`
	Date      string   `json:"date"`
	Time      string   `json:"time,omitempty"`
}

func doRequest(method, url, token string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return http.DefaultClient.Do(req)
}

func expect(resp *http.Response, want int, out io.Writer) error {
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != want {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	if out != nil {
		_, _ = io.Copy(out, resp.Body)
	}
	return nil
}

func runEntryAdd(api, token string, req entryRequest, out io.Writer) error {
	resp, err := doRequest(http.MethodPost, api+"/v0/entries", token, req)
	if err != nil {
		return err
	}
	return expect(resp, http.StatusCreated, out)
}

func runEntryGet(api, token, entryID string, out io.Writer) error {
	resp, err := doRequest(http.MethodGet, api+"/v0/entries/"+entryID, token, nil)
	if err != nil {
		return err
	}
	return expect(resp, http.StatusOK, out)
}

func runEntryDelete(api, token, entryID string) error {
	resp, err := doRequest(http.MethodDelete, api+"/v0/entries/"+entryID, token, nil)
	if err != nil {
		return err
	}
	return expect(resp, http.StatusNoContent, nil)
}

func runEntryBookmark(api, token, entryID string, on bool) error {
	resp, err := doRequest(http.MethodPatch, api+"/v0/entries/"+entryID+"/bookmark", token,
		map[string]bool{"bookmarked": on})
	if err != nil {
		return err
	}
	return expect(resp, http.StatusNoContent, nil)
}

func runAnalyze(api, token, entryID string, out io.Writer) error {
	resp, err := doRequest(http.MethodPost, api+"/v0/entries/"+entryID+"/analysis", token, nil)
	if err != nil {
		return err
	}
	return expect(resp, http.StatusOK, out)
}

func runQuota(api, token string, out io.Writer) error {
	resp, err := doRequest(http.MethodGet, api+"/v0/analysis/quota", token, nil)
	if err != nil {
		return err
	}
	return expect(resp, http.StatusOK, out)
}

func runMerge(api, token, guestUserID string, entryIDs []string, out io.Writer) error {
	resp, err := doRequest(http.MethodPost, api+"/v0/account/merge", token, map[string]interface{}{
		"guestUserId": guestUserID,
		"entryIds":    entryIDs,
	})
	if err != nil {
		return err
	}
	return expect(resp, http.StatusOK, out)
}

func runWipe(api, token string, entryIDs []string, out io.Writer) error {
	resp, err := doRequest(http.MethodPost, api+"/v0/account/wipe", token, map[string]interface{}{
		"entryIds": entryIDs,
	})
	if err != nil {
		return err
	}
	return expect(resp, http.StatusOK, out)
}
