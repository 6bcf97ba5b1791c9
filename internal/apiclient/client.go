// Package apiclient provides the JSON-over-HTTP client for the coderacer
// services.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/verte-zerg/coderacer/internal/model"
)

var httpClient = &http.Client{Timeout: 5 * time.Second}

// PostJSON posts body as JSON and decodes the response into out when out
// is non-nil. Any status of 300 or above is an error.
func PostJSON(ctx context.Context, url string, body any, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %s: %d", url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetJSON fetches url and decodes the response into out.
func GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %s: %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Client talks to the main coderacer API.
type Client struct {
	baseURL string
}

// New constructs a Client for the given base URL.
func New(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

// FetchSnippet requests a random snippet, optionally for one language.
func (c *Client) FetchSnippet(ctx context.Context, language string) (model.Snippet, error) {
	u := c.baseURL + "/api/snippet"
	if language != "" {
		u += "?language=" + url.QueryEscape(language)
	}
	var sn model.Snippet
	if err := GetJSON(ctx, u, &sn); err != nil {
		return model.Snippet{}, err
	}
	return sn, nil
}

// ResultRequest is the outcome submission payload.
type ResultRequest struct {
	UserID    string  `json:"userId"`
	SnippetID int64   `json:"snippetId"`
	WPM       int     `json:"wpm"`
	Accuracy  float64 `json:"accuracy"`
	Time      int     `json:"time"`
}

// SubmitResult posts a completed race outcome and returns the stored
// result.
func (c *Client) SubmitResult(ctx context.Context, req ResultRequest) (model.Result, error) {
	var stored model.Result
	if err := PostJSON(ctx, c.baseURL+"/api/result", req, &stored); err != nil {
		return model.Result{}, err
	}
	return stored, nil
}

// Leaderboard fetches ranked per-user bests.
func (c *Client) Leaderboard(ctx context.Context, language string, limit int) ([]model.LeaderboardEntry, error) {
	u := c.baseURL + "/api/leaderboard"
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	var entries []model.LeaderboardEntry
	if err := GetJSON(ctx, u, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Profile fetches one user's statistics and recent results.
func (c *Client) Profile(ctx context.Context, userID string) (model.Profile, error) {
	var profile model.Profile
	if err := GetJSON(ctx, c.baseURL+"/api/profile/"+url.PathEscape(userID), &profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}
