package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/verte-zerg/coderacer/internal/model"
	"github.com/verte-zerg/coderacer/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertSnippet(t *testing.T, db *store.Store, language string) int64 {
	t.Helper()
	id, err := db.InsertSnippet(context.Background(), model.Snippet{
		Title:      "test snippet",
		Code:       "const x = 1;",
		Language:   language,
		Difficulty: "easy",
	})
	if err != nil {
		t.Fatalf("insert snippet: %v", err)
	}
	return id
}

// downstream records every request body it receives by path.
type downstream struct {
	mu     sync.Mutex
	bodies map[string]map[string]any
}

func newDownstream(t *testing.T) (*downstream, *httptest.Server) {
	t.Helper()
	d := &downstream{bodies: map[string]map[string]any{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode downstream body: %v", err)
		}
		d.mu.Lock()
		d.bodies[r.URL.Path] = body
		d.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return d, srv
}

func (d *downstream) body(path string) map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bodies[path]
}

func TestSnippetNotFound(t *testing.T) {
	db := openTestStore(t)
	srv := NewServer(db, "", "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snippet", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "no snippets found" {
		t.Fatalf("unexpected error message %q", resp["error"])
	}
}

func TestSnippetByLanguage(t *testing.T) {
	db := openTestStore(t)
	insertSnippet(t, db, "go")
	insertSnippet(t, db, "python")
	srv := NewServer(db, "", "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snippet?language=python", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var sn model.Snippet
	if err := json.Unmarshal(rec.Body.Bytes(), &sn); err != nil {
		t.Fatalf("decode snippet: %v", err)
	}
	if sn.Language != "python" {
		t.Fatalf("expected python snippet, got %q", sn.Language)
	}
}

func TestResultMissingFields(t *testing.T) {
	db := openTestStore(t)
	srv := NewServer(db, "", "")

	body := `{"userId":"u1","wpm":80}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/result", strings.NewReader(body))
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "missing required fields" {
		t.Fatalf("unexpected error message %q", resp["error"])
	}
}

func TestResultZeroValuesAccepted(t *testing.T) {
	db := openTestStore(t)
	snippetID := insertSnippet(t, db, "go")
	d, ds := newDownstream(t)
	srv := NewServer(db, ds.URL, ds.URL)

	body := map[string]any{
		"userId":    "u1",
		"snippetId": snippetID,
		"wpm":       0,
		"accuracy":  0,
		"time":      0,
	}
	raw, _ := json.Marshal(body)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/result", strings.NewReader(string(raw)))
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	srv.fanout.Wait()
	if d.body("/api/statistics/analyze") == nil {
		t.Fatal("expected analyze call for zero-valued result")
	}
}

func TestResultStoresAndFansOut(t *testing.T) {
	db := openTestStore(t)
	snippetID := insertSnippet(t, db, "rust")
	d, ds := newDownstream(t)
	srv := NewServer(db, ds.URL, ds.URL)

	body := map[string]any{
		"userId":    "u1",
		"snippetId": snippetID,
		"wpm":       95,
		"accuracy":  98.5,
		"time":      42,
	}
	raw, _ := json.Marshal(body)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/result", strings.NewReader(string(raw)))
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var stored model.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &stored); err != nil {
		t.Fatalf("decode stored result: %v", err)
	}
	if stored.ID == 0 {
		t.Fatal("expected assigned result id")
	}
	if stored.WPM != 95 || stored.Accuracy != 98.5 {
		t.Fatalf("unexpected stored result %+v", stored)
	}
	if stored.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be set")
	}

	srv.fanout.Wait()

	analyze := d.body("/api/statistics/analyze")
	if analyze == nil {
		t.Fatal("analyze was not called")
	}
	if analyze["wpm"].(float64) != 95 {
		t.Fatalf("analyze wpm = %v", analyze["wpm"])
	}

	achievements := d.body("/api/notifications/check-achievements")
	if achievements == nil {
		t.Fatal("check-achievements was not called")
	}
	if achievements["totalRaces"].(float64) != 1 {
		t.Fatalf("totalRaces = %v", achievements["totalRaces"])
	}

	records := d.body("/api/notifications/check-records")
	if records == nil {
		t.Fatal("check-records was not called")
	}
	if records["language"].(string) != "rust" {
		t.Fatalf("record language = %v", records["language"])
	}
}

func TestResultFanoutFailureDoesNotAffectResponse(t *testing.T) {
	db := openTestStore(t)
	snippetID := insertSnippet(t, db, "go")
	// Downstream is unreachable.
	srv := NewServer(db, "http://127.0.0.1:0", "http://127.0.0.1:0")

	body := map[string]any{
		"userId":    "u1",
		"snippetId": snippetID,
		"wpm":       60,
		"accuracy":  90.0,
		"time":      30,
	}
	raw, _ := json.Marshal(body)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/result", strings.NewReader(string(raw)))
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 despite fan-out failure, got %d", rec.Code)
	}
	srv.fanout.Wait()

	count, err := db.CountUserResults(context.Background(), "u1")
	if err != nil {
		t.Fatalf("count results: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 stored result, got %d", count)
	}
}

func TestProfileEmptyUser(t *testing.T) {
	db := openTestStore(t)
	srv := NewServer(db, "", "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile/nobody", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var profile model.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.UserID != "nobody" {
		t.Fatalf("unexpected user id %q", profile.UserID)
	}
	if profile.Statistics.TotalRaces != 0 {
		t.Fatalf("expected zero races, got %d", profile.Statistics.TotalRaces)
	}
}

func TestLeaderboardLimit(t *testing.T) {
	db := openTestStore(t)
	snippetID := insertSnippet(t, db, "go")
	for i, user := range []string{"a", "b", "c"} {
		_, err := db.InsertResult(context.Background(), model.Result{
			UserID:    user,
			SnippetID: snippetID,
			WPM:       50 + i*10,
			Accuracy:  95,
			Time:      30,
		})
		if err != nil {
			t.Fatalf("insert result: %v", err)
		}
	}
	srv := NewServer(db, "", "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard?limit=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var entries []model.LeaderboardEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != "c" {
		t.Fatalf("expected top user c, got %q", entries[0].UserID)
	}
}

func TestLeaderboardInvalidLimit(t *testing.T) {
	db := openTestStore(t)
	srv := NewServer(db, "", "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard?limit=zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLeaderboardEmptyIsArray(t *testing.T) {
	db := openTestStore(t)
	srv := NewServer(db, "", "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}

func TestHealth(t *testing.T) {
	db := openTestStore(t)
	srv := NewServer(db, "", "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("unexpected status %q", resp["status"])
	}
}
