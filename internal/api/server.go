// Package api implements the main coderacer API: snippet delivery, result
// submission with downstream fan-out, profiles, and the leaderboard.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/verte-zerg/coderacer/internal/apiclient"
	"github.com/verte-zerg/coderacer/internal/httpx"
	"github.com/verte-zerg/coderacer/internal/model"
	"github.com/verte-zerg/coderacer/internal/store"
)

const defaultFanoutTimeout = 5 * time.Second

// Server holds the main API dependencies. The statistics and notification
// services are reached over HTTP and never block or fail the primary
// request.
type Server struct {
	db               *store.Store
	statisticsURL    string
	notificationsURL string
	fanoutTimeout    time.Duration

	// Tracks in-flight fan-out calls so tests can wait for them.
	fanout sync.WaitGroup
}

// NewServer constructs the main API server.
func NewServer(db *store.Store, statisticsURL, notificationsURL string) *Server {
	return &Server{
		db:               db,
		statisticsURL:    statisticsURL,
		notificationsURL: notificationsURL,
		fanoutTimeout:    defaultFanoutTimeout,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/snippet", s.handleSnippet)
	mux.HandleFunc("POST /api/result", s.handleResult)
	mux.HandleFunc("GET /api/profile/{userId}", s.handleProfile)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handleSnippet(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	snippet, err := s.db.RandomSnippet(r.Context(), language)
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "no snippets found")
		return
	}
	if err != nil {
		log.Printf("snippet query: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, snippet)
}

type resultRequest struct {
	UserID    string   `json:"userId"`
	SnippetID *int64   `json:"snippetId"`
	WPM       *int     `json:"wpm"`
	Accuracy  *float64 `json:"accuracy"`
	Time      int      `json:"time"`
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SnippetID == nil || req.WPM == nil || req.Accuracy == nil {
		httpx.WriteError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	stored, err := s.db.InsertResult(r.Context(), model.Result{
		UserID:    req.UserID,
		SnippetID: *req.SnippetID,
		WPM:       *req.WPM,
		Accuracy:  *req.Accuracy,
		Time:      req.Time,
	})
	if err != nil {
		log.Printf("insert result: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// The language and race-count reads feed only the fan-out; their
	// failures degrade to defaults instead of failing the stored result.
	// The count includes the row inserted above but runs as a separate
	// query, so a concurrent submission from the same user can skew it.
	language, err := s.db.SnippetLanguage(r.Context(), stored.SnippetID)
	if err != nil {
		log.Printf("snippet language for %d: %v", stored.SnippetID, err)
		language = "unknown"
	}
	totalRaces := 0
	if count, err := s.db.CountUserResults(r.Context(), stored.UserID); err != nil {
		log.Printf("count results for %s: %v", stored.UserID, err)
	} else {
		totalRaces = count
	}

	s.fanOut(stored, language, totalRaces)
	httpx.WriteJSON(w, http.StatusCreated, stored)
}

// fanOut dispatches the downstream calls concurrently. The caller's
// response never waits on them; each failure is logged and dropped, with
// no retry.
func (s *Server) fanOut(res model.Result, language string, totalRaces int) {
	s.post("statistics analyze", s.statisticsURL+"/api/statistics/analyze", map[string]any{
		"userId":    res.UserID,
		"snippetId": res.SnippetID,
		"wpm":       res.WPM,
		"accuracy":  res.Accuracy,
	})
	s.post("achievement check", s.notificationsURL+"/api/notifications/check-achievements", map[string]any{
		"userId":     res.UserID,
		"wpm":        res.WPM,
		"accuracy":   res.Accuracy,
		"totalRaces": totalRaces,
	})
	s.post("record check", s.notificationsURL+"/api/notifications/check-records", map[string]any{
		"userId":   res.UserID,
		"wpm":      res.WPM,
		"language": language,
	})
}

func (s *Server) post(what, url string, body any) {
	s.fanout.Add(1)
	go func() {
		defer s.fanout.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.fanoutTimeout)
		defer cancel()
		if err := apiclient.PostJSON(ctx, url, body, nil); err != nil {
			log.Printf("%s failed: %v", what, err)
		}
	}()
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	stats, err := s.db.UserStatistics(r.Context(), userID)
	if err != nil {
		log.Printf("user statistics: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	recent, err := s.db.RecentResults(r.Context(), userID, 10)
	if err != nil {
		log.Printf("recent results: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, model.Profile{
		UserID:        userID,
		Statistics:    stats,
		RecentResults: recent,
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpx.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	entries, err := s.db.Leaderboard(r.Context(), language, limit)
	if err != nil {
		log.Printf("leaderboard query: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	httpx.WriteJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
