package insights

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/verte-zerg/coderacer/internal/httpx"
	"github.com/verte-zerg/coderacer/internal/store"
)

// Service serves the statistics endpoints.
type Service struct {
	db *store.Store
}

// NewService constructs the statistics service over the results database.
func NewService(db *store.Store) *Service {
	return &Service{db: db}
}

// Handler returns the HTTP routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/statistics/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/statistics/overview", s.handleOverview)
	mux.HandleFunc("GET /api/statistics/language/{language}", s.handleLanguage)
	mux.HandleFunc("GET /api/statistics/user/{userId}", s.handleUser)
	mux.HandleFunc("GET /api/statistics/trends", s.handleTrends)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

type analyzeRequest struct {
	UserID    string  `json:"userId"`
	SnippetID int64   `json:"snippetId"`
	WPM       int     `json:"wpm"`
	Accuracy  float64 `json:"accuracy"`
}

func (s *Service) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, Analyze(req.WPM, req.Accuracy))
}

func (s *Service) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.db.Overview(r.Context())
	if err != nil {
		log.Printf("overview query: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, overview)
}

func (s *Service) handleLanguage(w http.ResponseWriter, r *http.Request) {
	language := r.PathValue("language")
	stats, err := s.db.LanguageStatistics(r.Context(), language)
	if err != nil {
		log.Printf("language statistics query: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if stats.TotalRaces == 0 {
		httpx.WriteError(w, http.StatusNotFound, "no statistics found for this language")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

func (s *Service) handleUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	stats, err := s.db.UserStatistics(r.Context(), userID)
	if err != nil {
		log.Printf("user statistics query: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

func (s *Service) handleTrends(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpx.WriteError(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = parsed
	}
	points, err := s.db.Trends(r.Context(), days)
	if err != nil {
		log.Printf("trends query: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, points)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   "statistics-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
