package notify

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/coderacer/internal/httpx"
	"github.com/verte-zerg/coderacer/internal/model"
	"github.com/verte-zerg/coderacer/internal/store"
)

// Service serves the notification endpoints. Achievement and record checks
// dispatch notifications best-effort: a failed dispatch is logged per rule
// and never fails the check call.
type Service struct {
	notifications NotificationStore
	db            *store.Store
}

// NewService constructs the notification service over a notification store
// and the shared results database.
func NewService(notifications NotificationStore, db *store.Store) *Service {
	return &Service{notifications: notifications, db: db}
}

// Handler returns the HTTP routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/notifications/send", s.handleSend)
	mux.HandleFunc("POST /api/notifications/check-achievements", s.handleCheckAchievements)
	mux.HandleFunc("POST /api/notifications/check-records", s.handleCheckRecords)
	mux.HandleFunc("GET /api/notifications/user/{userId}", s.handleListUser)
	mux.HandleFunc("PUT /api/notifications/{id}/read", s.handleMarkRead)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

type sendRequest struct {
	UserID  string         `json:"userId"`
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func (s *Service) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == "" || req.Type == "" || req.Message == "" {
		httpx.WriteError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	stored, err := s.dispatch(req.UserID, req.Type, req.Message, req.Data)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, stored)
}

// dispatch assigns identity and creation time, stores the notification,
// and returns the stored record.
func (s *Service) dispatch(userID, typ, message string, data map[string]any) (model.Notification, error) {
	if data == nil {
		data = map[string]any{}
	}
	n := model.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
		Read:      false,
	}
	if err := s.notifications.Save(n); err != nil {
		return model.Notification{}, err
	}
	log.Printf("notification sent to user %s: %s", userID, message)
	return n, nil
}

type checkAchievementsRequest struct {
	UserID     string  `json:"userId"`
	WPM        int     `json:"wpm"`
	Accuracy   float64 `json:"accuracy"`
	TotalRaces int     `json:"totalRaces"`
}

func (s *Service) handleCheckAchievements(w http.ResponseWriter, r *http.Request) {
	var req checkAchievementsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	achievements := CheckAchievements(req.WPM, req.Accuracy, req.TotalRaces)
	for _, a := range achievements {
		if _, err := s.dispatch(req.UserID, a.Type, a.Message, map[string]any{"badge": a.Badge}); err != nil {
			log.Printf("dispatch achievement %s: %v", a.Badge, err)
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"achievements": achievements})
}

type checkRecordsRequest struct {
	UserID   string `json:"userId"`
	WPM      int    `json:"wpm"`
	Language string `json:"language"`
}

func (s *Service) handleCheckRecords(w http.ResponseWriter, r *http.Request) {
	var req checkRecordsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	previous, err := s.db.MaxWPMForLanguage(r.Context(), req.Language, req.UserID)
	if err != nil {
		log.Printf("record lookup for %s: %v", req.Language, err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	// Ties are not records.
	if req.WPM <= previous {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"isRecord": false})
		return
	}
	message := fmt.Sprintf("New record! You set %d WPM for %s!", req.WPM, req.Language)
	data := map[string]any{
		"wpm":            req.WPM,
		"language":       req.Language,
		"previousRecord": previous,
	}
	stored, err := s.dispatch(req.UserID, model.NotificationRecord, message, data)
	if err != nil {
		log.Printf("dispatch record notification: %v", err)
		stored = model.Notification{Type: model.NotificationRecord, Message: message, Data: data}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"isRecord": true, "notification": stored})
}

func (s *Service) handleListUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpx.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	httpx.WriteJSON(w, http.StatusOK, s.notifications.ListByUser(userID, limit))
}

func (s *Service) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	updated, ok := s.notifications.MarkRead(id)
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "notification not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   "notification-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
