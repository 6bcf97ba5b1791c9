// Package notify implements the notification service: achievement rules,
// record detection, and best-effort notification dispatch.
package notify

import (
	"sort"
	"sync"

	"github.com/verte-zerg/coderacer/internal/model"
)

// NotificationStore persists notifications keyed by id. The interface
// exists so the in-process store can be swapped for a database or cache
// without touching call sites.
type NotificationStore interface {
	Save(n model.Notification) error
	Get(id string) (model.Notification, bool)
	MarkRead(id string) (model.Notification, bool)
	ListByUser(userID string, limit int) []model.Notification
}

type storedNotification struct {
	model.Notification
	seq int64
}

// MemoryStore keeps notifications in process memory. Safe for concurrent
// use.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]storedNotification
	seq  int64
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: map[string]storedNotification{}}
}

// Save stores or replaces one notification.
func (s *MemoryStore) Save(n model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.byID[n.ID] = storedNotification{Notification: n, seq: s.seq}
	return nil
}

// Get looks one notification up by id.
func (s *MemoryStore) Get(id string) (model.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.byID[id]
	return stored.Notification, ok
}

// MarkRead flags one notification as read and returns the updated record.
func (s *MemoryStore) MarkRead(id string) (model.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byID[id]
	if !ok {
		return model.Notification{}, false
	}
	stored.Read = true
	s.byID[id] = stored
	return stored.Notification, true
}

// ListByUser returns a user's notifications, newest first, up to limit.
func (s *MemoryStore) ListByUser(userID string, limit int) []model.Notification {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	matched := make([]storedNotification, 0)
	for _, stored := range s.byID {
		if stored.UserID == userID {
			matched = append(matched, stored)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].seq > matched[j].seq
		}
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]model.Notification, len(matched))
	for i, stored := range matched {
		out[i] = stored.Notification
	}
	return out
}
