// Package model defines shared data structures.
package model

import "time"

// Snippet is the fixed code text a race session reproduces exactly.
// Code may carry literal "\n" escape sequences that are unescaped before
// any comparison.
type Snippet struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Code       string `json:"code"`
	Language   string `json:"language"`
	Difficulty string `json:"difficulty"`
}

// Result is the stored outcome of one completed race.
type Result struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	SnippetID int64     `json:"snippetId"`
	WPM       int       `json:"wpm"`
	Accuracy  float64   `json:"accuracy"`
	Time      int       `json:"time"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification type values.
const (
	NotificationAchievement = "achievement"
	NotificationRecord      = "record"
	NotificationMilestone   = "milestone"
	NotificationInfo        = "info"
)

// Notification is a single user-facing event produced by the notification
// service.
type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
	Read      bool           `json:"read"`
}

// UserStatistics aggregates a user's race history.
type UserStatistics struct {
	TotalRaces   int     `json:"total_races"`
	AvgWPM       float64 `json:"avg_wpm"`
	BestWPM      int     `json:"best_wpm"`
	AvgAccuracy  float64 `json:"avg_accuracy"`
	BestAccuracy float64 `json:"best_accuracy"`
}

// RecentResult is a result joined with its snippet for profile views.
type RecentResult struct {
	Result
	Language string `json:"language"`
	Title    string `json:"title"`
}

// Profile bundles a user's statistics with their recent results.
type Profile struct {
	UserID        string         `json:"userId"`
	Statistics    UserStatistics `json:"statistics"`
	RecentResults []RecentResult `json:"recentResults"`
}

// LeaderboardEntry aggregates per-user bests for ranking.
type LeaderboardEntry struct {
	UserID      string  `json:"user_id"`
	BestWPM     int     `json:"best_wpm"`
	AvgWPM      float64 `json:"avg_wpm"`
	AvgAccuracy float64 `json:"avg_accuracy"`
	TotalRaces  int     `json:"total_races"`
}

// Overview aggregates global race statistics.
type Overview struct {
	TotalUsers  int     `json:"total_users"`
	TotalRaces  int     `json:"total_races"`
	AvgWPM      float64 `json:"avg_wpm"`
	MaxWPM      int     `json:"max_wpm"`
	AvgAccuracy float64 `json:"avg_accuracy"`
	AvgTime     float64 `json:"avg_time"`
}

// LanguageStatistics aggregates results for one snippet language.
type LanguageStatistics struct {
	TotalRaces    int     `json:"total_races"`
	AvgWPM        float64 `json:"avg_wpm"`
	MaxWPM        int     `json:"max_wpm"`
	AvgAccuracy   float64 `json:"avg_accuracy"`
	UniquePlayers int     `json:"unique_players"`
}

// TrendPoint is one day of aggregate race activity.
type TrendPoint struct {
	Date        string  `json:"date"`
	RacesCount  int     `json:"races_count"`
	AvgWPM      float64 `json:"avg_wpm"`
	AvgAccuracy float64 `json:"avg_accuracy"`
	UniqueUsers int     `json:"unique_users"`
}
