// Package store handles SQLite persistence for snippets and race results.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/coderacer/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound reports that no row matched the query.
var ErrNotFound = errors.New("not found")

// Store wraps SQLite access for snippet and result data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snippets (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			code TEXT NOT NULL,
			language TEXT NOT NULL,
			difficulty TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY,
			user_id TEXT NOT NULL DEFAULT '',
			snippet_id INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			time_seconds INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snippets_language ON snippets(language);`,
		`CREATE INDEX IF NOT EXISTS idx_results_user ON results(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_results_snippet ON results(snippet_id);`,
		`CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RandomSnippet picks one snippet uniformly, optionally filtered by
// language. ErrNotFound when nothing matches.
func (s *Store) RandomSnippet(ctx context.Context, language string) (model.Snippet, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if language != "" {
		clauses = append(clauses, "language = ?")
		args = append(args, language)
	}
	query := fmt.Sprintf(`SELECT id, title, code, language, difficulty
		FROM snippets
		WHERE %s
		ORDER BY RANDOM()
		LIMIT 1`, strings.Join(clauses, " AND "))
	var sn model.Snippet
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&sn.ID, &sn.Title, &sn.Code, &sn.Language, &sn.Difficulty)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snippet{}, ErrNotFound
	}
	if err != nil {
		return model.Snippet{}, err
	}
	return sn, nil
}

// SnippetLanguage returns the language of one snippet. ErrNotFound when the
// snippet does not exist.
func (s *Store) SnippetLanguage(ctx context.Context, id int64) (string, error) {
	var language string
	err := s.db.QueryRowContext(ctx, `SELECT language FROM snippets WHERE id = ?`, id).Scan(&language)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return language, nil
}

// InsertSnippet stores one snippet and returns its id.
func (s *Store) InsertSnippet(ctx context.Context, sn model.Snippet) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snippets (title, code, language, difficulty) VALUES (?, ?, ?, ?)`,
		sn.Title, sn.Code, sn.Language, sn.Difficulty)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CountSnippets returns the number of stored snippets.
func (s *Store) CountSnippets(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snippets`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// InsertResult stores a race outcome and returns the stored row.
func (s *Store) InsertResult(ctx context.Context, r model.Result) (model.Result, error) {
	r.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO results (user_id, snippet_id, wpm, accuracy, time_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.UserID, r.SnippetID, r.WPM, r.Accuracy, r.Time, r.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return model.Result{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Result{}, err
	}
	r.ID = id
	return r, nil
}

// CountUserResults counts all stored results for one user, including any
// just inserted. The read runs outside the insert's transaction scope, so
// concurrent submissions from the same user can observe a stale count.
func (s *Store) CountUserResults(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MaxWPMForLanguage returns the best WPM for snippets of a language among
// results authored by users other than excludeUserID, or 0 when none exist.
func (s *Store) MaxWPMForLanguage(ctx context.Context, language, excludeUserID string) (int, error) {
	var maxWPM int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(r.wpm), 0)
		 FROM results r
		 JOIN snippets s ON s.id = r.snippet_id
		 WHERE s.language = ? AND r.user_id != ?`,
		language, excludeUserID).Scan(&maxWPM)
	if err != nil {
		return 0, err
	}
	return maxWPM, nil
}

// UserStatistics aggregates one user's race history.
func (s *Store) UserStatistics(ctx context.Context, userID string) (model.UserStatistics, error) {
	var stats model.UserStatistics
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(AVG(wpm), 0),
			COALESCE(MAX(wpm), 0),
			COALESCE(AVG(accuracy), 0),
			COALESCE(MAX(accuracy), 0)
		 FROM results
		 WHERE user_id = ?`,
		userID).Scan(&stats.TotalRaces, &stats.AvgWPM, &stats.BestWPM, &stats.AvgAccuracy, &stats.BestAccuracy)
	if err != nil {
		return model.UserStatistics{}, err
	}
	return stats, nil
}

// RecentResults returns a user's most recent results joined with snippet
// info, newest first.
func (s *Store) RecentResults(ctx context.Context, userID string, limit int) ([]model.RecentResult, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.snippet_id, r.wpm, r.accuracy, r.time_seconds, r.created_at, s.language, s.title
		 FROM results r
		 JOIN snippets s ON s.id = r.snippet_id
		 WHERE r.user_id = ?
		 ORDER BY r.created_at DESC
		 LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.RecentResult
	for rows.Next() {
		var r model.RecentResult
		var createdAt string
		if err := rows.Scan(&r.ID, &r.UserID, &r.SnippetID, &r.WPM, &r.Accuracy, &r.Time, &createdAt, &r.Language, &r.Title); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		r.CreatedAt = parsed
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Leaderboard ranks users by best WPM, optionally restricted to one snippet
// language.
func (s *Store) Leaderboard(ctx context.Context, language string, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	clauses := []string{"r.user_id != ''"}
	args := []any{}
	join := ""
	if language != "" {
		join = "JOIN snippets s ON s.id = r.snippet_id"
		clauses = append(clauses, "s.language = ?")
		args = append(args, language)
	}
	query := fmt.Sprintf(`SELECT r.user_id,
			MAX(r.wpm),
			AVG(r.wpm),
			AVG(r.accuracy),
			COUNT(*)
		FROM results r
		%s
		WHERE %s
		GROUP BY r.user_id
		ORDER BY MAX(r.wpm) DESC
		LIMIT ?`, join, strings.Join(clauses, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.BestWPM, &e.AvgWPM, &e.AvgAccuracy, &e.TotalRaces); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Overview aggregates global race statistics over identified users.
func (s *Store) Overview(ctx context.Context) (model.Overview, error) {
	var o model.Overview
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT user_id),
			COUNT(*),
			COALESCE(AVG(wpm), 0),
			COALESCE(MAX(wpm), 0),
			COALESCE(AVG(accuracy), 0),
			COALESCE(AVG(time_seconds), 0)
		 FROM results
		 WHERE user_id != ''`).Scan(&o.TotalUsers, &o.TotalRaces, &o.AvgWPM, &o.MaxWPM, &o.AvgAccuracy, &o.AvgTime)
	if err != nil {
		return model.Overview{}, err
	}
	return o, nil
}

// LanguageStatistics aggregates results for one snippet language.
func (s *Store) LanguageStatistics(ctx context.Context, language string) (model.LanguageStatistics, error) {
	var stats model.LanguageStatistics
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(AVG(r.wpm), 0),
			COALESCE(MAX(r.wpm), 0),
			COALESCE(AVG(r.accuracy), 0),
			COUNT(DISTINCT r.user_id)
		 FROM results r
		 JOIN snippets s ON s.id = r.snippet_id
		 WHERE s.language = ?`,
		language).Scan(&stats.TotalRaces, &stats.AvgWPM, &stats.MaxWPM, &stats.AvgAccuracy, &stats.UniquePlayers)
	if err != nil {
		return model.LanguageStatistics{}, err
	}
	return stats, nil
}

// Trends aggregates race activity per day over the last days.
func (s *Store) Trends(ctx context.Context, days int) ([]model.TrendPoint, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339Nano)
	rows, err := s.db.QueryContext(ctx,
		`SELECT DATE(created_at),
			COUNT(*),
			COALESCE(AVG(wpm), 0),
			COALESCE(AVG(accuracy), 0),
			COUNT(DISTINCT user_id)
		 FROM results
		 WHERE created_at >= ?
		 GROUP BY DATE(created_at)
		 ORDER BY DATE(created_at) DESC`,
		since)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var points []model.TrendPoint
	for rows.Next() {
		var p model.TrendPoint
		if err := rows.Scan(&p.Date, &p.RacesCount, &p.AvgWPM, &p.AvgAccuracy, &p.UniqueUsers); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
