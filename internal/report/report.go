package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/coderacer/internal/model"
)

const (
	terminalWidthBackup = 80
	barLabelWidth       = 10
)

// RenderProfile writes a user's statistics, recent races, and a WPM bar
// chart of the recent races.
func RenderProfile(w io.Writer, profile model.Profile) error {
	if _, err := fmt.Fprintf(w, "Profile for %s\n\n", profile.UserID); err != nil {
		return err
	}
	stats := profile.Statistics
	if stats.TotalRaces == 0 {
		_, err := fmt.Fprintln(w, "No races yet.")
		return err
	}

	summary := [][]string{
		{"Races", fmt.Sprintf("%d", stats.TotalRaces)},
		{"Avg WPM", fmt.Sprintf("%.1f", stats.AvgWPM)},
		{"Best WPM", fmt.Sprintf("%d", stats.BestWPM)},
		{"Avg accuracy", fmt.Sprintf("%.1f%%", stats.AvgAccuracy)},
		{"Best accuracy", fmt.Sprintf("%.1f%%", stats.BestAccuracy)},
	}
	for _, line := range formatTable(nil, summary, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if len(profile.RecentResults) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nRecent races"); err != nil {
		return err
	}
	headers := []string{"Snippet", "Language", "WPM", "Accuracy", "Time"}
	rows := make([][]string, 0, len(profile.RecentResults))
	for _, r := range profile.RecentResults {
		rows = append(rows, []string{
			r.Title,
			r.Language,
			fmt.Sprintf("%d", r.WPM),
			fmt.Sprintf("%.1f%%", r.Accuracy),
			fmt.Sprintf("%ds", r.Time),
		})
	}
	align := map[int]bool{2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, align) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "\nWPM, newest first"); err != nil {
		return err
	}
	return renderWPMBars(w, profile.RecentResults)
}

// RenderLeaderboard writes a ranked table of leaderboard entries, marking
// the given user's row.
func RenderLeaderboard(w io.Writer, entries []model.LeaderboardEntry, userID string) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No results yet.")
		return err
	}
	headers := []string{"#", "User", "Best WPM", "Avg WPM", "Avg Acc", "Races"}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		user := e.UserID
		if user == userID {
			user += " (you)"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			user,
			fmt.Sprintf("%d", e.BestWPM),
			fmt.Sprintf("%.1f", e.AvgWPM),
			fmt.Sprintf("%.1f%%", e.AvgAccuracy),
			fmt.Sprintf("%d", e.TotalRaces),
		})
	}
	align := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, align) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// renderWPMBars draws one horizontal bar per recent race, scaled to the
// best WPM among them and the terminal width.
func renderWPMBars(w io.Writer, results []model.RecentResult) error {
	best := 0
	for _, r := range results {
		if r.WPM > best {
			best = r.WPM
		}
	}
	if best == 0 {
		best = 1
	}
	barWidth := terminalWidth() - barLabelWidth
	if barWidth < 10 {
		barWidth = 10
	}
	for _, r := range results {
		n := r.WPM * barWidth / best
		if _, err := fmt.Fprintf(w, "%4d WPM  %s\n", r.WPM, strings.Repeat("█", n)); err != nil {
			return err
		}
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
