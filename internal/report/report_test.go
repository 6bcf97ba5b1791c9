package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/coderacer/internal/model"
)

func TestRenderProfileEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := RenderProfile(&buf, model.Profile{UserID: "u1"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No races yet.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestRenderProfileTables(t *testing.T) {
	profile := model.Profile{
		UserID: "u1",
		Statistics: model.UserStatistics{
			TotalRaces:   3,
			AvgWPM:       64.5,
			BestWPM:      80,
			AvgAccuracy:  95.2,
			BestAccuracy: 100,
		},
		RecentResults: []model.RecentResult{
			{Result: model.Result{WPM: 80, Accuracy: 100, Time: 25}, Language: "go", Title: "Error handling"},
			{Result: model.Result{WPM: 55, Accuracy: 92.1, Time: 40}, Language: "python", Title: "List comprehension"},
		},
	}
	var buf bytes.Buffer
	if err := RenderProfile(&buf, profile); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Profile for u1", "Best WPM", "80", "Error handling", "python", "Recent races"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderLeaderboardMarksUser(t *testing.T) {
	entries := []model.LeaderboardEntry{
		{UserID: "fast", BestWPM: 120, AvgWPM: 110, AvgAccuracy: 98, TotalRaces: 12},
		{UserID: "me", BestWPM: 90, AvgWPM: 85, AvgAccuracy: 96, TotalRaces: 5},
	}
	var buf bytes.Buffer
	if err := RenderLeaderboard(&buf, entries, "me"); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "me (you)") {
		t.Fatalf("expected marked row:\n%s", out)
	}
	if !strings.Contains(out, "120") {
		t.Fatalf("expected best wpm column:\n%s", out)
	}
}

func TestFormatTableAlignment(t *testing.T) {
	lines := formatTable([]string{"Name", "WPM"}, [][]string{{"a", "5"}, {"bb", "100"}}, map[int]bool{1: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[1], "  5") {
		t.Fatalf("expected right-aligned value, got %q", lines[1])
	}
}
