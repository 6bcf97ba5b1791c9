package insights

import "testing"

func TestAnalyzeRatings(t *testing.T) {
	tests := []struct {
		name           string
		wpm            int
		accuracy       float64
		performance    string
		accuracyLevel  string
		recommendation string
	}{
		{"fast and clean", 110, 98, LevelExcellent, LevelExcellent, "Try harder snippets!"},
		{"fast but sloppy", 110, 80, LevelExcellent, LevelNeedsImprovement, "Focus on accuracy first"},
		{"steady", 70, 90, LevelGood, LevelGood, "Keep practicing!"},
		{"beginner", 40, 70, LevelNeedsImprovement, LevelNeedsImprovement, "Focus on accuracy first"},
		{"threshold wpm", 100, 96, LevelGood, LevelExcellent, "Keep practicing!"},
		{"threshold accuracy", 110, 95, LevelExcellent, LevelGood, "Keep practicing!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.wpm, tt.accuracy)
			if got.Performance != tt.performance {
				t.Fatalf("performance: expected %s, got %s", tt.performance, got.Performance)
			}
			if got.AccuracyLevel != tt.accuracyLevel {
				t.Fatalf("accuracy level: expected %s, got %s", tt.accuracyLevel, got.AccuracyLevel)
			}
			if got.Recommendation != tt.recommendation {
				t.Fatalf("recommendation: expected %q, got %q", tt.recommendation, got.Recommendation)
			}
		})
	}
}
