// Package insights implements the statistics service: per-result analysis
// and aggregate reads over the results store.
package insights

// Insights is the analysis of a single race result.
type Insights struct {
	Performance    string `json:"performance"`
	AccuracyLevel  string `json:"accuracy_level"`
	Recommendation string `json:"recommendation"`
}

// Rating levels.
const (
	LevelExcellent        = "excellent"
	LevelGood             = "good"
	LevelNeedsImprovement = "needs_improvement"
)

// Analyze rates one result and recommends a next step.
func Analyze(wpm int, accuracy float64) Insights {
	in := Insights{
		Performance:   LevelNeedsImprovement,
		AccuracyLevel: LevelNeedsImprovement,
	}
	switch {
	case wpm > 100:
		in.Performance = LevelExcellent
	case wpm > 60:
		in.Performance = LevelGood
	}
	switch {
	case accuracy > 95:
		in.AccuracyLevel = LevelExcellent
	case accuracy > 85:
		in.AccuracyLevel = LevelGood
	}
	switch {
	case wpm > 100 && accuracy > 95:
		in.Recommendation = "Try harder snippets!"
	case accuracy < 85:
		in.Recommendation = "Focus on accuracy first"
	default:
		in.Recommendation = "Keep practicing!"
	}
	return in
}
