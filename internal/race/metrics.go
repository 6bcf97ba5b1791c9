package race

import (
	"math"
	"time"
)

// Metrics holds the derived race figures at one instant.
type Metrics struct {
	WPM            int
	Accuracy       float64
	ElapsedSeconds int
	Errors         int
}

// WPM approximates words as typed runes over five and divides by elapsed
// minutes, floored. The raw elapsed duration feeds the division so a short
// race does not floor to a zero denominator. Zero when the division is not
// finite.
func WPM(inputLen int, elapsed time.Duration) int {
	minutes := elapsed.Seconds() / 60
	if minutes <= 0 {
		return 0
	}
	wpm := (float64(inputLen) / 5) / minutes
	if math.IsNaN(wpm) || math.IsInf(wpm, 0) {
		return 0
	}
	return int(wpm)
}

// Accuracy is the share of target-length positions typed correctly, as a
// percentage rounded to two decimal places. An empty target scores 100;
// overflow errors can push the share below zero, which clamps to 0.
func Accuracy(targetLen, inputLen, errors int) float64 {
	if targetLen == 0 {
		return 100
	}
	typed := inputLen
	if typed > targetLen {
		typed = targetLen
	}
	acc := float64(typed-errors) / float64(targetLen) * 100
	acc = math.Round(acc*100) / 100
	if acc < 0 {
		return 0
	}
	return acc
}

// ElapsedSeconds floors a duration to whole seconds for display.
func ElapsedSeconds(elapsed time.Duration) int {
	if elapsed < 0 {
		return 0
	}
	return int(elapsed.Seconds())
}
