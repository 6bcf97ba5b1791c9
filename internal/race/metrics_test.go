package race

import (
	"testing"
	"time"
)

func TestWPMFormula(t *testing.T) {
	// 25 runes in 10s: words=5, minutes=1/6, wpm=floor(30).
	if got := WPM(25, 10*time.Second); got != 30 {
		t.Fatalf("expected 30 WPM, got %d", got)
	}
}

func TestWPMZeroElapsed(t *testing.T) {
	if got := WPM(25, 0); got != 0 {
		t.Fatalf("expected 0 WPM for zero elapsed, got %d", got)
	}
	if got := WPM(0, 10*time.Second); got != 0 {
		t.Fatalf("expected 0 WPM for empty input, got %d", got)
	}
}

func TestWPMUsesRawElapsed(t *testing.T) {
	// Under one displayed second the raw duration still divides cleanly.
	if got := WPM(10, 500*time.Millisecond); got != 240 {
		t.Fatalf("expected 240 WPM, got %d", got)
	}
}

func TestAccuracyFormula(t *testing.T) {
	// Target length 20, 2 errors within the typed prefix: 18/20 = 90.00.
	if got := Accuracy(20, 20, 2); got != 90.00 {
		t.Fatalf("expected 90.00, got %v", got)
	}
}

func TestAccuracyRounding(t *testing.T) {
	// 2 errors over 3 positions: 1/3 = 33.333... rounds to 33.33.
	if got := Accuracy(3, 3, 2); got != 33.33 {
		t.Fatalf("expected 33.33, got %v", got)
	}
}

func TestAccuracyEmptyTarget(t *testing.T) {
	if got := Accuracy(0, 5, 5); got != 100 {
		t.Fatalf("expected 100 for empty target, got %v", got)
	}
}

func TestAccuracyClampsAtZero(t *testing.T) {
	// Overflow errors can exceed the typed prefix length.
	if got := Accuracy(4, 20, 18); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestElapsedSecondsFloors(t *testing.T) {
	if got := ElapsedSeconds(2900 * time.Millisecond); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := ElapsedSeconds(-time.Second); got != 0 {
		t.Fatalf("expected 0 for negative duration, got %d", got)
	}
}
