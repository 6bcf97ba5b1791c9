package race

import (
	"testing"
	"time"

	"github.com/verte-zerg/coderacer/internal/model"
)

type fakeClock struct {
	at time.Time
}

func (c *fakeClock) now() time.Time { return c.at }

func (c *fakeClock) advance(d time.Duration) { c.at = c.at.Add(d) }

func newTestSession(code string) (*Session, *fakeClock) {
	s := NewSession(model.Snippet{ID: 7, Code: code, Language: "python"})
	clock := &fakeClock{at: time.Unix(1000, 0)}
	s.now = clock.now
	return s, clock
}

func TestSessionStartsOnFirstInput(t *testing.T) {
	s, _ := newTestSession("ab\ncd")
	if s.State() != StateIdle {
		t.Fatalf("expected idle state, got %v", s.State())
	}
	if s.SetInput("") {
		t.Fatalf("empty input must not complete")
	}
	if s.State() != StateIdle {
		t.Fatalf("empty input must not start the session")
	}
	if s.SetInput("a") {
		t.Fatalf("partial input must not complete")
	}
	if s.State() != StateActive {
		t.Fatalf("expected active state, got %v", s.State())
	}
}

func TestSessionCompletesOnExactMatch(t *testing.T) {
	s, clock := newTestSession(`ab\ncd`)
	s.SetInput("a")
	clock.advance(10 * time.Second)
	if !s.SetInput("ab\ncd") {
		t.Fatalf("expected completion on exact match")
	}
	if s.State() != StateComplete {
		t.Fatalf("expected complete state, got %v", s.State())
	}
	m := s.Metrics()
	if m.Errors != 0 {
		t.Fatalf("expected zero errors, got %d", m.Errors)
	}
	if m.ElapsedSeconds != 10 {
		t.Fatalf("expected 10s elapsed, got %d", m.ElapsedSeconds)
	}
	if m.WPM != 6 {
		t.Fatalf("expected 6 WPM (5 runes / 10s), got %d", m.WPM)
	}
	if m.Accuracy != 100 {
		t.Fatalf("expected 100 accuracy, got %v", m.Accuracy)
	}
}

func TestSessionCompletesExactlyOnce(t *testing.T) {
	s, _ := newTestSession("abc")
	s.SetInput("ab")
	if !s.SetInput("abc") {
		t.Fatalf("expected completion")
	}
	if s.SetInput("abc") {
		t.Fatalf("second matching input must not complete again")
	}
	if s.SetInput("abcd") {
		t.Fatalf("input after completion must be rejected")
	}
	if string(s.Input()) != "abc" {
		t.Fatalf("input after completion must not mutate the buffer, got %q", string(s.Input()))
	}
}

func TestSessionMetricsFrozenAfterCompletion(t *testing.T) {
	s, clock := newTestSession("abc")
	s.SetInput("a")
	clock.advance(3 * time.Second)
	s.SetInput("abc")
	frozen := s.Metrics()
	clock.advance(time.Minute)
	if got := s.Metrics(); got != frozen {
		t.Fatalf("metrics changed after completion: %+v vs %+v", got, frozen)
	}
	out, ok := s.Outcome()
	if !ok {
		t.Fatalf("expected outcome after completion")
	}
	if out.SnippetID != 7 || out.Language != "python" {
		t.Fatalf("unexpected outcome identity: %+v", out)
	}
	if out.WPM != frozen.WPM || out.ElapsedSeconds != frozen.ElapsedSeconds {
		t.Fatalf("outcome does not carry frozen metrics: %+v", out)
	}
}

func TestSessionOverlongInputNeverCompletes(t *testing.T) {
	s, _ := newTestSession("abc")
	s.SetInput("abcx")
	if s.State() != StateActive {
		t.Fatalf("expected active state with overlong input, got %v", s.State())
	}
	if s.Diff().Errors != 1 {
		t.Fatalf("expected 1 overflow error, got %d", s.Diff().Errors)
	}
	if s.SetInput("abcxy") {
		t.Fatalf("growing overlong input must not complete")
	}
	// Truncating back to the target completes.
	if !s.SetInput("abc") {
		t.Fatalf("expected completion after truncating back to target")
	}
}

func TestSessionAccuracyTracksCurrentInput(t *testing.T) {
	s, _ := newTestSession("abcdefghij")
	s.SetInput("abXdefghij")
	m := s.Metrics()
	if m.Errors != 1 {
		t.Fatalf("expected 1 error, got %d", m.Errors)
	}
	if m.Accuracy != 90.00 {
		t.Fatalf("expected 90.00, got %v", m.Accuracy)
	}
	// Correcting the mistake recovers the accuracy; errors are recomputed,
	// not accumulated.
	s.SetInput("abcdefghi")
	if m := s.Metrics(); m.Errors != 0 || m.Accuracy != 90.00 {
		t.Fatalf("expected 0 errors at 90.00 (9 of 10 typed), got %+v", m)
	}
}

func TestSessionOutcomeBeforeCompletion(t *testing.T) {
	s, _ := newTestSession("abc")
	s.SetInput("ab")
	if _, ok := s.Outcome(); ok {
		t.Fatalf("outcome must not exist before completion")
	}
}
