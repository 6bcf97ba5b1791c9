package race

import (
	"time"

	"github.com/verte-zerg/coderacer/internal/model"
)

// State identifies the session lifecycle phase.
type State int

// Session states. Complete is terminal.
const (
	StateIdle State = iota
	StateActive
	StateComplete
)

// Outcome is the frozen result of a completed session, produced exactly
// once on the transition to StateComplete.
type Outcome struct {
	SnippetID      int64
	Language       string
	WPM            int
	Accuracy       float64
	ElapsedSeconds int
	Errors         int
}

// Session owns one race against a snippet. It is not safe for concurrent
// use; keystrokes and timer ticks must be applied from a single loop.
type Session struct {
	snippet model.Snippet
	target  []rune
	input   []rune
	diff    Diff

	state     State
	startedAt time.Time
	final     Metrics

	now func() time.Time
}

// NewSession constructs an idle session for a freshly fetched snippet,
// normalizing its code once.
func NewSession(snippet model.Snippet) *Session {
	return &Session{
		snippet: snippet,
		target:  []rune(Normalize(snippet.Code)),
		now:     time.Now,
	}
}

// SetInput replaces the input buffer and re-runs the diff. The first
// non-empty input starts the timer; input after completion is rejected.
// It reports true only on the single transition to StateComplete, which
// freezes the final metrics at the completion instant.
func (s *Session) SetInput(text string) (completed bool) {
	if s.state == StateComplete {
		return false
	}
	normalized := Normalize(text)
	s.input = []rune(normalized)
	if s.state == StateIdle && len(s.input) > 0 {
		s.state = StateActive
		s.startedAt = s.now()
	}
	s.diff = Compare(s.target, s.input)

	// Exact match only: overlong input can never complete until truncated
	// back to the target.
	if s.state == StateActive && len(s.input) == len(s.target) && normalized == string(s.target) {
		s.final = s.metricsAt(s.now())
		s.state = StateComplete
		return true
	}
	return false
}

// Metrics derives the current figures. After completion it returns the
// frozen values rather than recomputing against a later instant.
func (s *Session) Metrics() Metrics {
	if s.state == StateComplete {
		return s.final
	}
	return s.metricsAt(s.now())
}

func (s *Session) metricsAt(at time.Time) Metrics {
	var elapsed time.Duration
	if s.state != StateIdle {
		elapsed = at.Sub(s.startedAt)
	}
	return Metrics{
		WPM:            WPM(len(s.input), elapsed),
		Accuracy:       Accuracy(len(s.target), len(s.input), s.diff.Errors),
		ElapsedSeconds: ElapsedSeconds(elapsed),
		Errors:         s.diff.Errors,
	}
}

// Outcome returns the frozen outcome; ok is false until the session
// completes.
func (s *Session) Outcome() (Outcome, bool) {
	if s.state != StateComplete {
		return Outcome{}, false
	}
	return Outcome{
		SnippetID:      s.snippet.ID,
		Language:       s.snippet.Language,
		WPM:            s.final.WPM,
		Accuracy:       s.final.Accuracy,
		ElapsedSeconds: s.final.ElapsedSeconds,
		Errors:         s.final.Errors,
	}, true
}

// State returns the lifecycle phase.
func (s *Session) State() State { return s.state }

// Snippet returns the snippet this session races against.
func (s *Session) Snippet() model.Snippet { return s.snippet }

// Target returns the normalized snippet runes.
func (s *Session) Target() []rune { return s.target }

// Input returns the normalized input runes.
func (s *Session) Input() []rune { return s.input }

// Diff returns the classification of the current input.
func (s *Session) Diff() Diff { return s.diff }
