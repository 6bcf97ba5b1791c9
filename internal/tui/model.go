// Package tui provides the Bubble Tea racing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/coderacer/internal/apiclient"
	"github.com/verte-zerg/coderacer/internal/model"
	"github.com/verte-zerg/coderacer/internal/race"
)

const tickInterval = 100 * time.Millisecond

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	resultStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

type snippetMsg struct {
	snippet    model.Snippet
	err        error
	generation int
}

type tickMsg struct {
	generation int
}

type submitMsg struct {
	err error
}

// Model implements the Bubble Tea race UI.
type Model struct {
	client   *apiclient.Client
	userID   string
	language string

	width  int
	height int

	session *race.Session
	input   []rune
	loading bool
	loadErr error

	// generation invalidates snippet fetches and timer ticks issued for
	// an abandoned race.
	generation int

	finished  bool
	outcome   race.Outcome
	submitted bool
	submitErr error
}

// NewModel constructs a race TUI model.
func NewModel(client *apiclient.Client, userID, language string) *Model {
	return &Model{
		client:   client,
		userID:   userID,
		language: language,
		loading:  true,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.fetchSnippet()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case snippetMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		m.loadErr = nil
		m.session = race.NewSession(msg.snippet)
		m.input = nil
		return m, nil
	case tickMsg:
		if msg.generation != m.generation || m.session == nil || m.session.State() != race.StateActive {
			return m, nil
		}
		return m, m.tick()
	case submitMsg:
		m.submitted = msg.err == nil
		m.submitErr = msg.err
		if msg.err != nil {
			logErrf("failed to submit result: %v\n", msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyCtrlN:
		return m, m.newRace()
	}
	if m.session == nil || m.finished {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
			m.session.SetInput(string(m.input))
		}
		return m, nil
	case tea.KeyEnter:
		return m, m.typeRunes([]rune{'\n'})
	case tea.KeyTab:
		return m, m.typeRunes([]rune{'\t'})
	case tea.KeySpace:
		return m, m.typeRunes([]rune{' '})
	case tea.KeyRunes:
		return m, m.typeRunes(msg.Runes)
	default:
		return m, nil
	}
}

// typeRunes appends keystrokes to the input buffer. The first keystroke
// starts the timer and the footer tick; the completing keystroke freezes
// the outcome and fires off the submission.
func (m *Model) typeRunes(runes []rune) tea.Cmd {
	wasIdle := m.session.State() == race.StateIdle
	m.input = append(m.input, runes...)
	completed := m.session.SetInput(string(m.input))
	if completed {
		outcome, ok := m.session.Outcome()
		if !ok {
			return nil
		}
		m.finished = true
		m.outcome = outcome
		return m.submit(outcome)
	}
	if wasIdle && m.session.State() == race.StateActive {
		return m.tick()
	}
	return nil
}

func (m *Model) newRace() tea.Cmd {
	m.generation++
	m.session = nil
	m.input = nil
	m.loading = true
	m.loadErr = nil
	m.finished = false
	m.submitted = false
	m.submitErr = nil
	return m.fetchSnippet()
}

func (m *Model) fetchSnippet() tea.Cmd {
	generation := m.generation
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		snippet, err := m.client.FetchSnippet(ctx, m.language)
		return snippetMsg{snippet: snippet, err: err, generation: generation}
	}
}

func (m *Model) tick() tea.Cmd {
	generation := m.generation
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}

func (m *Model) submit(outcome race.Outcome) tea.Cmd {
	req := apiclient.ResultRequest{
		UserID:    m.userID,
		SnippetID: outcome.SnippetID,
		WPM:       outcome.WPM,
		Accuracy:  outcome.Accuracy,
		Time:      outcome.ElapsedSeconds,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := m.client.SubmitResult(ctx, req)
		return submitMsg{err: err}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	switch {
	case m.loading:
		return m.place(footerStyle.Render("fetching snippet..."))
	case m.loadErr != nil:
		msg := incorrectStyle.Render(fmt.Sprintf("error: %v", m.loadErr)) +
			"\n" + footerStyle.Render("ctrl+n retry · ctrl+c quit")
		return m.place(msg)
	case m.finished:
		return m.place(m.renderResult())
	case m.session == nil:
		return ""
	}

	snippet := m.session.Snippet()
	header := headerStyle.Render(fmt.Sprintf("%s · %s · %s", snippet.Title, snippet.Language, snippet.Difficulty))

	cursorIndex := -1
	if len(m.session.Input()) < len(m.session.Target()) {
		cursorIndex = len(m.session.Input())
	}
	styledRunes := buildStyledRunes(m.session.Target(), m.session.Input(), m.session.Diff(), cursorIndex)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.80)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := header + "\n\n" + lipgloss.NewStyle().Width(contentWidth).Render(wrapped)

	footer := footerStyle.Render(footerText(m.session.Metrics(), len(m.session.Input()), len(m.session.Target())))
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderResult() string {
	lines := resultStyle.Render("Race complete!") + "\n\n" +
		fmt.Sprintf("WPM       %d\n", m.outcome.WPM) +
		fmt.Sprintf("Accuracy  %.2f%%\n", m.outcome.Accuracy) +
		fmt.Sprintf("Time      %ds\n", m.outcome.ElapsedSeconds) +
		fmt.Sprintf("Errors    %d\n", m.outcome.Errors)
	switch {
	case m.submitErr != nil:
		lines += "\n" + incorrectStyle.Render("result not saved")
	case m.submitted:
		lines += "\n" + footerStyle.Render("result saved")
	default:
		lines += "\n" + footerStyle.Render("saving result...")
	}
	lines += "\n\n" + footerStyle.Render("ctrl+n next race · ctrl+c quit")
	return lines
}

func (m *Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func footerText(metrics race.Metrics, typed, total int) string {
	progress := 0
	if total > 0 {
		progress = typed * 100 / total
		if progress > 100 {
			progress = 100
		}
	}
	return fmt.Sprintf("Progress %d%%  %d WPM · %.1f%% · %ds · %d errors",
		progress, metrics.WPM, metrics.Accuracy, metrics.ElapsedSeconds, metrics.Errors)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
