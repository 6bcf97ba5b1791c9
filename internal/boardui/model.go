// Package boardui provides the Bubble Tea leaderboard interface.
package boardui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/coderacer/internal/apiclient"
	"github.com/verte-zerg/coderacer/internal/model"
)

var (
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	selfStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

type entriesMsg struct {
	entries []model.LeaderboardEntry
	err     error
}

// Model implements the Bubble Tea leaderboard UI.
type Model struct {
	client   *apiclient.Client
	userID   string
	language string
	limit    int

	width  int
	height int

	entries []model.LeaderboardEntry
	tbl     table.Model
	loading bool
	errMsg  string
}

// NewModel constructs a leaderboard UI model.
func NewModel(client *apiclient.Client, userID, language string, limit int) *Model {
	m := &Model{
		client:   client,
		userID:   userID,
		language: language,
		limit:    limit,
		loading:  true,
	}
	m.tbl = buildTable(nil, userID, 1)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case entriesMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.entries = msg.entries
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if msg.String() == "r" {
			m.loading = true
			return m, m.fetch()
		}
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	title := "Leaderboard"
	if m.language != "" {
		title += " · " + m.language
	}
	header := padLine(titleStyle.Render(title), m.width)
	var body string
	switch {
	case m.loading:
		body = "Loading leaderboard..."
	case m.errMsg != "":
		body = errorStyle.Render("Failed to load leaderboard: " + m.errMsg)
	case len(m.entries) == 0:
		body = "No results yet."
	default:
		body = tableMutedStyle.Render(m.tbl.View())
	}
	footer := headerStyle.Render("Scroll: up/down  Refresh: r  Quit: q")
	bodyHeight := m.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return header + "\n" + fitLines(body, m.width, bodyHeight) + "\n" + padLine(footer, m.width)
}

func (m *Model) fetch() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		entries, err := m.client.Leaderboard(ctx, m.language, m.limit)
		return entriesMsg{entries: entries, err: err}
	}
}

func (m *Model) updateLayout() {
	height := m.height - 2
	if height < 1 {
		height = 1
	}
	m.tbl = buildTable(m.entries, m.userID, height)
	if m.width > 0 {
		m.tbl.SetWidth(m.width)
	}
}

func buildTable(entries []model.LeaderboardEntry, userID string, height int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "User", Width: 24},
		{Title: "Best WPM", Width: 9},
		{Title: "Avg WPM", Width: 8},
		{Title: "Avg Acc", Width: 8},
		{Title: "Races", Width: 6},
	}
	rows := make([]table.Row, 0, len(entries))
	for i, e := range entries {
		user := e.UserID
		if user == userID {
			user = selfStyle.Render(user + " (you)")
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			user,
			fmt.Sprintf("%d", e.BestWPM),
			fmt.Sprintf("%.1f", e.AvgWPM),
			fmt.Sprintf("%.1f%%", e.AvgAccuracy),
			fmt.Sprintf("%d", e.TotalRaces),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
