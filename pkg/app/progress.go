package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joelsnl/noveldl/pkg/services"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type progressMsg services.Progress

type closedMsg struct{}

// Model renders pipeline progress from the orchestrator's update channel.
type Model struct {
	title   string
	bar     progress.Model
	updates <-chan services.Progress
	cancel  func()

	current   services.Progress
	failed    int
	cancelled bool
	finished  bool
}

// NewModel builds the progress view. cancel is invoked on ctrl+c/q; the
// view stays up until the update channel closes so the final flush is
// visible.
func NewModel(title string, updates <-chan services.Progress, cancel func()) Model {
	return Model{
		title:   title,
		bar:     progress.New(progress.WithDefaultGradient()),
		updates: updates,
		cancel:  cancel,
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForUpdate()
}

func (m Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updates
		if !ok {
			return closedMsg{}
		}
		return progressMsg(update)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.current = services.Progress(msg)
		if msg.Err != nil {
			m.failed++
		}
		return m, m.waitForUpdate()

	case closedMsg:
		m.finished = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.cancelled && m.cancel != nil {
				m.cancelled = true
				m.cancel()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	percent := 0.0
	if m.current.Total > 0 {
		percent = float64(m.current.Done) / float64(m.current.Total)
	}
	b.WriteString("  " + m.bar.ViewAs(percent))
	b.WriteString(fmt.Sprintf("\n\n  %d/%d chapters", m.current.Done, m.current.Total))
	if m.failed > 0 {
		b.WriteString(failStyle.Render(fmt.Sprintf("  (%d failed)", m.failed)))
	}
	b.WriteString("\n")

	switch {
	case m.finished:
		b.WriteString(doneStyle.Render("  done"))
	case m.cancelled:
		b.WriteString(failStyle.Render("  cancelling, flushing completed chapters..."))
	case m.current.ChapterTitle != "":
		b.WriteString(statusStyle.Render(fmt.Sprintf("  %s: %s",
			m.current.Status, truncate(m.current.ChapterTitle, 50))))
	}
	b.WriteString("\n")
	return b.String()
}

// Run drives the progress view until the orchestrator closes its update
// channel.
func Run(title string, updates <-chan services.Progress, cancel func()) error {
	_, err := tea.NewProgram(NewModel(title, updates, cancel)).Run()
	return err
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
