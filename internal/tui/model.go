// Package tui provides terminal user interface components for ranfuzz-ctl
package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ranfuzz/ranfuzz-ctl/internal/batch"
	"github.com/ranfuzz/ranfuzz-ctl/internal/health"
)

// EventMsg carries a controller event into the program
type EventMsg struct {
	Event batch.Event
}

// DoneMsg reports that the run returned
type DoneMsg struct {
	Report *batch.Report
	Err    error
}

// groupState is the display state of one container group
type groupState struct {
	label string
	style lipgloss.Style
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Model is the bubbletea model for the fuzz progress view
type Model struct {
	title   string
	total   int // groups in the run
	spinner spinner.Model
	bar     progress.Model

	batch   batch.Batch
	batches int
	phase   batch.Phase
	cooling bool

	groups   map[int]groupState
	finished map[int]bool

	started, completed, timedOut, failed int

	done     bool
	quitting bool
	err      error
}

// NewModel creates a progress model for a run over total groups
func NewModel(title string, total int) Model {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = activeStyle

	return Model{
		title:    title,
		total:    total,
		spinner:  s,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		groups:   make(map[int]groupState),
		finished: make(map[int]bool),
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-10, 10), 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case EventMsg:
		m.apply(msg.Event)
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// apply folds a controller event into the model
func (m *Model) apply(e batch.Event) {
	if e.Batch.Number != m.batch.Number {
		m.batch = e.Batch
		m.groups = make(map[int]groupState)
	}
	if e.Total > 0 {
		m.batches = e.Total
	}

	switch e.Type {
	case batch.EventPhase:
		m.phase = e.Phase
		m.cooling = false
	case batch.EventCooldown:
		m.cooling = true
	case batch.EventStartRequest:
		m.set(e.Index, "starting", dimStyle)
	case batch.EventStarted:
		m.started++
		m.set(e.Index, "up", activeStyle)
	case batch.EventWaiting:
		label := fmt.Sprintf("waiting for marker (%d polls, %s)", e.Attempt, health.FormatDuration(e.Elapsed))
		if e.Err != nil {
			m.set(e.Index, label+" "+e.Err.Error(), warnStyle)
		} else {
			m.set(e.Index, label, activeStyle)
		}
	case batch.EventCompleted:
		m.completed++
		m.set(e.Index, "complete", okStyle)
	case batch.EventTimedOut:
		m.timedOut++
		m.set(e.Index, "timed out after "+health.FormatDuration(e.Elapsed), warnStyle)
	case batch.EventArchived:
		m.set(e.Index, "logs archived", okStyle)
	case batch.EventStopRequest:
		m.set(e.Index, "stopping", dimStyle)
	case batch.EventStopped:
		m.finished[e.Index] = true
		m.set(e.Index, "stopped", okStyle)
	case batch.EventCommandFailed:
		m.failed++
		if m.phase == batch.PhaseStopping {
			m.finished[e.Index] = true
		}
		m.set(e.Index, "command failed", failStyle)
	}
}

func (m *Model) set(index int, label string, style lipgloss.Style) {
	if index < 0 {
		return
	}
	m.groups[index] = groupState{label: label, style: style}
}

// Percent is the share of groups that have been torn down
func (m Model) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return float64(len(m.finished)) / float64(m.total)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ranfuzz " + m.title))
	b.WriteString("\n\n")

	if m.done || m.quitting {
		b.WriteString(m.summary())
		b.WriteString("\n")
		return b.String()
	}

	status := string(m.phase)
	if m.cooling {
		status = "cooling down"
	}
	if m.batch.Number > 0 {
		b.WriteString(fmt.Sprintf("%s Batch %d/%d %s  %s\n",
			m.spinner.View(), m.batch.Number, max(m.batches, 1), m.batch.Range, dimStyle.Render(status)))
	} else {
		b.WriteString(m.spinner.View() + " " + dimStyle.Render("preparing") + "\n")
	}
	b.WriteString(m.bar.ViewAs(m.Percent()))
	b.WriteString("\n\n")

	indexes := make([]int, 0, len(m.groups))
	for n := range m.groups {
		indexes = append(indexes, n)
	}
	slices.Sort(indexes)
	for _, n := range indexes {
		g := m.groups[n]
		b.WriteString(fmt.Sprintf("  #%-7d %s\n", n, g.style.Render(g.label)))
	}

	b.WriteString("\n")
	b.WriteString(m.summary())
	b.WriteString(helpStyle.Render("[q] Quit"))
	return b.String()
}

func (m Model) summary() string {
	line := counterStyle.Render(fmt.Sprintf("started %d  completed %d  timed out %d  failed %d  stopped %d/%d",
		m.started, m.completed, m.timedOut, m.failed, len(m.finished), m.total))
	if m.err != nil {
		line += "\n" + failStyle.Render("error: "+m.err.Error())
	}
	return line
}
