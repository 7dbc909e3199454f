package timer

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studyplan/internal/constants"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 2).
			Align(lipgloss.Center)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(1, 0).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Width(40).
			Align(lipgloss.Center)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)
)

type Phase int

const (
	PhaseFocus Phase = iota
	PhaseBreak
)

func (p Phase) String() string {
	if p == PhaseBreak {
		return "Break"
	}
	return "Focus"
}

func (p Phase) duration() time.Duration {
	if p == PhaseBreak {
		return constants.BreakDuration
	}
	return constants.FocusDuration
}

// TickMsg advances a running timer by one second. Ticks carrying a stale tag
// are dropped so pausing and resuming never doubles the rate.
type TickMsg struct {
	Tag  int
	Time time.Time
}

// PhaseDoneMsg is emitted when a focus or break period runs out.
type PhaseDoneMsg struct {
	Finished Phase
	Task     string
}

// Model is a 25/5 focus timer bound to a task title. It is purely
// presentational and never touches the plan.
type Model struct {
	Task      string
	Phase     Phase
	Remaining time.Duration
	Running   bool
	Cycles    int
	tag       int
	width     int
	height    int
}

func New() Model {
	return Model{Phase: PhaseFocus, Remaining: constants.FocusDuration}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) tick() tea.Cmd {
	tag := m.tag
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Tag: tag, Time: t}
	})
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Bind attaches the timer to a task. Switching to a different task resets
// the timer.
func (m *Model) Bind(task string) {
	if task == m.Task {
		return
	}
	m.Task = task
	m.Reset()
}

// Toggle starts or pauses the timer.
func (m *Model) Toggle() tea.Cmd {
	if m.Running {
		m.Running = false
		m.tag++
		return nil
	}
	m.Running = true
	m.tag++
	return m.tick()
}

func (m *Model) Reset() {
	m.Running = false
	m.tag++
	m.Phase = PhaseFocus
	m.Remaining = PhaseFocus.duration()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if !m.Running || msg.Tag != m.tag {
			return m, nil
		}
		m.Remaining -= time.Second
		if m.Remaining > 0 {
			return m, m.tick()
		}
		finished := m.Phase
		if finished == PhaseFocus {
			m.Cycles++
			m.Phase = PhaseBreak
		} else {
			m.Phase = PhaseFocus
		}
		m.Remaining = m.Phase.duration()
		task := m.Task
		return m, tea.Batch(m.tick(), func() tea.Msg {
			return PhaseDoneMsg{Finished: finished, Task: task}
		})
	}
	return m, nil
}

func (m Model) View() string {
	task := m.Task
	if task == "" {
		task = "No task selected"
	}
	state := "paused"
	if m.Running {
		state = "running"
	}
	mins := int(m.Remaining / time.Minute)
	secs := int((m.Remaining % time.Minute) / time.Second)

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(fmt.Sprintf("%s: %s", m.Phase, task)),
		clockStyle.Render(fmt.Sprintf("%02d:%02d", mins, secs)),
		hintStyle.Render(fmt.Sprintf("%s | %d focus block(s) completed", state, m.Cycles)),
	)

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}
