package week

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/planner"
)

var (
	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(16)

	selectedDayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true).
				Width(16)

	taskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)
)

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Model renders one week of the plan with a day and task cursor.
type Model struct {
	viewport viewport.Model
	Week     *models.Week
	day      int
	task     int
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Week == nil {
		return "No week loaded."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetWeek replaces the displayed week. The cursor is kept when the new week
// still has a task at that position.
func (m *Model) SetWeek(week models.Week) {
	w := week.Clone()
	m.Week = &w
	m.clamp()
	m.Render()
}

// SetDay moves the day cursor to offset and resets the task cursor.
func (m *Model) SetDay(offset int) {
	m.day = offset
	m.task = 0
	m.clamp()
	m.Render()
}

func (m *Model) MoveDay(delta int) {
	m.SetDay(m.day + delta)
}

func (m *Model) MoveTask(delta int) {
	m.task += delta
	m.clamp()
	m.Render()
}

// Selected returns the day offset and task index under the cursor.
func (m Model) Selected() (offset, index int, task models.Task, ok bool) {
	if m.Week == nil || m.day >= len(m.Week.Days) {
		return m.day, -1, models.Task{}, false
	}
	tasks := m.Week.Days[m.day].Tasks
	if m.task < 0 || m.task >= len(tasks) {
		return m.day, -1, models.Task{}, false
	}
	return m.day, m.task, tasks[m.task], true
}

// SelectedDay returns the day under the cursor.
func (m Model) SelectedDay() (models.Day, bool) {
	if m.Week == nil || m.day >= len(m.Week.Days) {
		return models.Day{}, false
	}
	return m.Week.Days[m.day], true
}

func (m *Model) clamp() {
	if m.Week == nil || len(m.Week.Days) == 0 {
		m.day, m.task = 0, 0
		return
	}
	if m.day < 0 {
		m.day = 0
	}
	if m.day >= len(m.Week.Days) {
		m.day = len(m.Week.Days) - 1
	}
	n := len(m.Week.Days[m.day].Tasks)
	if m.task >= n {
		m.task = n - 1
	}
	if m.task < 0 {
		m.task = 0
	}
}

func (m *Model) Render() {
	if m.Week == nil {
		m.viewport.SetContent("No week loaded.")
		return
	}

	var b strings.Builder
	cursorLine := 0
	b.WriteString(headerStyle.Render(fmt.Sprintf("Week %d - %s", m.Week.Number, m.Week.Title)))
	b.WriteString("\n")
	if m.Week.Goal != "" {
		b.WriteString(statusStyle.Render(m.Week.Goal))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, d := range m.Week.Days {
		name := fmt.Sprintf("Day %d", i+1)
		if i < len(dayNames) {
			name = dayNames[i]
		}
		label := fmt.Sprintf("%s %s", name[:3], d.Date)
		style := dayStyle
		if i == m.day {
			style = selectedDayStyle
			cursorLine = strings.Count(b.String(), "\n")
		}
		b.WriteString(fmt.Sprintf("%s %s\n",
			style.Render(label),
			statusStyle.Render(fmt.Sprintf("%d/%d min", d.ScheduledMinutes(), d.PlannedMinutes)),
		))
		if len(d.Tasks) == 0 {
			b.WriteString(statusStyle.Render("    no tasks") + "\n")
		}
		for j, t := range d.Tasks {
			cursor := "  "
			if i == m.day && j == m.task {
				cursor = cursorStyle.Render("> ")
				cursorLine = strings.Count(b.String(), "\n")
			}
			title, kind := taskStyle, string(t.Type)
			if planner.IsFiller(t) {
				title, kind = statusStyle, "filler"
			}
			b.WriteString(fmt.Sprintf("  %s%s %s %s\n",
				cursor,
				StatusMark(t.Status),
				title.Render(fmt.Sprintf("%s (%d min)", t.Title, t.EstimatedMinutes)),
				statusStyle.Render(kind),
			))
		}
	}
	m.viewport.SetContent(b.String())

	// Keep the cursor on screen.
	if m.viewport.Height > 0 {
		if cursorLine < m.viewport.YOffset {
			m.viewport.SetYOffset(cursorLine)
		} else if cursorLine >= m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(cursorLine - m.viewport.Height + 1)
		}
	}
}

// StatusMark renders a task status as a checkbox.
func StatusMark(s models.TaskStatus) string {
	switch s {
	case models.TaskStatusDone:
		return "[x]"
	case models.TaskStatusDoing:
		return "[~]"
	case models.TaskStatusSkipped:
		return "[-]"
	default:
		return "[ ]"
	}
}
