package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/tui/components/week"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateDashboard:
		content = m.viewDashboard()
	case constants.StateWeek:
		content = m.viewWeek()
	case constants.StateToday:
		content = m.viewToday()
	case constants.StateTemplates:
		content = m.viewTemplates()
	case constants.StateApplyTemplate, constants.StateImportText, constants.StateAddNote, constants.StateConfirmation:
		content = docStyle.Render(m.form.View())
	}

	var banner string
	if m.validationWarning != "" && (m.state == constants.StateDashboard || m.state == constants.StateWeek) {
		banner = warningStyle.Render(m.validationWarning + " (run 'studyplan validate' for details)")
	}

	var status string
	if m.status != "" {
		status = mutedStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		banner,
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	tabTitles := []string{"Dashboard", "Week", "Today", "Templates"}
	active := m.state
	if int(active) >= tabCount {
		active = m.previousState
	}
	for i, title := range tabTitles {
		if active == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDashboard() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Overall progress"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d/%d tasks (%.0f%%), %d min studied\n\n",
		bar(m.progress.Percent()/100, 30), m.progress.Completed, m.progress.Total, m.progress.Percent(), m.progress.DoneMinutes)

	if wi := m.plan.WeekIndex(m.weekNumber); wi >= 0 {
		w := m.plan.Weeks[wi]
		b.WriteString(headerStyle.Render(fmt.Sprintf("Week %d - %s", w.Number, w.Title)))
		b.WriteString("\n")
		if w.Goal != "" {
			fmt.Fprintf(&b, "Goal: %s\n", w.Goal)
		}
		fmt.Fprintf(&b, "Status: %s\n\n", w.Status)
	}

	b.WriteString(headerStyle.Render("KPIs"))
	b.WriteString("\n")
	if len(m.plan.KPIs) == 0 {
		b.WriteString(mutedStyle.Render("no KPIs defined"))
		b.WriteString("\n")
	}
	for _, k := range m.plan.KPIs {
		fmt.Fprintf(&b, "%-28s %s %s / %s %s\n",
			k.Name, bar(k.Progress()/100, 20), formatNumber(k.Current), formatNumber(k.Target), k.Unit)
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Weeks"))
	b.WriteString("\n")
	for _, wp := range m.progress.Weeks {
		fraction := 0.0
		if wp.Total > 0 {
			fraction = float64(wp.Completed) / float64(wp.Total)
		}
		line := fmt.Sprintf("%2d %s %3d/%-3d %s", wp.Number, bar(fraction, 12), wp.Completed, wp.Total, wp.Title)
		if wp.Number == m.weekNumber {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return docStyle.Render(b.String())
}

func (m Model) viewWeek() string {
	content := m.weekModel.View()
	if day, ok := m.weekModel.SelectedDay(); ok {
		if notes := m.plan.NotesForDay(day.ID); len(notes) > 0 {
			content = lipgloss.JoinVertical(lipgloss.Left, content, "", viewNotes(notes))
		}
	}
	return docStyle.Render(content)
}

func (m Model) viewToday() string {
	today, ok := m.ctrl.Today()
	if !ok {
		msg := fmt.Sprintf("%s is outside the plan.", m.todayLabel())
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, mutedStyle.Render(msg), "", m.timerModel.View()))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Today %s - week %d", today.Date, today.WeekNumber)))
	b.WriteString("\n\n")
	if len(today.Day.Tasks) == 0 {
		b.WriteString(mutedStyle.Render("Nothing scheduled today."))
		b.WriteString("\n")
	}
	for i, t := range today.Day.Tasks {
		line := fmt.Sprintf("%s %s (%d min)", week.StatusMark(t.Status), t.Title, t.EstimatedMinutes)
		if i == m.todayCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n%s\n", mutedStyle.Render(fmt.Sprintf("%d/%d min scheduled", today.Day.ScheduledMinutes(), today.Day.PlannedMinutes)))
	if len(today.Notes) > 0 {
		b.WriteString("\n")
		b.WriteString(viewNotes(today.Notes))
	}

	return docStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, b.String(), "    ", m.timerModel.View()))
}

func (m Model) viewTemplates() string {
	return docStyle.Render(m.templateList.View())
}

func viewNotes(notes []models.Note) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Notes"))
	for _, n := range notes {
		fmt.Fprintf(&b, "\n- %s", n.Content)
	}
	return b.String()
}

func bar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	return barFillStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
