package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/importer"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/tui/components/templatelist"
	"github.com/julianstephens/studyplan/internal/tui/components/timer"
)

// storeChangedMsg reports that the store was written by another process.
type storeChangedMsg struct{}

// actionDoneMsg carries the outcome of a confirmed action.
type actionDoneMsg struct {
	status string
	err    error
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.weekModel.SetSize(msg.Width-4, msg.Height-8)
		m.templateList.SetSize(msg.Width-4, msg.Height-8)
		m.timerModel.SetSize(msg.Width/2, msg.Height-8)
		return m, nil

	case timer.TickMsg:
		var cmd tea.Cmd
		m.timerModel, cmd = m.timerModel.Update(msg)
		return m, cmd

	case timer.PhaseDoneMsg:
		logger.Info("Focus timer phase finished", "phase", msg.Finished.String(), "task", msg.Task)
		if msg.Finished == timer.PhaseFocus {
			m.status = fmt.Sprintf("Focus block finished for %q. Take a break.", msg.Task)
		} else {
			m.status = "Break over. Back to work."
		}
		return m, nil

	case storeChangedMsg:
		if _, err := m.ctrl.Load(); err != nil {
			m.setError(err)
		} else {
			m.refresh()
			m.bindTimer()
			m.status = "Reloaded plan from disk"
		}
		return m, waitForChange(m.changes)

	case actionDoneMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.status = msg.status
		}
		m.refresh()
		m.bindTimer()
		return m, nil

	case constants.ConfirmationMsg:
		m.confirmForm = &ConfirmationFormModel{}
		m.form = newConfirmationForm(m.confirmForm, msg.Message)
		m.pendingAction = msg.Action
		m.previousState = m.state
		m.state = constants.StateConfirmation
		return m, m.form.Init()

	case templatelist.ApplyTemplateMsg:
		cmd := m.openApplyForm(msg.Template.ID)
		return m, cmd

	case templatelist.DeleteTemplateMsg:
		id := msg.ID
		return m, func() tea.Msg {
			return constants.ConfirmationMsg{
				Message: fmt.Sprintf("Delete template %s?", id),
				Action: func() tea.Cmd {
					return func() tea.Msg {
						deleted, err := m.ctrl.DeleteTemplate(id)
						if err != nil {
							return actionDoneMsg{err: err}
						}
						if !deleted {
							return actionDoneMsg{status: fmt.Sprintf("Template %s not found", id)}
						}
						return actionDoneMsg{status: fmt.Sprintf("Deleted template %s", id)}
					}
				},
			}
		}
	}

	switch m.state {
	case constants.StateApplyTemplate, constants.StateImportText, constants.StateAddNote, constants.StateConfirmation:
		return m.updateFormState(msg)
	}

	if mouse, ok := msg.(tea.MouseMsg); ok && m.state == constants.StateWeek {
		var cmd tea.Cmd
		m.weekModel, cmd = m.weekModel.Update(mouse)
		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	// The template list owns every key while its filter is open.
	if m.state == constants.StateTemplates && m.templateList.Filtering() {
		var cmd tea.Cmd
		m.templateList, cmd = m.templateList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Tab):
		m.state = constants.SessionState((int(m.state) + 1) % tabCount)
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.state = constants.SessionState((int(m.state) - 1 + tabCount) % tabCount)
		return m, nil
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.state {
	case constants.StateWeek:
		return m.updateWeek(keyMsg)
	case constants.StateToday:
		return m.updateToday(keyMsg)
	case constants.StateTemplates:
		var cmd tea.Cmd
		m.templateList, cmd = m.templateList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateWeek(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.weekModel.MoveTask(-1)
	case key.Matches(msg, m.keys.Down):
		m.weekModel.MoveTask(1)
	case key.Matches(msg, m.keys.Left):
		m.weekModel.MoveDay(-1)
	case key.Matches(msg, m.keys.Right):
		m.weekModel.MoveDay(1)
	case key.Matches(msg, m.keys.PrevWeek):
		m.moveWeek(-1)
	case key.Matches(msg, m.keys.NextWeek):
		m.moveWeek(1)
	case key.Matches(msg, m.keys.Cycle):
		offset, idx, task, ok := m.weekModel.Selected()
		if ok {
			m.cycleStatus(m.weekNumber, offset, idx, task.Status.Next())
		}
	case key.Matches(msg, m.keys.Apply):
		cmd := m.openApplyForm("")
		return m, cmd
	case key.Matches(msg, m.keys.Import):
		cmd := m.openImportForm()
		return m, cmd
	case key.Matches(msg, m.keys.Note):
		if day, ok := m.weekModel.SelectedDay(); ok {
			cmd := m.openNoteForm(day.ID, day.Date)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Focus):
		if _, _, task, ok := m.weekModel.Selected(); ok {
			m.focused = task.Title
			m.timerModel.Bind(task.Title)
			m.state = constants.StateToday
		}
	}
	return m, nil
}

func (m Model) updateToday(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	today, hasToday := m.ctrl.Today()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.todayCursor--
		m.focused = ""
		m.bindTimer()
	case key.Matches(msg, m.keys.Down):
		m.todayCursor++
		m.focused = ""
		m.bindTimer()
	case key.Matches(msg, m.keys.Timer):
		cmd := m.timerModel.Toggle()
		return m, cmd
	case key.Matches(msg, m.keys.ResetTimer):
		m.timerModel.Reset()
	case key.Matches(msg, m.keys.Cycle):
		if hasToday && m.todayCursor < len(today.Day.Tasks) {
			task := today.Day.Tasks[m.todayCursor]
			m.cycleStatus(today.WeekNumber, today.Offset, m.todayCursor, task.Status.Next())
		}
	case key.Matches(msg, m.keys.Note):
		if hasToday {
			cmd := m.openNoteForm(today.Day.ID, today.Date)
			return m, cmd
		}
		m.status = "Today is outside the plan"
	}
	return m, nil
}

func (m *Model) cycleStatus(weekNumber, offset, idx int, next models.TaskStatus) {
	applied, err := m.ctrl.SetTaskStatus(weekNumber, offset, idx, next)
	switch {
	case err != nil:
		m.setError(err)
	case !applied:
		m.status = "Task no longer exists"
	default:
		m.status = fmt.Sprintf("Marked task %s", next)
	}
	m.refresh()
}

func (m *Model) openApplyForm(templateID string) tea.Cmd {
	if len(m.plan.Templates) == 0 {
		m.status = "No templates to apply"
		return nil
	}
	if templateID == "" {
		templateID = m.plan.Templates[0].ID
	}
	m.applyForm = &ApplyFormModel{TemplateID: templateID, Week: m.weekNumber}
	m.form = newApplyForm(m.applyForm, m.plan.Templates, m.plan.Weeks)
	m.previousState = m.state
	m.state = constants.StateApplyTemplate
	return m.form.Init()
}

func (m *Model) openImportForm() tea.Cmd {
	m.importForm = &ImportFormModel{}
	if wi := m.plan.WeekIndex(m.weekNumber); wi >= 0 {
		m.importForm.Text = importer.Render(m.plan.Weeks[wi])
	}
	m.form = newImportForm(m.importForm, m.weekNumber)
	m.previousState = m.state
	m.state = constants.StateImportText
	return m.form.Init()
}

func (m *Model) openNoteForm(dayID, date string) tea.Cmd {
	m.noteForm = &NoteFormModel{}
	m.noteDayID = dayID
	m.form = newNoteForm(m.noteForm, date)
	m.previousState = m.state
	m.state = constants.StateAddNote
	return m.form.Init()
}

func (m Model) updateFormState(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.pendingAction = nil
		m.state = m.previousState
		return m, nil
	}

	formState, cmd := m.updateForm(msg)
	cmds := []tea.Cmd{cmd}

	switch formState {
	case huh.StateCompleted:
		cmds = append(cmds, m.completeForm())
		m.state = m.previousState
	case huh.StateAborted:
		m.pendingAction = nil
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}

// completeForm performs the mutation the finished form describes.
func (m *Model) completeForm() tea.Cmd {
	switch m.state {
	case constants.StateApplyTemplate:
		if !m.applyForm.Confirmed {
			m.status = "Template not applied"
			return nil
		}
		applied, err := m.ctrl.ApplyTemplate(m.applyForm.Week, m.applyForm.TemplateID)
		switch {
		case err != nil:
			m.setError(err)
		case !applied:
			m.status = "Week or template not found"
		default:
			m.weekNumber = m.applyForm.Week
			m.status = fmt.Sprintf("Applied template to week %d", m.applyForm.Week)
		}
		m.refresh()
		m.bindTimer()

	case constants.StateImportText:
		if err := m.ctrl.ImportText(m.weekNumber, m.importForm.Text); err != nil {
			m.setError(err)
		} else {
			m.status = fmt.Sprintf("Imported %d task(s) into week %d", len(importer.Parse(m.importForm.Text).Entries), m.weekNumber)
		}
		m.refresh()
		m.bindTimer()

	case constants.StateAddNote:
		added, err := m.ctrl.AddNote(m.noteDayID, m.noteForm.Content)
		switch {
		case err != nil:
			m.setError(err)
		case !added:
			m.status = "Day not found"
		default:
			m.status = "Note added"
		}
		m.refresh()

	case constants.StateConfirmation:
		action := m.pendingAction
		m.pendingAction = nil
		if m.confirmForm.Confirmed && action != nil {
			return action()
		}
	}
	return nil
}
