package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/planner"
	"github.com/julianstephens/studyplan/internal/state"
	"github.com/julianstephens/studyplan/internal/tui/components/templatelist"
	"github.com/julianstephens/studyplan/internal/tui/components/timer"
	"github.com/julianstephens/studyplan/internal/tui/components/week"
	"github.com/julianstephens/studyplan/internal/utils"
	"github.com/julianstephens/studyplan/internal/validation"
)

// tabCount is the number of navigable tabs; states after it are overlays.
const tabCount = int(constants.StateTemplates) + 1

type ApplyFormModel struct {
	TemplateID string
	Week       int
	Confirmed  bool
}

type ImportFormModel struct {
	Text string
}

type NoteFormModel struct {
	Content string
}

type ConfirmationFormModel struct {
	Confirmed bool
}

type Model struct {
	ctrl              *state.Controller
	state             constants.SessionState
	previousState     constants.SessionState
	keys              KeyMap
	help              help.Model
	weekModel         week.Model
	timerModel        timer.Model
	templateList      templatelist.Model
	form              *huh.Form
	applyForm         *ApplyFormModel
	importForm        *ImportFormModel
	noteForm          *NoteFormModel
	confirmForm       *ConfirmationFormModel
	pendingAction     func() tea.Cmd
	noteDayID         string
	plan              models.Plan
	progress          planner.Summary
	weekNumber        int
	todayCursor       int
	focused           string
	changes           <-chan struct{}
	status            string
	validationWarning string
	quitting          bool
	width             int
	height            int
}

// NewModel builds the TUI around a loaded controller. changes, when non-nil,
// signals that the backing store was modified outside this process.
func NewModel(ctrl *state.Controller, changes <-chan struct{}) Model {
	m := Model{
		ctrl:         ctrl,
		state:        constants.StateDashboard,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		weekModel:    week.New(0, 0),
		timerModel:   timer.New(),
		templateList: templatelist.New(nil, 0, 0),
		changes:      changes,
	}
	m.refresh()
	m.weekNumber = m.currentWeekNumber()
	m.showWeek()
	if today, ok := m.ctrl.Today(); ok && today.WeekNumber == m.weekNumber {
		m.weekModel.SetDay(today.Offset)
	}
	m.bindTimer()
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// refresh pulls a fresh snapshot from the controller into every view.
func (m *Model) refresh() {
	m.plan = m.ctrl.Snapshot()
	m.progress = m.ctrl.Progress()
	m.templateList.SetTemplates(m.plan.Templates)
	m.showWeek()
	m.updateValidationStatus()
}

func (m *Model) showWeek() {
	if wi := m.plan.WeekIndex(m.weekNumber); wi >= 0 {
		m.weekModel.SetWeek(m.plan.Weeks[wi])
	}
}

// currentWeekNumber picks the week containing today, then the first week in
// progress, then week 1.
func (m Model) currentWeekNumber() int {
	if today, ok := m.ctrl.Today(); ok {
		return today.WeekNumber
	}
	for _, w := range m.plan.Weeks {
		if w.Status == models.WeekStatusInProgress {
			return w.Number
		}
	}
	if len(m.plan.Weeks) > 0 {
		return m.plan.Weeks[0].Number
	}
	return 1
}

func (m *Model) moveWeek(delta int) {
	wi := m.plan.WeekIndex(m.weekNumber)
	if wi < 0 {
		return
	}
	next := wi + delta
	if next < 0 || next >= len(m.plan.Weeks) {
		return
	}
	m.weekNumber = m.plan.Weeks[next].Number
	m.showWeek()
	m.weekModel.SetDay(0)
}

// bindTimer points the timer at the task under the Today cursor, unless a
// task was focused from the Week tab. That focus holds until the Today
// cursor moves.
func (m *Model) bindTimer() {
	today, ok := m.ctrl.Today()
	if !ok || len(today.Day.Tasks) == 0 {
		m.todayCursor = 0
	} else {
		m.todayCursor = max(0, min(m.todayCursor, len(today.Day.Tasks)-1))
	}
	if m.focused != "" {
		m.timerModel.Bind(m.focused)
		return
	}
	if !ok || len(today.Day.Tasks) == 0 {
		m.timerModel.Bind("")
		return
	}
	m.timerModel.Bind(today.Day.Tasks[m.todayCursor].Title)
}

// updateValidationStatus runs validation and updates the warning message.
func (m *Model) updateValidationStatus() {
	result := validation.New().ValidatePlan(m.plan)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) setError(err error) {
	m.status = dangerStyle.Render(fmt.Sprintf("Error: %v", err))
}

func (m Model) todayLabel() string {
	return utils.Today(m.ctrl.Clock())
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateWeek:
		keys = append(keys, m.keys.Cycle, m.keys.Apply, m.keys.Import, m.keys.Note)
	case constants.StateToday:
		keys = append(keys, m.keys.Timer, m.keys.Cycle, m.keys.Note)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}

	var navigation, actions []key.Binding
	switch m.state {
	case constants.StateWeek:
		navigation = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.PrevWeek, m.keys.NextWeek}
		actions = []key.Binding{m.keys.Cycle, m.keys.Apply, m.keys.Import, m.keys.Note, m.keys.Focus}
	case constants.StateToday:
		navigation = []key.Binding{m.keys.Up, m.keys.Down}
		actions = []key.Binding{m.keys.Timer, m.keys.ResetTimer, m.keys.Cycle, m.keys.Note}
	case constants.StateTemplates:
		navigation = []key.Binding{m.keys.Up, m.keys.Down}
	}

	return [][]key.Binding{global, navigation, actions}
}
