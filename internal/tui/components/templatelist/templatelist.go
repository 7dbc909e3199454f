package templatelist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/studyplan/internal/models"
)

// ApplyTemplateMsg asks the parent to apply a template to a week.
type ApplyTemplateMsg struct {
	Template models.Template
}

type DeleteTemplateMsg struct {
	ID string
}

type Item struct {
	Template models.Template
}

func (i Item) Title() string { return i.Template.Title }
func (i Item) Description() string {
	desc := fmt.Sprintf("%d tasks | %d min", len(i.Template.Tasks), i.Template.TotalMinutes())
	if i.Template.WeekNumber > 0 {
		desc = fmt.Sprintf("week %d | %s", i.Template.WeekNumber, desc)
	}
	return desc
}
func (i Item) FilterValue() string { return i.Template.Title }

type KeyMap struct {
	Apply  key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(templates []models.Template, width, height int) Model {
	l := list.New(items(templates), list.NewDefaultDelegate(), width, height)
	l.Title = "Templates"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Apply, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Apply, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func items(templates []models.Template) []list.Item {
	out := make([]list.Item, len(templates))
	for i, t := range templates {
		out[i] = Item{Template: t}
	}
	return out
}

func (m *Model) SetTemplates(templates []models.Template) {
	m.list.SetItems(items(templates))
}

// Filtering reports whether the list is capturing keystrokes for its filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Apply):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ApplyTemplateMsg(i) }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteTemplateMsg{ID: i.Template.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No templates yet.\n  Add one with 'studyplan template add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
