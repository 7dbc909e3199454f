package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studyplan/internal/models"
)

// newApplyForm asks which template to apply and to which week.
func newApplyForm(fm *ApplyFormModel, templates []models.Template, weeks []models.Week) *huh.Form {
	tplOptions := make([]huh.Option[string], 0, len(templates))
	for _, t := range templates {
		tplOptions = append(tplOptions, huh.NewOption(fmt.Sprintf("%s (%d min)", t.Title, t.TotalMinutes()), t.ID))
	}
	weekOptions := make([]huh.Option[int], 0, len(weeks))
	for _, w := range weeks {
		weekOptions = append(weekOptions, huh.NewOption(fmt.Sprintf("Week %d - %s", w.Number, w.Title), w.Number))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Template").
				Options(tplOptions...).
				Value(&fm.TemplateID),
			huh.NewSelect[int]().
				Title("Week").
				Options(weekOptions...).
				Value(&fm.Week),
			huh.NewConfirm().
				Title("Replace every task in the week?").
				Description("Statuses recorded for the week are discarded.").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}

// newImportForm collects weekly text in the day-tagged import format.
func newImportForm(fm *ImportFormModel, weekNumber int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(fmt.Sprintf("Import tasks into week %d", weekNumber)).
				Description("Day headers (Segunda..Domingo) followed by '- Title (60min)' lines. Existing tasks are replaced.").
				Lines(12).
				Value(&fm.Text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("nothing to import")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func newNoteForm(fm *NoteFormModel, date string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(fmt.Sprintf("Note for %s", date)).
				Lines(5).
				Value(&fm.Content).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("note cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func newConfirmationForm(fm *ConfirmationFormModel, message string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}

// updateForm forwards msg to the active form and reports its state.
func (m *Model) updateForm(msg tea.Msg) (huh.FormState, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return m.form.State, cmd
}
