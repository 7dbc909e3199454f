package importer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/studyplan/internal/models"
)

var (
	reviewKeywords   = []string{"revis", "recap", "review", "simulad", "document"}
	practiceKeywords = []string{"prátic", "pratic", "practice", "exercí", "exercic", "exercise", "constru", "build", "test", "projeto"}

	dayNames = []string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado", "Domingo"}
)

// Classify infers a task type from its title. Review keywords win over
// practice keywords; anything else is study.
func Classify(title string) models.TaskType {
	lower := strings.ToLower(title)
	for _, kw := range reviewKeywords {
		if strings.Contains(lower, kw) {
			return models.TaskTypeReview
		}
	}
	for _, kw := range practiceKeywords {
		if strings.Contains(lower, kw) {
			return models.TaskTypePractice
		}
	}
	return models.TaskTypeStudy
}

type Importer struct {
	newID func() string
}

func New() *Importer {
	return &Importer{newID: uuid.NewString}
}

// WithIDGenerator returns a copy of the importer that mints task ids with fn.
func (im *Importer) WithIDGenerator(fn func() string) *Importer {
	return &Importer{newID: fn}
}

// Materialize clears every day of a copy of week and fills it with the
// parsed entries in text order. Title and goal are replaced only when the
// parsed plan carries them. Capacity is not checked.
func (im *Importer) Materialize(week models.Week, parsed ParsedPlan) models.Week {
	out := week.Skeleton()
	if parsed.Title != "" {
		out.Title = parsed.Title
	}
	if parsed.Goal != "" {
		out.Goal = parsed.Goal
	}

	for _, e := range parsed.Entries {
		if e.DayOffset < 0 || e.DayOffset >= len(out.Days) {
			continue
		}
		out.Days[e.DayOffset].Tasks = append(out.Days[e.DayOffset].Tasks, models.Task{
			ID:               im.newID(),
			Title:            e.Title,
			Type:             Classify(e.Title),
			EstimatedMinutes: e.Minutes,
			Status:           models.TaskStatusTodo,
		})
	}
	return out
}

// Render writes a week back out in the text format Parse reads. Days
// without tasks are omitted.
func Render(week models.Week) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Semana %d — %s\n", week.Number, week.Title)
	if week.Goal != "" {
		fmt.Fprintf(&b, "Meta: %s\n", week.Goal)
	}
	for offset, day := range week.Days {
		if len(day.Tasks) == 0 || offset >= len(dayNames) {
			continue
		}
		fmt.Fprintf(&b, "\n%s (%s)\n", dayNames[offset], day.Date)
		for _, t := range day.Tasks {
			fmt.Fprintf(&b, "- %s (%dmin)\n", t.Title, t.EstimatedMinutes)
		}
	}
	return b.String()
}
