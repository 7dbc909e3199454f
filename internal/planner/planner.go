package planner

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/studyplan/internal/models"
)

// Planner builds plan skeletons and fills weeks from templates. It holds
// no plan state; every method returns fresh values.
type Planner struct {
	newID func() string
}

func New() *Planner {
	return &Planner{newID: uuid.NewString}
}

// WithIDGenerator returns a copy of the planner that mints task ids with fn.
func (p *Planner) WithIDGenerator(fn func() string) *Planner {
	return &Planner{newID: fn}
}

func (p *Planner) instantiate(bp models.TemplateTask) models.Task {
	return models.Task{
		ID:               p.newID(),
		Title:            bp.Title,
		Type:             bp.Type,
		EstimatedMinutes: bp.EstimatedMinutes,
		Status:           models.TaskStatusTodo,
	}
}

func weekID(number int) string {
	return fmt.Sprintf("week-%d", number)
}

func dayID(number, offset int) string {
	return fmt.Sprintf("d-%d-%d", number, offset)
}
