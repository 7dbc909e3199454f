package planner

import (
	"strings"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/models"
)

const fillerTitlePrefix = "Revisão e fixação: "

// Distribute fills a copy of week with the template's blueprints. Any tasks
// already on the week are discarded.
//
// Days are visited Monday to Sunday. Blueprints are taken from the head of
// the queue while the head fits the day's remaining minutes; the first one
// that does not fit ends the day. Remaining time is then padded with
// 60-minute review fillers and at most one 30-minute filler. Blueprints that
// never fit are dealt round-robin across the week without a capacity check.
func (p *Planner) Distribute(week models.Week, tpl models.Template) models.Week {
	out := week.Skeleton()
	out.Title = tpl.Title
	out.Goal = tpl.Goal
	out.Status = models.WeekStatusInProgress

	if len(out.Days) == 0 {
		return out
	}

	queue := tpl.Tasks
	next := 0

	for i := range out.Days {
		day := &out.Days[i]
		remaining := day.PlannedMinutes

		for next < len(queue) && queue[next].EstimatedMinutes <= remaining {
			day.Tasks = append(day.Tasks, p.instantiate(queue[next]))
			remaining -= queue[next].EstimatedMinutes
			next++
		}

		for remaining >= constants.FillerBlockMin {
			day.Tasks = append(day.Tasks, p.filler(tpl, constants.FillerBlockMin))
			remaining -= constants.FillerBlockMin
		}
		if remaining >= constants.FillerShortBlockMin {
			day.Tasks = append(day.Tasks, p.filler(tpl, constants.FillerShortBlockMin))
		}

		if len(day.Tasks) == 0 {
			day.Tasks = append(day.Tasks, p.filler(tpl, min(constants.FillerBlockMin, day.PlannedMinutes)))
		}
	}

	for counter := 0; next < len(queue); counter, next = counter+1, next+1 {
		idx := counter % len(out.Days)
		out.Days[idx].Tasks = append(out.Days[idx].Tasks, p.instantiate(queue[next]))
	}

	return out
}

func (p *Planner) filler(tpl models.Template, minutes int) models.Task {
	return models.Task{
		ID:               p.newID(),
		Title:            fillerTitlePrefix + tpl.Title,
		Type:             models.TaskTypeReview,
		EstimatedMinutes: minutes,
		Status:           models.TaskStatusTodo,
	}
}

// IsFiller reports whether a task was generated as padding by Distribute.
func IsFiller(t models.Task) bool {
	return t.Type == models.TaskTypeReview && strings.HasPrefix(t.Title, fillerTitlePrefix)
}
