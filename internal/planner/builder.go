package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/utils"
)

const (
	firstWeekTitle = "Semana 1: Fundamentos e Configuração"
	firstWeekGoal  = "Estabelecer um ambiente de desenvolvimento sólido e entender os princípios básicos da web."
	laterWeekGoal  = "Meta para esta semana"
)

// BuildWeeks lays out the empty 12-week plan starting at anchor, which must
// be a Monday.
func BuildWeeks(anchor time.Time) []models.Week {
	weeks := make([]models.Week, constants.WeeksInPlan)
	for i := range weeks {
		number := i + 1
		start := anchor.AddDate(0, 0, 7*i)

		title := fmt.Sprintf("Semana %d: Em Breve", number)
		goal := laterWeekGoal
		status := models.WeekStatusPending
		if number == 1 {
			title = firstWeekTitle
			goal = firstWeekGoal
			status = models.WeekStatusInProgress
		}

		weeks[i] = models.Week{
			ID:     weekID(number),
			Number: number,
			Title:  title,
			Goal:   goal,
			Status: status,
			Days:   buildDays(number, start),
		}
	}
	return weeks
}

func buildDays(number int, start time.Time) []models.Day {
	days := make([]models.Day, constants.DaysInWeek)
	for offset := range days {
		days[offset] = models.Day{
			ID:             dayID(number, offset),
			Date:           start.AddDate(0, 0, offset).Format(constants.DateFormat),
			PlannedMinutes: constants.CapacityForOffset(offset),
			Tasks:          []models.Task{},
		}
	}
	return days
}

// Seed returns the initial record: twelve empty weeks anchored to the
// Monday of the clock's current week, the default KPIs and the starter
// template.
func (p *Planner) Seed(clock utils.Clock) models.Plan {
	return models.Plan{
		Version:   constants.RecordVersion,
		Weeks:     BuildWeeks(utils.WeekAnchor(clock.Now())),
		KPIs:      SeedKPIs(),
		Templates: SeedTemplates(),
		Notes:     []models.Note{},
	}
}

func SeedKPIs() []models.KPI {
	return []models.KPI{
		{ID: "kpi1", Name: "Total de Horas Estudadas", Baseline: 0, Target: 184, Current: 0, Unit: "horas"},
		{ID: "kpi2", Name: "Tarefas Concluídas", Baseline: 0, Target: 250, Current: 0, Unit: "tarefas"},
		{ID: "kpi3", Name: "Taxa de Follow-up", Baseline: 0, Target: 80, Current: 0, Unit: "%"},
		{ID: "kpi4", Name: "Taxa de Fechamento de Projetos", Baseline: 0, Target: 25, Current: 0, Unit: "%"},
	}
}

func SeedTemplates() []models.Template {
	return []models.Template{
		{
			ID:         "tpl-week-1",
			WeekNumber: 1,
			Title:      firstWeekTitle,
			Goal:       firstWeekGoal,
			Tasks: []models.TemplateTask{
				{ID: "tpl-week-1-1", Title: "Fundamentos de NoCode e LowCode", Type: models.TaskTypeStudy, EstimatedMinutes: 60},
				{ID: "tpl-week-1-2", Title: "Configurar contas e ambiente de trabalho", Type: models.TaskTypePractice, EstimatedMinutes: 45},
				{ID: "tpl-week-1-3", Title: "Ler documentação das ferramentas", Type: models.TaskTypeReview, EstimatedMinutes: 30},
				{ID: "tpl-week-1-4", Title: "Mapear um processo comercial real", Type: models.TaskTypeStudy, EstimatedMinutes: 45},
				{ID: "tpl-week-1-5", Title: "Construir o primeiro fluxo simples", Type: models.TaskTypePractice, EstimatedMinutes: 90},
				{ID: "tpl-week-1-6", Title: "Revisão da semana", Type: models.TaskTypeReview, EstimatedMinutes: 60},
			},
		},
	}
}

// FromGenerated builds the twelve weeks of a generated plan anchored at
// anchor. Tasks land on the day whose weekday matches their dayOfWeek tag;
// tasks with a tag outside 1..7 or without a positive duration are dropped. The generated plan must
// contain weeks 1..12 exactly once each.
func (p *Planner) FromGenerated(anchor time.Time, gen models.GeneratedPlan) ([]models.Week, error) {
	if len(gen.Weeks) != constants.WeeksInPlan {
		return nil, fmt.Errorf("generated plan has %d weeks, expected %d", len(gen.Weeks), constants.WeeksInPlan)
	}

	seen := make(map[int]bool, len(gen.Weeks))
	for _, gw := range gen.Weeks {
		if gw.Number < 1 || gw.Number > constants.WeeksInPlan {
			return nil, fmt.Errorf("generated week number %d out of range 1..%d", gw.Number, constants.WeeksInPlan)
		}
		if seen[gw.Number] {
			return nil, fmt.Errorf("generated plan repeats week %d", gw.Number)
		}
		seen[gw.Number] = true
	}

	sorted := append([]models.GeneratedWeek(nil), gen.Weeks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	weeks := make([]models.Week, 0, len(sorted))
	for _, gw := range sorted {
		status := models.WeekStatusPending
		if gw.Number == 1 {
			status = models.WeekStatusInProgress
		}
		week := models.Week{
			ID:     weekID(gw.Number),
			Number: gw.Number,
			Title:  gw.Title,
			Goal:   gw.Goal,
			Status: status,
			Days:   buildDays(gw.Number, anchor.AddDate(0, 0, 7*(gw.Number-1))),
		}

		for _, gt := range gw.Tasks {
			offset := gt.DayOfWeek - 1
			if offset < 0 || offset >= len(week.Days) {
				logger.Warn("Dropping generated task with unmatched day", "week", gw.Number, "task", gt.Title, "dayOfWeek", gt.DayOfWeek)
				continue
			}
			if gt.EstimatedMinutes <= 0 {
				logger.Warn("Dropping generated task without a duration", "week", gw.Number, "task", gt.Title, "estimatedMinutes", gt.EstimatedMinutes)
				continue
			}
			taskType := gt.Type
			if !taskType.Valid() {
				taskType = models.TaskTypeStudy
			}
			week.Days[offset].Tasks = append(week.Days[offset].Tasks, models.Task{
				ID:               p.newID(),
				Title:            gt.Title,
				Type:             taskType,
				EstimatedMinutes: gt.EstimatedMinutes,
				Status:           models.TaskStatusTodo,
			})
		}
		weeks = append(weeks, week)
	}
	return weeks, nil
}
