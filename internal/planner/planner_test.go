package planner

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/utils"
	"github.com/julianstephens/studyplan/internal/validation"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func testPlanner() *Planner {
	return New().WithIDGenerator(sequentialIDs())
}

func mustAnchor(t *testing.T, date string) time.Time {
	t.Helper()
	d, err := utils.ParseDateInLocation(date, time.UTC)
	require.NoError(t, err)
	return d
}

func blueprints(minutes ...int) []models.TemplateTask {
	tasks := make([]models.TemplateTask, len(minutes))
	for i, m := range minutes {
		tasks[i] = models.TemplateTask{
			ID:               fmt.Sprintf("bp%d", i),
			Title:            fmt.Sprintf("Bloco %d", i),
			Type:             models.TaskTypeStudy,
			EstimatedMinutes: m,
		}
	}
	return tasks
}

func minutesOf(d models.Day) []int {
	out := []int{}
	for _, t := range d.Tasks {
		out = append(out, t.EstimatedMinutes)
	}
	return out
}

func TestBuildWeeks_Shape(t *testing.T) {
	anchor := mustAnchor(t, "2026-01-05")
	weeks := BuildWeeks(anchor)

	require.Len(t, weeks, 12)
	for i, w := range weeks {
		assert.Equal(t, i+1, w.Number)
		assert.Equal(t, fmt.Sprintf("week-%d", i+1), w.ID)
		require.Len(t, w.Days, 7)

		if i == 0 {
			assert.Equal(t, models.WeekStatusInProgress, w.Status)
		} else {
			assert.Equal(t, models.WeekStatusPending, w.Status)
		}

		for offset, d := range w.Days {
			want := anchor.AddDate(0, 0, 7*i+offset).Format("2006-01-02")
			assert.Equal(t, want, d.Date, "week %d offset %d", w.Number, offset)
			if offset >= 5 {
				assert.Equal(t, 180, d.PlannedMinutes)
			} else {
				assert.Equal(t, 120, d.PlannedMinutes)
			}
			assert.Empty(t, d.Tasks)
			assert.Equal(t, fmt.Sprintf("d-%d-%d", w.Number, offset), d.ID)
		}
	}
}

func TestSeed_AnchorsOnSunday(t *testing.T) {
	loc, err := utils.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	clock := utils.FixedClock{T: time.Date(2026, 1, 11, 22, 0, 0, 0, loc)}

	plan := testPlanner().Seed(clock)

	assert.Equal(t, "2026-01-05", plan.Weeks[0].Days[0].Date)
	assert.Equal(t, "2026-01-11", plan.Weeks[0].Days[6].Date)
	assert.Len(t, plan.KPIs, 4)
	assert.NotEmpty(t, plan.Templates)
	assert.Equal(t, "Semana 1: Fundamentos e Configuração", plan.Weeks[0].Title)
	assert.Equal(t, "Semana 2: Em Breve", plan.Weeks[1].Title)
}

func TestDistribute_GreedyTrace(t *testing.T) {
	week := BuildWeeks(mustAnchor(t, "2026-01-05"))[0]
	tpl := models.Template{ID: "tpl", Title: "Trace", Goal: "g", Tasks: blueprints(40, 40, 40, 40, 60)}

	out := testPlanner().Distribute(week, tpl)

	// Monday: the third 40 fits exactly into the remaining 40.
	assert.Equal(t, []int{40, 40, 40}, minutesOf(out.Days[0]))
	// Tuesday: 40 then 60 leaves 20, too little for a filler.
	assert.Equal(t, []int{40, 60}, minutesOf(out.Days[1]))
	for offset := 2; offset < 5; offset++ {
		assert.Equal(t, []int{60, 60}, minutesOf(out.Days[offset]), "offset %d", offset)
	}
	for offset := 5; offset < 7; offset++ {
		assert.Equal(t, []int{60, 60, 60}, minutesOf(out.Days[offset]), "offset %d", offset)
	}
}

func TestDistribute_ShortFiller(t *testing.T) {
	week := BuildWeeks(mustAnchor(t, "2026-01-05"))[0]
	tpl := models.Template{Title: "Curto", Tasks: blueprints(50, 100)}

	out := testPlanner().Distribute(week, tpl)

	// 50 on Monday leaves 70: one 60 filler, then 10 unfilled.
	assert.Equal(t, []int{50, 60}, minutesOf(out.Days[0]))
	// 100 on Tuesday leaves 20.
	assert.Equal(t, []int{100}, minutesOf(out.Days[1]))

	tpl = models.Template{Title: "Curto", Tasks: blueprints(90)}
	out = testPlanner().Distribute(week, tpl)
	// 90 leaves 30: exactly one short filler.
	assert.Equal(t, []int{90, 30}, minutesOf(out.Days[0]))
	assert.True(t, IsFiller(out.Days[0].Tasks[1]))
}

func TestDistribute_CoverageAndCapacity(t *testing.T) {
	week := BuildWeeks(mustAnchor(t, "2026-01-05"))[3]
	tpl := models.Template{Title: "Cobertura", Tasks: blueprints(30, 45, 60, 90, 20, 120, 15, 75, 180, 45, 30, 60)}

	out := testPlanner().Distribute(week, tpl)

	seen := map[string]int{}
	for _, d := range out.Days {
		assert.LessOrEqual(t, d.ScheduledMinutes(), d.PlannedMinutes, "day %s over capacity", d.ID)
		assert.NotEmpty(t, d.Tasks)
		for _, task := range d.Tasks {
			assert.Equal(t, models.TaskStatusTodo, task.Status)
			if !IsFiller(task) {
				seen[task.Title]++
			}
		}
	}
	require.Len(t, seen, len(tpl.Tasks))
	for title, n := range seen {
		assert.Equal(t, 1, n, "blueprint %s placed %d times", title, n)
	}
}

func TestDistribute_LeftoversRoundRobin(t *testing.T) {
	week := BuildWeeks(mustAnchor(t, "2026-01-05"))[0]
	// The head never fits, so every blueprint is a leftover.
	tpl := models.Template{Title: "Grande", Tasks: blueprints(200, 30, 30)}

	out := testPlanner().Distribute(week, tpl)

	assert.Equal(t, []int{60, 60, 200}, minutesOf(out.Days[0]))
	assert.Equal(t, []int{60, 60, 30}, minutesOf(out.Days[1]))
	assert.Equal(t, []int{60, 60, 30}, minutesOf(out.Days[2]))
	assert.Equal(t, []int{60, 60}, minutesOf(out.Days[3]))
}

func TestDistribute_EmptyTemplate(t *testing.T) {
	week := BuildWeeks(mustAnchor(t, "2026-01-05"))[0]
	out := testPlanner().Distribute(week, models.Template{Title: "Vazio"})

	for offset, d := range out.Days {
		for _, task := range d.Tasks {
			assert.True(t, IsFiller(task))
			assert.Equal(t, models.TaskTypeReview, task.Type)
		}
		assert.Equal(t, d.PlannedMinutes, d.ScheduledMinutes(), "offset %d", offset)
	}
}

func TestDistribute_SmallCapacityForcedFiller(t *testing.T) {
	week := models.Week{Number: 1, Days: []models.Day{{ID: "d", PlannedMinutes: 20}}}
	out := testPlanner().Distribute(week, models.Template{Title: "Mini", Tasks: blueprints(45)})

	// The blueprint does not fit and 20 is below every filler size, so a
	// forced filler sized to the capacity is added before the leftover.
	require.Len(t, out.Days[0].Tasks, 2)
	assert.Equal(t, 20, out.Days[0].Tasks[0].EstimatedMinutes)
	assert.Equal(t, 45, out.Days[0].Tasks[1].EstimatedMinutes)
}

func TestDistribute_ReplacesWeekHeader(t *testing.T) {
	week := BuildWeeks(mustAnchor(t, "2026-01-05"))[4]
	week.Days[0].Tasks = []models.Task{{ID: "old", Title: "Antiga", EstimatedMinutes: 10}}
	tpl := models.Template{Title: "Semana 5: CRM", Goal: "Dominar CRM", Tasks: blueprints(30)}

	out := testPlanner().Distribute(week, tpl)

	assert.Equal(t, "Semana 5: CRM", out.Title)
	assert.Equal(t, "Dominar CRM", out.Goal)
	assert.Equal(t, models.WeekStatusInProgress, out.Status)
	for _, task := range out.Days[0].Tasks {
		assert.NotEqual(t, "old", task.ID)
	}
	// Input week and template are untouched.
	assert.Equal(t, "old", week.Days[0].Tasks[0].ID)
	assert.Equal(t, models.WeekStatusPending, week.Status)
	assert.Len(t, tpl.Tasks, 1)
}

func TestDistribute_Deterministic(t *testing.T) {
	week := BuildWeeks(mustAnchor(t, "2026-01-05"))[0]
	tpl := models.Template{Title: "Repetir", Tasks: blueprints(45, 45, 90, 30, 60)}

	first := testPlanner().Distribute(week, tpl)
	second := testPlanner().Distribute(first, tpl)

	for i := range first.Days {
		assert.Equal(t, minutesOf(first.Days[i]), minutesOf(second.Days[i]))
	}
}

func TestFromGenerated(t *testing.T) {
	anchor := mustAnchor(t, "2026-01-05")
	gen := models.GeneratedPlan{}
	for n := 12; n >= 1; n-- {
		gen.Weeks = append(gen.Weeks, models.GeneratedWeek{
			Number: n,
			Title:  fmt.Sprintf("Semana %d", n),
			Goal:   "meta",
			Tasks: []models.GeneratedTask{
				{DayOfWeek: 1, Title: "Segunda", Type: models.TaskTypeStudy, EstimatedMinutes: 60},
				{DayOfWeek: 7, Title: "Domingo", Type: models.TaskTypeReview, EstimatedMinutes: 90},
				{DayOfWeek: 0, Title: "Nenhum", Type: models.TaskTypeStudy, EstimatedMinutes: 30},
				{DayOfWeek: 8, Title: "Fora", Type: models.TaskTypeStudy, EstimatedMinutes: 30},
				{DayOfWeek: 3, Title: "Tipo", Type: "lecture", EstimatedMinutes: 30},
				{DayOfWeek: 2, Title: "Sem duração", Type: models.TaskTypeStudy, EstimatedMinutes: 0},
				{DayOfWeek: 4, Title: "Negativa", Type: models.TaskTypePractice, EstimatedMinutes: -15},
			},
		})
	}

	weeks, err := testPlanner().FromGenerated(anchor, gen)
	require.NoError(t, err)
	require.Len(t, weeks, 12)

	for i, w := range weeks {
		assert.Equal(t, i+1, w.Number)
		assert.Equal(t, anchor.AddDate(0, 0, 7*i).Format("2006-01-02"), w.Days[0].Date)
		total := 0
		for _, d := range w.Days {
			total += len(d.Tasks)
		}
		assert.Equal(t, 3, total, "week %d", w.Number)
	}
	assert.Equal(t, models.WeekStatusInProgress, weeks[0].Status)
	assert.Equal(t, models.WeekStatusPending, weeks[1].Status)
	assert.Equal(t, "Segunda", weeks[0].Days[0].Tasks[0].Title)
	assert.Equal(t, "Domingo", weeks[0].Days[6].Tasks[0].Title)
	assert.Equal(t, models.TaskTypeStudy, weeks[0].Days[2].Tasks[0].Type)
	assert.Empty(t, weeks[0].Days[1].Tasks)
	assert.Empty(t, weeks[0].Days[3].Tasks)

	result := validation.New().ValidatePlan(models.Plan{Weeks: weeks})
	for _, c := range result.Conflicts {
		assert.NotEqual(t, constants.ConflictInvalidDuration, c.Type, c.Description)
	}
}

func TestFromGenerated_RejectsIncompletePlans(t *testing.T) {
	anchor := mustAnchor(t, "2026-01-05")

	short := models.GeneratedPlan{Weeks: []models.GeneratedWeek{{Number: 1}}}
	_, err := testPlanner().FromGenerated(anchor, short)
	assert.Error(t, err)

	dup := models.GeneratedPlan{}
	for i := 0; i < 12; i++ {
		dup.Weeks = append(dup.Weeks, models.GeneratedWeek{Number: 1})
	}
	_, err = testPlanner().FromGenerated(anchor, dup)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	weeks := BuildWeeks(mustAnchor(t, "2026-01-05"))
	weeks[0].Days[0].Tasks = []models.Task{
		{ID: "a", EstimatedMinutes: 30, Status: models.TaskStatusDone},
		{ID: "b", EstimatedMinutes: 60, Status: models.TaskStatusTodo},
	}
	weeks[1].Days[3].Tasks = []models.Task{
		{ID: "c", EstimatedMinutes: 45, Status: models.TaskStatusDone},
		{ID: "d", EstimatedMinutes: 15, Status: models.TaskStatusSkipped},
	}

	s := Summarize(weeks)

	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 75, s.DoneMinutes)
	assert.InDelta(t, 50.0, s.Percent(), 0.001)
	assert.Equal(t, 1, s.Weeks[0].Completed)
	assert.Equal(t, 2, s.Weeks[0].Total)
	assert.Equal(t, 0, s.Weeks[2].Total)
	assert.Equal(t, 5*120+2*180, s.Weeks[0].PlannedMinutes)
}
