package importer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/planner"
)

const sampleWeek = `Semana 3 — Dashboards de Vendas
Meta: Publicar o primeiro painel de métricas

Segunda-feira
- Estudar métricas de funil (60min)
- Construir painel no Looker (45 min)

TERÇA
- Revisão dos conceitos (30min)
linha solta que não é tarefa
- Ler documentação da API (40min)

Sábado
• Simulado de entrevista (90min)
* Exercício de automação (60min)
`

func testImporter() *Importer {
	n := 0
	return New().WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("imp%d", n)
	})
}

func emptyWeek(t *testing.T) models.Week {
	t.Helper()
	anchor := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	return planner.BuildWeeks(anchor)[2]
}

func TestParse(t *testing.T) {
	parsed := Parse(sampleWeek)

	assert.Equal(t, "Dashboards de Vendas", parsed.Title)
	assert.Equal(t, "Publicar o primeiro painel de métricas", parsed.Goal)
	assert.Equal(t, []int{0, 1, 5}, parsed.Days)
	assert.Equal(t, []Entry{
		{DayOffset: 0, Title: "Estudar métricas de funil", Minutes: 60},
		{DayOffset: 0, Title: "Construir painel no Looker", Minutes: 45},
		{DayOffset: 1, Title: "Revisão dos conceitos", Minutes: 30},
		{DayOffset: 1, Title: "Ler documentação da API", Minutes: 40},
		{DayOffset: 5, Title: "Simulado de entrevista", Minutes: 90},
		{DayOffset: 5, Title: "Exercício de automação", Minutes: 60},
	}, parsed.Entries)
}

func TestParse_IgnoresTasksBeforeFirstHeader(t *testing.T) {
	parsed := Parse("- Tarefa órfã (30min)\nQuarta\n- Tarefa (20min)\n")
	require.Len(t, parsed.Entries, 1)
	assert.Equal(t, 2, parsed.Entries[0].DayOffset)
	assert.Empty(t, parsed.Title)
	assert.Empty(t, parsed.Goal)
}

func TestParse_EnDashAndCRLF(t *testing.T) {
	parsed := Parse("Semana 7 – Automações\r\nDomingo\r\n- Testar webhooks (30min)\r\n")
	assert.Equal(t, "Automações", parsed.Title)
	require.Len(t, parsed.Entries, 1)
	assert.Equal(t, 6, parsed.Entries[0].DayOffset)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		title string
		want  models.TaskType
	}{
		{"Ler documentação", models.TaskTypeReview},
		{"Revisão geral", models.TaskTypeReview},
		{"Simulado final", models.TaskTypeReview},
		{"Construir automação", models.TaskTypePractice},
		{"Exercícios de SQL", models.TaskTypePractice},
		{"Build a dashboard", models.TaskTypePractice},
		{"Testar integração", models.TaskTypePractice},
		{"Revisar e construir", models.TaskTypeReview},
		{"Estudar CRM", models.TaskTypeStudy},
		{"", models.TaskTypeStudy},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.title))
		})
	}
}

func TestMaterialize(t *testing.T) {
	week := emptyWeek(t)
	week.Days[4].Tasks = []models.Task{{ID: "old", Title: "Antiga", EstimatedMinutes: 30}}

	out := testImporter().Materialize(week, Parse(sampleWeek))

	assert.Equal(t, "Dashboards de Vendas", out.Title)
	assert.Equal(t, "Publicar o primeiro painel de métricas", out.Goal)
	assert.Empty(t, out.Days[4].Tasks, "days not in the text must be cleared")
	require.Len(t, out.Days[0].Tasks, 2)
	assert.Equal(t, models.TaskTypeStudy, out.Days[0].Tasks[0].Type)
	assert.Equal(t, models.TaskTypePractice, out.Days[0].Tasks[1].Type)
	assert.Equal(t, models.TaskTypeReview, out.Days[1].Tasks[1].Type)
	for _, d := range out.Days {
		for _, task := range d.Tasks {
			assert.Equal(t, models.TaskStatusTodo, task.Status)
		}
	}
	// Input is untouched.
	assert.Len(t, week.Days[4].Tasks, 1)
}

func TestMaterialize_KeepsHeaderWhenAbsent(t *testing.T) {
	week := emptyWeek(t)
	out := testImporter().Materialize(week, Parse("Quinta\n- Estudar (500min)\n"))

	assert.Equal(t, week.Title, out.Title)
	assert.Equal(t, week.Goal, out.Goal)
	require.Len(t, out.Days[3].Tasks, 1)
	// No capacity validation on import.
	assert.Equal(t, 500, out.Days[3].Tasks[0].EstimatedMinutes)
}

func TestMaterialize_EmptyTextClearsWeek(t *testing.T) {
	week := emptyWeek(t)
	week.Days[0].Tasks = []models.Task{{ID: "x", EstimatedMinutes: 10}}

	out := testImporter().Materialize(week, Parse(""))
	for _, d := range out.Days {
		assert.Empty(t, d.Tasks)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	week := emptyWeek(t)
	week.Title = "Semana 3: CRM"
	week.Goal = "Configurar o pipeline"
	week.Days[0].Tasks = []models.Task{
		{Title: "Estudar pipelines", EstimatedMinutes: 60},
		{Title: "Construir funil", EstimatedMinutes: 60},
	}
	week.Days[6].Tasks = []models.Task{{Title: "Revisão da semana", EstimatedMinutes: 90}}

	parsed := Parse(Render(week))

	assert.Equal(t, "Semana 3: CRM", parsed.Title)
	assert.Equal(t, "Configurar o pipeline", parsed.Goal)
	assert.Equal(t, []Entry{
		{DayOffset: 0, Title: "Estudar pipelines", Minutes: 60},
		{DayOffset: 0, Title: "Construir funil", Minutes: 60},
		{DayOffset: 6, Title: "Revisão da semana", Minutes: 90},
	}, parsed.Entries)
}
