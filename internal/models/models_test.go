package models

import (
	"encoding/json"
	"testing"
)

func TestTemplate_Validate(t *testing.T) {
	tests := []struct {
		name     string
		template Template
		wantErr  bool
	}{
		{
			name: "valid template",
			template: Template{
				Title: "Semana 2: CRM",
				Tasks: []TemplateTask{
					{Title: "Ler documentação", Type: TaskTypeReview, EstimatedMinutes: 30},
				},
			},
			wantErr: false,
		},
		{
			name:     "empty template is valid",
			template: Template{Title: "Vazio"},
			wantErr:  false,
		},
		{
			name:     "missing title",
			template: Template{},
			wantErr:  true,
		},
		{
			name: "zero minutes",
			template: Template{
				Title: "x",
				Tasks: []TemplateTask{{Title: "a", Type: TaskTypeStudy, EstimatedMinutes: 0}},
			},
			wantErr: true,
		},
		{
			name: "unknown type",
			template: Template{
				Title: "x",
				Tasks: []TemplateTask{{Title: "a", Type: "lecture", EstimatedMinutes: 10}},
			},
			wantErr: true,
		},
		{
			name: "task without title",
			template: Template{
				Title: "x",
				Tasks: []TemplateTask{{Type: TaskTypeStudy, EstimatedMinutes: 10}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.template.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskStatus_Next(t *testing.T) {
	status := TaskStatusTodo
	seen := []TaskStatus{status}
	for i := 0; i < 4; i++ {
		status = status.Next()
		seen = append(seen, status)
	}
	want := []TaskStatus{TaskStatusTodo, TaskStatusDoing, TaskStatusDone, TaskStatusSkipped, TaskStatusTodo}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("step %d: got %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestParseTaskStatus(t *testing.T) {
	if _, err := ParseTaskStatus("done"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseTaskStatus("finished"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestKPI_Progress(t *testing.T) {
	tests := []struct {
		kpi  KPI
		want float64
	}{
		{KPI{Baseline: 0, Target: 200, Current: 50}, 25},
		{KPI{Baseline: 0, Target: 100, Current: 150}, 100},
		{KPI{Baseline: 10, Target: 20, Current: 5}, 0},
		{KPI{Baseline: 10, Target: 10, Current: 10}, 0},
	}
	for _, tt := range tests {
		if got := tt.kpi.Progress(); got != tt.want {
			t.Errorf("Progress(%+v) = %v, want %v", tt.kpi, got, tt.want)
		}
	}
}

func TestNote_UnmarshalCamelCase(t *testing.T) {
	var n Note
	data := []byte(`{"id":"n1","dayId":"d-1-0","content":"ok","createdAt":"2026-01-05T10:00:00Z"}`)
	if err := json.Unmarshal(data, &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n.DayID != "d-1-0" || n.CreatedAt != "2026-01-05T10:00:00Z" {
		t.Errorf("camelCase keys not mapped: %+v", n)
	}

	var snake Note
	data = []byte(`{"id":"n2","day_id":"d-2-3","content":"x","created_at":"2026-01-05T10:00:00Z"}`)
	if err := json.Unmarshal(data, &snake); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snake.DayID != "d-2-3" {
		t.Errorf("DayID = %q, want d-2-3", snake.DayID)
	}
}

func TestWeek_SkeletonDoesNotAlias(t *testing.T) {
	w := Week{
		Number: 1,
		Days: []Day{
			{ID: "d-1-0", PlannedMinutes: 120, Tasks: []Task{{ID: "t1", EstimatedMinutes: 30}}},
		},
	}
	s := w.Skeleton()
	if len(s.Days[0].Tasks) != 0 {
		t.Fatalf("skeleton still has tasks")
	}
	if len(w.Days[0].Tasks) != 1 {
		t.Fatalf("skeleton mutated the original week")
	}
	if s.Days[0].PlannedMinutes != 120 {
		t.Errorf("capacity changed: %d", s.Days[0].PlannedMinutes)
	}
}

func TestPlan_CloneIsDeep(t *testing.T) {
	p := Plan{
		Weeks:     []Week{{Number: 1, Days: []Day{{ID: "d", Tasks: []Task{{ID: "t", Status: TaskStatusTodo}}}}}},
		Templates: []Template{{ID: "tpl", Tasks: []TemplateTask{{Title: "a"}}}},
	}
	c := p.Clone()
	c.Weeks[0].Days[0].Tasks[0].Status = TaskStatusDone
	c.Templates[0].Tasks[0].Title = "b"
	if p.Weeks[0].Days[0].Tasks[0].Status != TaskStatusTodo {
		t.Error("clone shares task storage with original")
	}
	if p.Templates[0].Tasks[0].Title != "a" {
		t.Error("clone shares template storage with original")
	}
}
