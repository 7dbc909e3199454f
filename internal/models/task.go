package models

import "fmt"

type TaskStatus string

const (
	TaskStatusTodo    TaskStatus = "todo"
	TaskStatusDoing   TaskStatus = "doing"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusSkipped TaskStatus = "skipped"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusDone, TaskStatusSkipped:
		return true
	}
	return false
}

// Next cycles todo -> doing -> done -> skipped -> todo.
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case TaskStatusTodo:
		return TaskStatusDoing
	case TaskStatusDoing:
		return TaskStatusDone
	case TaskStatusDone:
		return TaskStatusSkipped
	default:
		return TaskStatusTodo
	}
}

// ParseTaskStatus converts user input into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("invalid task status %q (expected todo, doing, done or skipped)", s)
	}
	return status, nil
}

type TaskType string

const (
	TaskTypeStudy    TaskType = "study"
	TaskTypePractice TaskType = "practice"
	TaskTypeReview   TaskType = "review"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeStudy, TaskTypePractice, TaskTypeReview:
		return true
	}
	return false
}

type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Type             TaskType   `json:"type"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Status           TaskStatus `json:"status"`
}

// TemplateTask is the blueprint a Task is instantiated from.
type TemplateTask struct {
	ID               string   `json:"id"`
	Title            string   `json:"title" yaml:"title" toml:"title"`
	Type             TaskType `json:"type" yaml:"type" toml:"type"`
	EstimatedMinutes int      `json:"estimated_minutes" yaml:"estimated_minutes" toml:"estimated_minutes"`
}

type Template struct {
	ID         string         `json:"id" yaml:"id" toml:"id"`
	WeekNumber int            `json:"week_number" yaml:"week_number" toml:"week_number"`
	Title      string         `json:"title" yaml:"title" toml:"title"`
	Goal       string         `json:"goal" yaml:"goal" toml:"goal"`
	Tasks      []TemplateTask `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// Validate checks the fields required before a template can be stored.
func (t *Template) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("template title cannot be empty")
	}
	for i, task := range t.Tasks {
		if task.Title == "" {
			return fmt.Errorf("task %d: title cannot be empty", i+1)
		}
		if task.EstimatedMinutes <= 0 {
			return fmt.Errorf("task %d (%s): estimated minutes must be positive", i+1, task.Title)
		}
		if !task.Type.Valid() {
			return fmt.Errorf("task %d (%s): invalid type %q", i+1, task.Title, task.Type)
		}
	}
	return nil
}

// TotalMinutes sums the estimated minutes of every blueprint.
func (t *Template) TotalMinutes() int {
	total := 0
	for _, task := range t.Tasks {
		total += task.EstimatedMinutes
	}
	return total
}

func (t Template) Clone() Template {
	c := t
	c.Tasks = append([]TemplateTask(nil), t.Tasks...)
	return c
}
