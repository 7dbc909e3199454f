package templatefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/studyplan/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Formats(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		want    int
	}{
		{"yaml single", "a.yaml", `
title: Semana de redes
goal: Entender TCP
tasks:
  - title: Ler RFC 793
    type: study
    estimated_minutes: 60
  - title: Exercícios de handshake
    estimated_minutes: 40
`, 1},
		{"yaml list", "b.yml", `
- title: Um
  tasks: [{title: Ler, estimated_minutes: 30}]
- title: Dois
  tasks: [{title: Revisar, estimated_minutes: 30}]
`, 2},
		{"yaml document", "c.yaml", `
templates:
  - title: Um
    tasks: [{title: Ler, estimated_minutes: 30}]
`, 1},
		{"toml document", "d.toml", `
[[templates]]
title = "Um"
[[templates.tasks]]
title = "Ler"
estimated_minutes = 30

[[templates]]
title = "Dois"
[[templates.tasks]]
title = "Projeto final"
estimated_minutes = 90
`, 2},
		{"toml single", "e.toml", `
title = "Sozinho"
week_number = 3
[[tasks]]
title = "Ler"
estimated_minutes = 45
`, 1},
		{"json single", "f.json", `{"title":"J","tasks":[{"title":"Ler","estimated_minutes":20}]}`, 1},
		{"json list", "g.json", `[{"title":"J1","tasks":[]},{"title":"J2","tasks":[]}]`, 2},
		{"json document", "h.json", `{"templates":[{"title":"J1"}]}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(writeFile(t, dir, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("expected %d templates, got %d", tt.want, len(got))
			}
		})
	}
}

func TestLoad_ClassifiesMissingTypes(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.yaml", `
title: Semana
tasks:
  - title: Exercícios de SQL
    estimated_minutes: 40
  - title: Revisão geral
    estimated_minutes: 30
  - title: Ler capítulo 2
    estimated_minutes: 60
`)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []models.TaskType{models.TaskTypePractice, models.TaskTypeReview, models.TaskTypeStudy}
	for i, task := range got[0].Tasks {
		if task.Type != want[i] {
			t.Errorf("task %q: type = %s, want %s", task.Title, task.Type, want[i])
		}
	}
}

func TestLoad_TOMLWeekNumber(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.toml", "title = \"X\"\nweek_number = 4\n")
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got[0].WeekNumber != 4 {
		t.Errorf("week_number = %d, want 4", got[0].WeekNumber)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"bad.txt":      "title: x",
		"invalid.yaml": "title: [unterminated",
		"notitle.json": `{"tasks":[{"title":"a","estimated_minutes":10}]}`,
		"zero.yaml":    "title: x\ntasks:\n  - title: a\n    estimated_minutes: 0\n",
		"badtype.json": `{"title":"x","tasks":[{"title":"a","type":"reading","estimated_minutes":10}]}`,
		"empty.json":   `[]`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, dir, name, content)); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{"title":"Segundo"}`)
	writeFile(t, dir, "a.yaml", "title: Primeiro\n")
	writeFile(t, dir, "README.md", "# ignorado")
	if err := os.Mkdir(filepath.Join(dir, "sub.yaml"), 0700); err != nil {
		t.Fatal(err)
	}

	got, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Primeiro" || got[1].Title != "Segundo" {
		t.Errorf("unexpected templates %+v", got)
	}

	got, err = LoadDir(filepath.Join(dir, "missing"))
	if err != nil || got != nil {
		t.Errorf("missing directory should yield nothing, got %v, %v", got, err)
	}
}
