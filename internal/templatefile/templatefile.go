// Package templatefile reads week templates from YAML, TOML or JSON files.
package templatefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/studyplan/internal/importer"
	"github.com/julianstephens/studyplan/internal/models"
)

// document is the multi-template layout:
//
//	templates:
//	  - title: ...
type document struct {
	Templates []models.Template `json:"templates" yaml:"templates" toml:"templates"`
}

// Extensions lists the file extensions Load understands.
var Extensions = []string{".yaml", ".yml", ".toml", ".json"}

// Load reads the templates defined in path. A file may hold a single
// template, a list of templates, or a "templates" list. Tasks without a
// type are classified from their title.
func Load(path string) ([]models.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var templates []models.Template
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		templates, err = decodeYAML(data)
	case ".toml":
		templates, err = decodeTOML(data)
	case ".json":
		templates, err = decodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported template file extension %q (expected one of %s)", ext, strings.Join(Extensions, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("%s defines no templates", filepath.Base(path))
	}

	for i := range templates {
		normalize(&templates[i])
		if err := templates[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s: template %d: %w", filepath.Base(path), i+1, err)
		}
	}
	return templates, nil
}

// LoadDir loads every template file in dir, in file name order. A missing
// directory yields no templates.
func LoadDir(dir string) ([]models.Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read templates directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !supported(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var all []models.Template
	for _, name := range names {
		templates, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		all = append(all, templates...)
	}
	return all, nil
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func normalize(t *models.Template) {
	t.Title = strings.TrimSpace(t.Title)
	for i := range t.Tasks {
		t.Tasks[i].Title = strings.TrimSpace(t.Tasks[i].Title)
		if t.Tasks[i].Type == "" {
			t.Tasks[i].Type = importer.Classify(t.Tasks[i].Title)
		}
	}
}

func decodeYAML(data []byte) ([]models.Template, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	node := root.Content[0]

	switch node.Kind {
	case yaml.SequenceNode:
		var list []models.Template
		err := node.Decode(&list)
		return list, err
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "templates" {
				var doc document
				err := node.Decode(&doc)
				return doc.Templates, err
			}
		}
		var single models.Template
		if err := node.Decode(&single); err != nil {
			return nil, err
		}
		return []models.Template{single}, nil
	}
	return nil, fmt.Errorf("unexpected YAML document at line %d", node.Line)
}

func decodeTOML(data []byte) ([]models.Template, error) {
	var doc document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, err
	}
	if md.IsDefined("templates") {
		return doc.Templates, nil
	}

	var single models.Template
	if _, err := toml.Decode(string(data), &single); err != nil {
		return nil, err
	}
	return []models.Template{single}, nil
}

func decodeJSON(data []byte) ([]models.Template, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []models.Template
		err := json.Unmarshal(trimmed, &list)
		return list, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, err
	}
	if _, ok := probe["templates"]; ok {
		var doc document
		err := json.Unmarshal(trimmed, &doc)
		return doc.Templates, err
	}
	var single models.Template
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, err
	}
	return []models.Template{single}, nil
}
