package importer

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry is one task line found under a day header.
type Entry struct {
	DayOffset int    `json:"day_offset"`
	Title     string `json:"title"`
	Minutes   int    `json:"minutes"`
}

// ParsedPlan is the intermediate form of an imported week. Title and Goal
// are empty when the text carried no such line.
type ParsedPlan struct {
	Title   string  `json:"title,omitempty"`
	Goal    string  `json:"goal,omitempty"`
	Entries []Entry `json:"entries"`
	// Days lists the offsets whose header appeared, in text order.
	Days []int `json:"days"`
}

var (
	titlePattern = regexp.MustCompile(`(?i)semana\s*\d+\s*[—–]\s*(.+?)\s*$`)
	goalPattern  = regexp.MustCompile(`(?i)^\s*meta:\s*(.+?)\s*$`)
	dayPattern   = regexp.MustCompile(`(?i)^\s*(segunda|terça|terca|quarta|quinta|sexta|sábado|sabado|domingo)`)
	taskPattern  = regexp.MustCompile(`^\s*[-•*]\s*(.+?)\s*\(\s*(\d+)\s*min\s*\)`)

	dayOffsets = map[string]int{
		"segunda": 0,
		"terça":   1,
		"terca":   1,
		"quarta":  2,
		"quinta":  3,
		"sexta":   4,
		"sábado":  5,
		"sabado":  5,
		"domingo": 6,
	}
)

// Parse reads a weekly plan written in the pt-BR text format:
//
//	Semana 3 — Dashboards
//	Meta: publicar o primeiro painel
//	Segunda
//	- Estudar métricas de vendas (60min)
//	- Construir painel (60min)
//
// Lines that match none of the patterns are ignored, as are task lines
// appearing before the first day header.
func Parse(text string) ParsedPlan {
	parsed := ParsedPlan{Entries: []Entry{}, Days: []int{}}
	current := -1

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if m := dayPattern.FindStringSubmatch(line); m != nil {
			current = dayOffsets[strings.ToLower(m[1])]
			parsed.Days = append(parsed.Days, current)
			continue
		}
		if m := goalPattern.FindStringSubmatch(line); m != nil {
			if parsed.Goal == "" {
				parsed.Goal = m[1]
			}
			continue
		}
		if m := taskPattern.FindStringSubmatch(line); m != nil {
			if current < 0 {
				continue
			}
			minutes, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			parsed.Entries = append(parsed.Entries, Entry{
				DayOffset: current,
				Title:     m[1],
				Minutes:   minutes,
			})
			continue
		}
		if m := titlePattern.FindStringSubmatch(line); m != nil && parsed.Title == "" {
			parsed.Title = m[1]
		}
	}

	return parsed
}
