package models

import "encoding/json"

type WeekStatus string

const (
	WeekStatusPending    WeekStatus = "pending"
	WeekStatusInProgress WeekStatus = "in-progress"
	WeekStatusCompleted  WeekStatus = "completed"
)

func (s WeekStatus) Valid() bool {
	switch s {
	case WeekStatusPending, WeekStatusInProgress, WeekStatusCompleted:
		return true
	}
	return false
}

type Day struct {
	ID             string `json:"id"`
	Date           string `json:"date"` // YYYY-MM-DD format
	PlannedMinutes int    `json:"planned_minutes"`
	Tasks          []Task `json:"tasks"`
}

// ScheduledMinutes sums the estimates of the day's tasks.
func (d *Day) ScheduledMinutes() int {
	total := 0
	for _, t := range d.Tasks {
		total += t.EstimatedMinutes
	}
	return total
}

type Week struct {
	ID     string     `json:"id"`
	Number int        `json:"number"`
	Title  string     `json:"title"`
	Goal   string     `json:"goal"`
	Status WeekStatus `json:"status"`
	Days   []Day      `json:"days"`
}

// Clone returns a deep copy of the week.
func (w Week) Clone() Week {
	c := w
	c.Days = make([]Day, len(w.Days))
	for i, d := range w.Days {
		c.Days[i] = d
		c.Days[i].Tasks = append([]Task(nil), d.Tasks...)
	}
	return c
}

// Skeleton returns a copy of the week with every task removed. Dates and
// capacities are kept as created.
func (w Week) Skeleton() Week {
	c := w.Clone()
	for i := range c.Days {
		c.Days[i].Tasks = []Task{}
	}
	return c
}

type KPI struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Baseline float64 `json:"baseline"`
	Target   float64 `json:"target"`
	Current  float64 `json:"current"`
	Unit     string  `json:"unit"`
}

// Progress returns how far current is between baseline and target, clamped
// to [0, 100].
func (k KPI) Progress() float64 {
	span := k.Target - k.Baseline
	if span <= 0 {
		return 0
	}
	p := (k.Current - k.Baseline) / span * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

type Note struct {
	ID        string `json:"id"`
	DayID     string `json:"day_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"` // RFC3339 timestamp
}

// UnmarshalJSON also accepts the camelCase keys written by older exports.
func (n *Note) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           string `json:"id"`
		DayID        string `json:"day_id"`
		DayIDCamel   string `json:"dayId"`
		Content      string `json:"content"`
		CreatedAt    string `json:"created_at"`
		CreatedCamel string `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.ID = raw.ID
	n.Content = raw.Content
	n.DayID = raw.DayID
	if n.DayID == "" {
		n.DayID = raw.DayIDCamel
	}
	n.CreatedAt = raw.CreatedAt
	if n.CreatedAt == "" {
		n.CreatedAt = raw.CreatedCamel
	}
	return nil
}

// Plan is the whole persisted record.
type Plan struct {
	Version   int        `json:"version"`
	Weeks     []Week     `json:"weeks"`
	KPIs      []KPI      `json:"kpis"`
	Templates []Template `json:"templates"`
	Notes     []Note     `json:"notes"`
}

// Clone returns a deep copy of the plan.
func (p Plan) Clone() Plan {
	c := p
	c.Weeks = make([]Week, len(p.Weeks))
	for i, w := range p.Weeks {
		c.Weeks[i] = w.Clone()
	}
	c.KPIs = append([]KPI(nil), p.KPIs...)
	c.Templates = make([]Template, len(p.Templates))
	for i, t := range p.Templates {
		c.Templates[i] = t.Clone()
	}
	c.Notes = append([]Note(nil), p.Notes...)
	return c
}

// WeekIndex returns the slice index of the week with the given number, or -1.
func (p *Plan) WeekIndex(number int) int {
	for i := range p.Weeks {
		if p.Weeks[i].Number == number {
			return i
		}
	}
	return -1
}

// TemplateIndex returns the slice index of the template with the given id, or -1.
func (p *Plan) TemplateIndex(id string) int {
	for i := range p.Templates {
		if p.Templates[i].ID == id {
			return i
		}
	}
	return -1
}

// FindDay locates a day by id, returning the week index and day offset.
func (p *Plan) FindDay(dayID string) (weekIdx, offset int, ok bool) {
	for wi := range p.Weeks {
		for di := range p.Weeks[wi].Days {
			if p.Weeks[wi].Days[di].ID == dayID {
				return wi, di, true
			}
		}
	}
	return -1, -1, false
}

// FindDate locates a day by its YYYY-MM-DD date.
func (p *Plan) FindDate(date string) (weekIdx, offset int, ok bool) {
	for wi := range p.Weeks {
		for di := range p.Weeks[wi].Days {
			if p.Weeks[wi].Days[di].Date == date {
				return wi, di, true
			}
		}
	}
	return -1, -1, false
}

// NotesForDay returns the notes attached to a day in insertion order.
func (p *Plan) NotesForDay(dayID string) []Note {
	var notes []Note
	for _, n := range p.Notes {
		if n.DayID == dayID {
			notes = append(notes, n)
		}
	}
	return notes
}
