package models

// GeneratedPlan is the shape returned by the plan generator. Tasks carry a
// day-of-week tag (1 = Monday ... 7 = Sunday) instead of a day position.
type GeneratedPlan struct {
	Weeks []GeneratedWeek `json:"weeks"`
}

type GeneratedWeek struct {
	Number int             `json:"number"`
	Title  string          `json:"title"`
	Goal   string          `json:"goal"`
	Tasks  []GeneratedTask `json:"tasks"`
}

type GeneratedTask struct {
	DayOfWeek        int      `json:"dayOfWeek"`
	Title            string   `json:"title"`
	Type             TaskType `json:"type"`
	EstimatedMinutes int      `json:"estimated_minutes"`
}
