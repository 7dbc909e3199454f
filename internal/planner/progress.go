package planner

import "github.com/julianstephens/studyplan/internal/models"

type WeekProgress struct {
	Number         int               `json:"number"`
	Title          string            `json:"title"`
	Status         models.WeekStatus `json:"status"`
	Completed      int               `json:"completed"`
	Total          int               `json:"total"`
	DoneMinutes    int               `json:"done_minutes"`
	PlannedMinutes int               `json:"planned_minutes"`
}

type Summary struct {
	Weeks       []WeekProgress `json:"weeks"`
	Completed   int            `json:"completed"`
	Total       int            `json:"total"`
	DoneMinutes int            `json:"done_minutes"`
}

// Percent returns the share of done tasks across the plan.
func (s Summary) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}

// Summarize counts done tasks per week. It never touches KPI values.
func Summarize(weeks []models.Week) Summary {
	var s Summary
	for _, w := range weeks {
		wp := WeekProgress{Number: w.Number, Title: w.Title, Status: w.Status}
		for _, d := range w.Days {
			wp.PlannedMinutes += d.PlannedMinutes
			for _, t := range d.Tasks {
				wp.Total++
				if t.Status == models.TaskStatusDone {
					wp.Completed++
					wp.DoneMinutes += t.EstimatedMinutes
				}
			}
		}
		s.Completed += wp.Completed
		s.Total += wp.Total
		s.DoneMinutes += wp.DoneMinutes
		s.Weeks = append(s.Weeks, wp)
	}
	return s
}
