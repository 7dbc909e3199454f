package validation

import (
	"fmt"
	"time"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/models"
)

// Conflict represents a structural problem in a plan record
type Conflict struct {
	Type        constants.ConflictType
	Description string
	Week        int    // week number (if applicable)
	Date        string // YYYY-MM-DD format (if applicable)
	Items       []string
	// Warning conflicts are reported but do not make the record unusable.
	Warning bool
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// HasErrors returns true if any conflict is not a warning
func (vr *ValidationResult) HasErrors() bool {
	for _, c := range vr.Conflicts {
		if !c.Warning {
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		prefix := "-"
		if conflict.Warning {
			prefix = "- (warning)"
		}
		report += fmt.Sprintf("%s %s\n", prefix, conflict.Description)
	}
	return report
}

// Validator checks plan records for structural problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// ValidatePlan checks week layout, day dates and capacities, tasks, notes,
// KPIs and templates.
func (v *Validator) ValidatePlan(plan models.Plan) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if len(plan.Weeks) != constants.WeeksInPlan {
		result.add(Conflict{
			Type:        constants.ConflictWeekCount,
			Description: fmt.Sprintf("Plan has %d weeks, expected %d", len(plan.Weeks), constants.WeeksInPlan),
		})
	}

	seenWeeks := make(map[int]bool)
	for _, week := range plan.Weeks {
		if week.Number < 1 || week.Number > constants.WeeksInPlan || seenWeeks[week.Number] {
			result.add(Conflict{
				Type:        constants.ConflictWeekNumbering,
				Description: fmt.Sprintf("Week number %d is duplicated or outside 1..%d", week.Number, constants.WeeksInPlan),
				Week:        week.Number,
			})
		}
		seenWeeks[week.Number] = true

		if !week.Status.Valid() {
			result.add(Conflict{
				Type:        constants.ConflictInvalidWeekStatus,
				Description: fmt.Sprintf("Week %d has invalid status %q", week.Number, week.Status),
				Week:        week.Number,
			})
		}

		v.validateDays(&result, week)
	}

	v.validateTasks(&result, plan.Weeks)
	v.validateNotes(&result, plan)
	v.validateKPIs(&result, plan.KPIs)
	v.validateTemplates(&result, plan.Templates)

	return result
}

func (v *Validator) validateDays(result *ValidationResult, week models.Week) {
	if len(week.Days) != constants.DaysInWeek {
		result.add(Conflict{
			Type:        constants.ConflictDayCount,
			Description: fmt.Sprintf("Week %d has %d days, expected %d", week.Number, len(week.Days), constants.DaysInWeek),
			Week:        week.Number,
		})
	}

	var prev time.Time
	for offset, day := range week.Days {
		date, err := time.Parse(constants.DateFormat, day.Date)
		if err != nil {
			result.add(Conflict{
				Type:        constants.ConflictDateSequence,
				Description: fmt.Sprintf("Week %d day %d has invalid date %q", week.Number, offset+1, day.Date),
				Week:        week.Number,
				Date:        day.Date,
			})
			prev = time.Time{}
		} else {
			if offset == 0 && date.Weekday() != time.Monday {
				result.add(Conflict{
					Type:        constants.ConflictDateSequence,
					Description: fmt.Sprintf("Week %d starts on %s, expected Monday", week.Number, date.Weekday()),
					Week:        week.Number,
					Date:        day.Date,
				})
			}
			if !prev.IsZero() && !date.Equal(prev.AddDate(0, 0, 1)) {
				result.add(Conflict{
					Type:        constants.ConflictDateSequence,
					Description: fmt.Sprintf("Week %d: %s does not follow %s", week.Number, day.Date, prev.Format(constants.DateFormat)),
					Week:        week.Number,
					Date:        day.Date,
				})
			}
			prev = date
		}

		if want := constants.CapacityForOffset(offset); day.PlannedMinutes != want {
			result.add(Conflict{
				Type:        constants.ConflictCapacity,
				Description: fmt.Sprintf("Day %s has capacity %d, expected %d", day.Date, day.PlannedMinutes, want),
				Week:        week.Number,
				Date:        day.Date,
			})
		}
	}
}

func (v *Validator) validateTasks(result *ValidationResult, weeks []models.Week) {
	ids := make(map[string]int)
	for _, week := range weeks {
		for _, day := range week.Days {
			for _, task := range day.Tasks {
				if task.EstimatedMinutes <= 0 {
					result.add(Conflict{
						Type:        constants.ConflictInvalidDuration,
						Description: fmt.Sprintf("Task \"%s\" on %s has non-positive duration %d", task.Title, day.Date, task.EstimatedMinutes),
						Week:        week.Number,
						Date:        day.Date,
						Items:       []string{task.Title},
					})
				}
				if !task.Type.Valid() {
					result.add(Conflict{
						Type:        constants.ConflictInvalidTaskType,
						Description: fmt.Sprintf("Task \"%s\" on %s has invalid type %q", task.Title, day.Date, task.Type),
						Week:        week.Number,
						Date:        day.Date,
						Items:       []string{task.Title},
					})
				}
				if !task.Status.Valid() {
					result.add(Conflict{
						Type:        constants.ConflictInvalidTaskStatus,
						Description: fmt.Sprintf("Task \"%s\" on %s has invalid status %q", task.Title, day.Date, task.Status),
						Week:        week.Number,
						Date:        day.Date,
						Items:       []string{task.Title},
					})
				}
				if task.ID == "" {
					continue
				}
				ids[task.ID]++
				if ids[task.ID] == 2 {
					result.add(Conflict{
						Type:        constants.ConflictDuplicateTaskID,
						Description: fmt.Sprintf("Task id %s is used more than once", task.ID),
						Items:       []string{task.ID},
					})
				}
			}
		}
	}
}

func (v *Validator) validateNotes(result *ValidationResult, plan models.Plan) {
	for _, note := range plan.Notes {
		if _, _, ok := plan.FindDay(note.DayID); !ok {
			result.add(Conflict{
				Type:        constants.ConflictOrphanNote,
				Description: fmt.Sprintf("Note %s references unknown day %s", note.ID, note.DayID),
				Items:       []string{note.ID},
				Warning:     true,
			})
		}
	}
}

func (v *Validator) validateKPIs(result *ValidationResult, kpis []models.KPI) {
	for _, kpi := range kpis {
		if kpi.Target <= kpi.Baseline {
			result.add(Conflict{
				Type:        constants.ConflictKPIRange,
				Description: fmt.Sprintf("KPI \"%s\" has target %g not above baseline %g", kpi.Name, kpi.Target, kpi.Baseline),
				Items:       []string{kpi.ID},
				Warning:     true,
			})
		}
	}
}

func (v *Validator) validateTemplates(result *ValidationResult, templates []models.Template) {
	for _, tpl := range templates {
		if tpl.Title == "" {
			result.add(Conflict{
				Type:        constants.ConflictEmptyTemplateTitle,
				Description: fmt.Sprintf("Template %s has no title", tpl.ID),
				Items:       []string{tpl.ID},
			})
		}
		for _, task := range tpl.Tasks {
			if task.EstimatedMinutes <= 0 {
				result.add(Conflict{
					Type:        constants.ConflictInvalidDuration,
					Description: fmt.Sprintf("Template %s task \"%s\" has non-positive duration %d", tpl.ID, task.Title, task.EstimatedMinutes),
					Items:       []string{tpl.ID, task.Title},
				})
			}
		}
	}
}
