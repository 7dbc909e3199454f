package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/importer"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/planner"
	"github.com/julianstephens/studyplan/internal/storage"
	"github.com/julianstephens/studyplan/internal/utils"
)

var (
	// ErrWeekNotFound is returned by ImportText when the target week does not exist.
	ErrWeekNotFound = errors.New("week not found")
	// ErrMalformedRecord is returned by ImportRecord for input that is not a plan record.
	ErrMalformedRecord = errors.New("malformed plan record")
)

// Backuper saves a copy of a raw record before it is discarded.
type Backuper interface {
	CreateBackup(data []byte) (string, error)
}

// LoadResult describes how Load obtained the current plan.
type LoadResult struct {
	Fallback   bool
	Reason     string
	BackupPath string
}

// Controller is the only component that mutates the plan. It holds an
// immutable snapshot; every successful mutation persists the whole record
// and then swaps in a new snapshot. A failed write leaves the previous
// snapshot in place.
type Controller struct {
	mu       sync.RWMutex
	plan     models.Plan
	store    storage.Provider
	clock    utils.Clock
	planner  *planner.Planner
	importer *importer.Importer
	backups  Backuper
	newID    func() string
}

type Option func(*Controller)

func WithPlanner(p *planner.Planner) Option {
	return func(c *Controller) { c.planner = p }
}

func WithImporter(im *importer.Importer) Option {
	return func(c *Controller) { c.importer = im }
}

func WithBackups(b Backuper) Option {
	return func(c *Controller) { c.backups = b }
}

// WithIDGenerator sets the id source for notes and templates.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

// New returns a controller holding the seed plan. Call Load to read the
// persisted record.
func New(store storage.Provider, clock utils.Clock, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		clock:    clock,
		planner:  planner.New(),
		importer: importer.New(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.plan = c.planner.Seed(clock)
	return c
}

func (c *Controller) Store() storage.Provider {
	return c.store
}

func (c *Controller) Clock() utils.Clock {
	return c.clock
}

// Load reads the persisted record. A missing, malformed or structurally
// invalid record falls back to a freshly seeded plan; the fallback is not
// written until the next mutation.
func (c *Controller) Load() (LoadResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.store.Get(constants.StateKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return LoadResult{}, fmt.Errorf("failed to read plan: %w", err)
	}

	var reason string
	var plan models.Plan
	if errors.Is(err, storage.ErrNotFound) {
		reason = "no saved plan"
	} else {
		plan, reason = decodeRecord(data)
	}

	if reason == "" {
		c.plan = plan
		logger.Debug("Loaded plan", "weeks", len(plan.Weeks), "templates", len(plan.Templates))
		return LoadResult{}, nil
	}

	result := LoadResult{Fallback: true, Reason: reason}
	if data != nil && c.backups != nil {
		path, err := c.backups.CreateBackup(data)
		if err != nil {
			logger.Warn("Failed to back up unreadable plan", "error", err)
		} else {
			result.BackupPath = path
		}
	}
	logger.Info("Using seed plan", "reason", reason)
	c.plan = c.planner.Seed(c.clock)
	return result, nil
}

// decodeRecord parses a persisted record. A non-empty reason means the
// record cannot be used.
func decodeRecord(data []byte) (models.Plan, string) {
	var plan models.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return models.Plan{}, fmt.Sprintf("saved plan is not valid JSON: %v", err)
	}
	if plan.Weeks == nil {
		return models.Plan{}, "saved plan has no weeks"
	}
	if len(plan.Weeks) < constants.WeeksInPlan {
		return models.Plan{}, fmt.Sprintf("saved plan has %d weeks, expected %d", len(plan.Weeks), constants.WeeksInPlan)
	}
	for _, w := range plan.Weeks {
		if len(w.Days) != constants.DaysInWeek {
			return models.Plan{}, fmt.Sprintf("week %d has %d days, expected %d", w.Number, len(w.Days), constants.DaysInWeek)
		}
	}

	if plan.KPIs == nil {
		plan.KPIs = planner.SeedKPIs()
	}
	if plan.Templates == nil {
		plan.Templates = planner.SeedTemplates()
	}
	if plan.Notes == nil {
		plan.Notes = []models.Note{}
	}
	if plan.Version == 0 {
		plan.Version = constants.RecordVersion
	}
	return plan, ""
}

// Snapshot returns a deep copy of the current plan.
func (c *Controller) Snapshot() models.Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.plan.Clone()
}

// commit persists next and makes it the current snapshot. Callers hold mu.
func (c *Controller) commit(next models.Plan) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := c.store.Put(constants.StateKey, data); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	c.plan = next
	return nil
}

// withWeek returns a plan sharing everything with c.plan except the week at
// index wi.
func (c *Controller) withWeek(wi int, week models.Week) models.Plan {
	next := c.plan
	next.Weeks = append([]models.Week(nil), c.plan.Weeks...)
	next.Weeks[wi] = week
	return next
}

// SetTaskStatus changes the status of one task. It reports false when the
// week, day or task does not exist.
func (c *Controller) SetTaskStatus(weekNumber, dayOffset, taskIndex int, status models.TaskStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("invalid task status %q", status)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	wi := c.plan.WeekIndex(weekNumber)
	if wi < 0 {
		return false, nil
	}
	week := c.plan.Weeks[wi]
	if dayOffset < 0 || dayOffset >= len(week.Days) {
		return false, nil
	}
	if taskIndex < 0 || taskIndex >= len(week.Days[dayOffset].Tasks) {
		return false, nil
	}
	if week.Days[dayOffset].Tasks[taskIndex].Status == status {
		return true, nil
	}

	week.Days = append([]models.Day(nil), week.Days...)
	day := week.Days[dayOffset]
	day.Tasks = append([]models.Task(nil), day.Tasks...)
	day.Tasks[taskIndex].Status = status
	week.Days[dayOffset] = day

	if err := c.commit(c.withWeek(wi, week)); err != nil {
		return false, err
	}
	return true, nil
}

// ApplyTemplate rebuilds a week from a template. Distribution always starts
// from the week's skeleton, so earlier tasks and statuses are discarded.
// Unknown weeks or templates are a no-op.
func (c *Controller) ApplyTemplate(weekNumber int, templateID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	wi := c.plan.WeekIndex(weekNumber)
	ti := c.plan.TemplateIndex(templateID)
	if wi < 0 || ti < 0 {
		return false, nil
	}

	week := c.planner.Distribute(c.plan.Weeks[wi].Skeleton(), c.plan.Templates[ti].Clone())
	if err := c.commit(c.withWeek(wi, week)); err != nil {
		return false, err
	}
	logger.Info("Applied template", "week", weekNumber, "template", templateID)
	return true, nil
}

// ImportText replaces a week's tasks with the ones described by text.
func (c *Controller) ImportText(weekNumber int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	wi := c.plan.WeekIndex(weekNumber)
	if wi < 0 {
		return fmt.Errorf("%w: %d", ErrWeekNotFound, weekNumber)
	}

	parsed := importer.Parse(text)
	week := c.importer.Materialize(c.plan.Weeks[wi], parsed)
	if err := c.commit(c.withWeek(wi, week)); err != nil {
		return err
	}
	logger.Info("Imported week text", "week", weekNumber, "tasks", len(parsed.Entries))
	return nil
}

// AddNote appends a note to a day. Content is stored as given.
func (c *Controller) AddNote(dayID, content string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, _, ok := c.plan.FindDay(dayID); !ok {
		return false, nil
	}

	next := c.plan
	next.Notes = append(append([]models.Note(nil), c.plan.Notes...), models.Note{
		ID:        c.newID(),
		DayID:     dayID,
		Content:   content,
		CreatedAt: c.clock.Now().Format(time.RFC3339),
	})
	if err := c.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

// SaveTemplate inserts or replaces a template by id. Templates without an
// id get a new one.
func (c *Controller) SaveTemplate(t models.Template) (models.Template, error) {
	t = t.Clone()
	if err := t.Validate(); err != nil {
		return models.Template{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if t.ID == "" {
		t.ID = "tpl-" + c.newID()
	}
	for i := range t.Tasks {
		if t.Tasks[i].ID == "" {
			t.Tasks[i].ID = fmt.Sprintf("%s-%d", t.ID, i+1)
		}
	}

	next := c.plan
	next.Templates = append([]models.Template(nil), c.plan.Templates...)
	if ti := c.plan.TemplateIndex(t.ID); ti >= 0 {
		next.Templates[ti] = t
	} else {
		next.Templates = append(next.Templates, t)
	}
	if err := c.commit(next); err != nil {
		return models.Template{}, err
	}
	return t.Clone(), nil
}

func (c *Controller) DeleteTemplate(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ti := c.plan.TemplateIndex(id)
	if ti < 0 {
		return false, nil
	}
	next := c.plan
	next.Templates = make([]models.Template, 0, len(c.plan.Templates)-1)
	next.Templates = append(next.Templates, c.plan.Templates[:ti]...)
	next.Templates = append(next.Templates, c.plan.Templates[ti+1:]...)
	if err := c.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

// SetKPICurrent records a manually measured KPI value.
func (c *Controller) SetKPICurrent(id string, value float64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.plan.KPIs {
		if c.plan.KPIs[i].ID != id {
			continue
		}
		next := c.plan
		next.KPIs = append([]models.KPI(nil), c.plan.KPIs...)
		next.KPIs[i].Current = value
		if err := c.commit(next); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// ReplaceWeeks swaps in a complete set of weeks, for example a generated
// plan. Anything short of twelve 7-day weeks is rejected.
func (c *Controller) ReplaceWeeks(weeks []models.Week) error {
	if len(weeks) != constants.WeeksInPlan {
		return fmt.Errorf("plan must have %d weeks, got %d", constants.WeeksInPlan, len(weeks))
	}
	for _, w := range weeks {
		if len(w.Days) != constants.DaysInWeek {
			return fmt.Errorf("week %d must have %d days, got %d", w.Number, constants.DaysInWeek, len(w.Days))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.plan
	next.Weeks = make([]models.Week, len(weeks))
	for i, w := range weeks {
		next.Weeks[i] = w.Clone()
	}
	return c.commit(next)
}

// Reset replaces the whole record with a freshly seeded plan.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit(c.planner.Seed(c.clock))
}

// ApplyGenerated builds weeks from a generated plan anchored at the current
// week and commits them.
func (c *Controller) ApplyGenerated(gen models.GeneratedPlan) error {
	weeks, err := c.planner.FromGenerated(utils.WeekAnchor(c.clock.Now()), gen)
	if err != nil {
		return err
	}
	return c.ReplaceWeeks(weeks)
}

// Export writes the persisted record exactly as stored. Before the first
// save it writes the current snapshot instead.
func (c *Controller) Export(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := c.store.Get(constants.StateKey)
	if errors.Is(err, storage.ErrNotFound) {
		data, err = json.MarshalIndent(c.plan, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to export plan: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ImportRecord overwrites the persisted record with data after checking it
// would load without falling back. The current snapshot is unchanged until
// the next Load.
func (c *Controller) ImportRecord(data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("%w: not valid JSON", ErrMalformedRecord)
	}
	if _, reason := decodeRecord(data); reason != "" {
		return fmt.Errorf("%w: %s", ErrMalformedRecord, reason)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Put(constants.StateKey, data); err != nil {
		return fmt.Errorf("failed to save imported plan: %w", err)
	}
	return nil
}

// TodayView locates the reference date inside the plan.
type TodayView struct {
	Date       string
	WeekNumber int
	WeekTitle  string
	Offset     int
	Day        models.Day
	Notes      []models.Note
}

// Today returns the day matching the clock's current date, if the plan
// covers it.
func (c *Controller) Today() (TodayView, bool) {
	return c.DayOn(utils.Today(c.clock))
}

// DayOn returns the day with the given YYYY-MM-DD date.
func (c *Controller) DayOn(date string) (TodayView, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	wi, off, ok := c.plan.FindDate(date)
	if !ok {
		return TodayView{Date: date}, false
	}
	week := c.plan.Weeks[wi].Clone()
	return TodayView{
		Date:       date,
		WeekNumber: week.Number,
		WeekTitle:  week.Title,
		Offset:     off,
		Day:        week.Days[off],
		Notes:      c.plan.NotesForDay(week.Days[off].ID),
	}, true
}

// Progress summarizes task completion. It never changes KPI values.
func (c *Controller) Progress() planner.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return planner.Summarize(c.plan.Weeks)
}
