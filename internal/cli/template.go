package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/studyplan/internal/importer"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/templatefile"
)

type TemplateListCmd struct{}

func (c *TemplateListCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	templates := ctx.Controller.Snapshot().Templates
	if len(templates) == 0 {
		fmt.Fprintln(ctx.Out, "No templates found")
		return nil
	}
	tbl := newTable("ID", "WEEK", "TASKS", "MINUTES", "TITLE")
	for _, t := range templates {
		tbl.AddRow(t.ID, t.WeekNumber, len(t.Tasks), t.TotalMinutes(), t.Title)
	}
	fmt.Fprintln(ctx.Out, tbl)
	return nil
}

type TemplateShowCmd struct {
	ID string `arg:"" help:"Template ID."`
}

func (c *TemplateShowCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	plan := ctx.Controller.Snapshot()
	ti := plan.TemplateIndex(c.ID)
	if ti < 0 {
		return fmt.Errorf("template %q not found", c.ID)
	}
	t := plan.Templates[ti]

	fmt.Fprintf(ctx.Out, "%s (%s)\n", t.Title, t.ID)
	if t.Goal != "" {
		fmt.Fprintf(ctx.Out, "Meta: %s\n", t.Goal)
	}
	fmt.Fprintf(ctx.Out, "Suggested week: %d, total %d minutes\n\n", t.WeekNumber, t.TotalMinutes())
	tbl := newTable("#", "TITLE", "TYPE", "MINUTES")
	for i, task := range t.Tasks {
		tbl.AddRow(i+1, task.Title, task.Type, task.EstimatedMinutes)
	}
	fmt.Fprintln(ctx.Out, tbl)
	return nil
}

type TemplateAddCmd struct {
	Title string   `arg:"" help:"Template title."`
	Goal  string   `short:"g" help:"Goal for the week."`
	Week  int      `short:"w" help:"Suggested week number."`
	Tasks []string `short:"t" name:"task" help:"Task as 'title:minutes' or 'title:minutes:type'. Repeatable."`
}

func (c *TemplateAddCmd) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("title cannot be empty")
	}
	if c.Week < 0 || c.Week > 12 {
		return errors.New("week must be between 1 and 12")
	}
	return nil
}

func (c *TemplateAddCmd) Run(ctx *Context) error {
	tpl := models.Template{WeekNumber: c.Week, Title: strings.TrimSpace(c.Title), Goal: c.Goal}
	for _, spec := range c.Tasks {
		task, err := parseTemplateTask(spec)
		if err != nil {
			return err
		}
		tpl.Tasks = append(tpl.Tasks, task)
	}

	if err := ctx.load(); err != nil {
		return err
	}
	saved, err := ctx.Controller.SaveTemplate(tpl)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "%s Added template %s (%d tasks, %d minutes)\n", okMark(), saved.ID, len(saved.Tasks), saved.TotalMinutes())
	return nil
}

// parseTemplateTask reads "title:minutes[:type]". The title may itself
// contain colons; a missing type is inferred from the title.
func parseTemplateTask(s string) (models.TemplateTask, error) {
	parts := strings.Split(s, ":")
	var taskType models.TaskType
	if len(parts) >= 3 && models.TaskType(parts[len(parts)-1]).Valid() {
		taskType = models.TaskType(parts[len(parts)-1])
		parts = parts[:len(parts)-1]
	}
	if len(parts) < 2 {
		return models.TemplateTask{}, fmt.Errorf("invalid task %q (expected title:minutes)", s)
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || minutes <= 0 {
		return models.TemplateTask{}, fmt.Errorf("invalid minutes in task %q", s)
	}
	title := strings.TrimSpace(strings.Join(parts[:len(parts)-1], ":"))
	if title == "" {
		return models.TemplateTask{}, fmt.Errorf("task %q has no title", s)
	}
	if taskType == "" {
		taskType = importer.Classify(title)
	}
	return models.TemplateTask{Title: title, Type: taskType, EstimatedMinutes: minutes}, nil
}

type TemplateDeleteCmd struct {
	ID string `arg:"" help:"Template ID."`
}

func (c *TemplateDeleteCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}
	deleted, err := ctx.Controller.DeleteTemplate(c.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("template %q not found", c.ID)
	}
	fmt.Fprintf(ctx.Out, "%s Deleted template %s\n", okMark(), c.ID)
	return nil
}

type TemplateApplyCmd struct {
	Week int    `arg:"" help:"Week number (1-12)."`
	ID   string `arg:"" help:"Template ID."`
	Yes  bool   `short:"y" help:"Do not ask before replacing existing tasks."`
}

func (c *TemplateApplyCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	plan := ctx.Controller.Snapshot()
	wi := plan.WeekIndex(c.Week)
	if wi < 0 {
		return fmt.Errorf("week %d not found", c.Week)
	}
	if plan.TemplateIndex(c.ID) < 0 {
		return fmt.Errorf("template %q not found", c.ID)
	}

	existing := 0
	for _, d := range plan.Weeks[wi].Days {
		existing += len(d.Tasks)
	}
	if existing > 0 && !c.Yes {
		ok, err := ctx.confirm(fmt.Sprintf("Week %d has %d tasks that will be replaced. Continue?", c.Week, existing))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(ctx.Out, "Cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if _, err := ctx.Controller.ApplyTemplate(c.Week, c.ID); err != nil {
		return err
	}

	week := ctx.Controller.Snapshot().Weeks[wi]
	count := 0
	for _, d := range week.Days {
		count += len(d.Tasks)
	}
	fmt.Fprintf(ctx.Out, "%s Applied %s to week %d: %d tasks\n", okMark(), c.ID, c.Week, count)
	return nil
}

type TemplateLoadCmd struct {
	Paths []string `arg:"" optional:"" type:"existingfile" help:"Template files (.yaml, .toml, .json). Defaults to every file in the templates directory."`
}

func (c *TemplateLoadCmd) Run(ctx *Context) error {
	var templates []models.Template
	if len(c.Paths) == 0 {
		if ctx.Config == nil || ctx.Config.TemplatesDir == "" {
			return errors.New("no template files given and no templates directory configured")
		}
		var err error
		templates, err = templatefile.LoadDir(ctx.Config.TemplatesDir)
		if err != nil {
			return err
		}
		if len(templates) == 0 {
			fmt.Fprintf(ctx.Out, "No template files in %s\n", ctx.Config.TemplatesDir)
			return nil
		}
	}
	for _, path := range c.Paths {
		loaded, err := templatefile.Load(path)
		if err != nil {
			return err
		}
		templates = append(templates, loaded...)
	}

	if err := ctx.load(); err != nil {
		return err
	}
	for _, t := range templates {
		saved, err := ctx.Controller.SaveTemplate(t)
		if err != nil {
			return fmt.Errorf("failed to save template %q: %w", t.Title, err)
		}
		fmt.Fprintf(ctx.Out, "%s %s  %s\n", okMark(), saved.ID, saved.Title)
	}
	return nil
}
