package cli

import (
	"fmt"

	"github.com/julianstephens/studyplan/internal/importer"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/planner"
)

type WeekListCmd struct{}

func (c *WeekListCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	plan := ctx.Controller.Snapshot()
	summary := ctx.Controller.Progress()
	tbl := newTable("WEEK", "STARTS", "STATUS", "DONE", "TITLE")
	for i, w := range plan.Weeks {
		wp := summary.Weeks[i]
		tbl.AddRow(w.Number, w.Days[0].Date, w.Status, fmt.Sprintf("%d/%d", wp.Completed, wp.Total), w.Title)
	}
	fmt.Fprintln(ctx.Out, tbl)
	return nil
}

type WeekShowCmd struct {
	Number int  `arg:"" help:"Week number (1-12)."`
	Text   bool `help:"Print the week in the text import format."`
}

func (c *WeekShowCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	plan := ctx.Controller.Snapshot()
	wi := plan.WeekIndex(c.Number)
	if wi < 0 {
		return fmt.Errorf("week %d not found", c.Number)
	}
	week := plan.Weeks[wi]

	if c.Text {
		fmt.Fprint(ctx.Out, importer.Render(week))
		return nil
	}

	fmt.Fprintf(ctx.Out, "Semana %d: %s [%s]\n", week.Number, week.Title, week.Status)
	if week.Goal != "" {
		fmt.Fprintf(ctx.Out, "Meta: %s\n", week.Goal)
	}
	for offset, day := range week.Days {
		fmt.Fprintf(ctx.Out, "\n%s %s  (%d/%d min)  %s\n", dayLabel(offset), day.Date, day.ScheduledMinutes(), day.PlannedMinutes, day.ID)
		printTasks(ctx, day)
	}
	return nil
}

func printTasks(ctx *Context, day models.Day) {
	if len(day.Tasks) == 0 {
		fmt.Fprintln(ctx.Out, "  No tasks scheduled")
		return
	}
	tbl := newTable()
	for i, t := range day.Tasks {
		kind := string(t.Type)
		if planner.IsFiller(t) {
			kind = "filler"
		}
		tbl.AddRow(fmt.Sprintf("  %d.", i+1), statusMark(t.Status), t.Title, kind, fmt.Sprintf("%dm", t.EstimatedMinutes))
	}
	fmt.Fprintln(ctx.Out, tbl)
}
