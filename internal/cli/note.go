package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/utils"
)

// resolveDayID accepts a day id (d-3-2) or anything ResolveDate accepts.
func (c *Context) resolveDayID(ref string) (string, error) {
	plan := c.Controller.Snapshot()
	if _, _, ok := plan.FindDay(ref); ok {
		return ref, nil
	}
	date, err := utils.ResolveDate(ref, c.Clock.Now())
	if err != nil {
		return "", err
	}
	wi, off, ok := plan.FindDate(date)
	if !ok {
		return "", fmt.Errorf("%s is outside the 12-week plan", date)
	}
	return plan.Weeks[wi].Days[off].ID, nil
}

type NoteAddCmd struct {
	Day  string   `arg:"" help:"Day ID or date ('today', 2026-03-02, ...)."`
	Text []string `arg:"" help:"Note text."`
}

func (c *NoteAddCmd) Run(ctx *Context) error {
	content := strings.TrimSpace(strings.Join(c.Text, " "))
	if content == "" {
		return fmt.Errorf("note cannot be empty")
	}
	if err := ctx.load(); err != nil {
		return err
	}

	dayID, err := ctx.resolveDayID(c.Day)
	if err != nil {
		return err
	}
	if _, err := ctx.Controller.AddNote(dayID, content); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "%s Note added to %s\n", okMark(), dayID)
	return nil
}

type NoteListCmd struct {
	Day string `arg:"" optional:"" help:"Only notes for this day ID or date."`
}

func (c *NoteListCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	plan := ctx.Controller.Snapshot()
	notes := plan.Notes
	if c.Day != "" {
		dayID, err := ctx.resolveDayID(c.Day)
		if err != nil {
			return err
		}
		notes = plan.NotesForDay(dayID)
	}
	if len(notes) == 0 {
		fmt.Fprintln(ctx.Out, "No notes found")
		return nil
	}

	tbl := newTable("DAY", "DATE", "CREATED", "NOTE")
	for _, n := range notes {
		tbl.AddRow(n.DayID, noteDate(plan, n), formatCreated(n.CreatedAt, ctx.Clock.Location()), n.Content)
	}
	fmt.Fprintln(ctx.Out, tbl)
	return nil
}

func noteDate(plan models.Plan, n models.Note) string {
	wi, off, ok := plan.FindDay(n.DayID)
	if !ok {
		return "-"
	}
	return plan.Weeks[wi].Days[off].Date
}

func formatCreated(ts string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.In(loc).Format("2006-01-02 15:04")
}
