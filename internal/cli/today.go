package cli

import (
	"fmt"

	"github.com/julianstephens/studyplan/internal/utils"
)

type TodayCmd struct {
	When string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, 'today', 'amanhã', 'next friday', ...)."`
}

func (c *TodayCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	date, err := utils.ResolveDate(c.When, ctx.Clock.Now())
	if err != nil {
		return err
	}

	view, ok := ctx.Controller.DayOn(date)
	if !ok {
		fmt.Fprintf(ctx.Out, "%s is outside the 12-week plan.\n", date)
		return nil
	}

	day := view.Day
	fmt.Fprintf(ctx.Out, "%s %s  Semana %d: %s\n", dayLabel(view.Offset), date, view.WeekNumber, view.WeekTitle)
	fmt.Fprintf(ctx.Out, "Scheduled %d of %d minutes\n\n", day.ScheduledMinutes(), day.PlannedMinutes)
	printTasks(ctx, day)

	if len(view.Notes) > 0 {
		fmt.Fprintln(ctx.Out, "\nNotes:")
		for _, n := range view.Notes {
			fmt.Fprintf(ctx.Out, "  - %s\n", n.Content)
		}
	}
	return nil
}
