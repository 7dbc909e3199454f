package cli

import (
	"fmt"

	"github.com/julianstephens/studyplan/internal/models"
)

type TaskStatusCmd struct {
	Week   int    `arg:"" help:"Week number (1-12)."`
	Day    string `arg:"" help:"Day of the week (1-7, 'mon', 'segunda', ...)."`
	Index  int    `arg:"" help:"Task position within the day, starting at 1."`
	Status string `arg:"" enum:"todo,doing,done,skipped" help:"New status (todo|doing|done|skipped)."`
}

func (c *TaskStatusCmd) Run(ctx *Context) error {
	offset, err := parseDay(c.Day)
	if err != nil {
		return err
	}
	status, err := models.ParseTaskStatus(c.Status)
	if err != nil {
		return err
	}
	if err := ctx.load(); err != nil {
		return err
	}

	applied, err := ctx.Controller.SetTaskStatus(c.Week, offset, c.Index-1, status)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("no task %d on %s of week %d", c.Index, dayLabel(offset), c.Week)
	}
	fmt.Fprintf(ctx.Out, "%s Week %d, %s, task %d: %s\n", okMark(), c.Week, dayLabel(offset), c.Index, status)
	return nil
}
