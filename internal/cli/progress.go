package cli

import (
	"fmt"
	"strings"
)

type KPIListCmd struct{}

func (c *KPIListCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	tbl := newTable("ID", "NAME", "BASELINE", "CURRENT", "TARGET", "PROGRESS")
	for _, k := range ctx.Controller.Snapshot().KPIs {
		tbl.AddRow(k.ID, k.Name,
			formatValue(k.Baseline, k.Unit), formatValue(k.Current, k.Unit), formatValue(k.Target, k.Unit),
			fmt.Sprintf("%.0f%%", k.Progress()))
	}
	fmt.Fprintln(ctx.Out, tbl)
	return nil
}

type KPISetCmd struct {
	ID    string  `arg:"" help:"KPI ID."`
	Value float64 `arg:"" help:"Current value."`
}

func (c *KPISetCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}
	ok, err := ctx.Controller.SetKPICurrent(c.ID, c.Value)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("KPI %q not found", c.ID)
	}
	fmt.Fprintf(ctx.Out, "%s %s set to %g\n", okMark(), c.ID, c.Value)
	return nil
}

func formatValue(v float64, unit string) string {
	s := fmt.Sprintf("%g", v)
	if unit == "%" {
		return s + "%"
	}
	return s + " " + unit
}

type ProgressCmd struct{}

func (c *ProgressCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	summary := ctx.Controller.Progress()
	fmt.Fprintf(ctx.Out, "Overall: %d/%d tasks done (%.0f%%), %.1f hours studied\n\n",
		summary.Completed, summary.Total, summary.Percent(), float64(summary.DoneMinutes)/60)

	tbl := newTable("WEEK", "STATUS", "DONE", "", "TITLE")
	for _, w := range summary.Weeks {
		pct := 0.0
		if w.Total > 0 {
			pct = float64(w.Completed) / float64(w.Total)
		}
		tbl.AddRow(w.Number, w.Status, fmt.Sprintf("%d/%d", w.Completed, w.Total), bar(pct, 20), w.Title)
	}
	fmt.Fprintln(ctx.Out, tbl)
	return nil
}

func bar(fraction float64, width int) string {
	filled := int(fraction*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
