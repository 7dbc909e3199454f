package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/julianstephens/studyplan/internal/importer"
)

type ImportTextCmd struct {
	Week int    `arg:"" help:"Week number (1-12)."`
	File string `arg:"" help:"Text file with the week plan, or '-' for stdin."`
}

func (c *ImportTextCmd) Run(ctx *Context) error {
	data, err := ctx.readInput(c.File)
	if err != nil {
		return err
	}
	if err := ctx.load(); err != nil {
		return err
	}

	parsed := importer.Parse(string(data))
	ctx.PerformAutomaticBackup()
	if err := ctx.Controller.ImportText(c.Week, string(data)); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "%s Imported %d tasks into week %d\n", okMark(), len(parsed.Entries), c.Week)
	return nil
}

type ImportJSONCmd struct {
	File string `arg:"" help:"Exported plan file, or '-' for stdin."`
}

func (c *ImportJSONCmd) Run(ctx *Context) error {
	data, err := ctx.readInput(c.File)
	if err != nil {
		return err
	}
	if err := ctx.load(); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Controller.ImportRecord(data); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "%s Plan imported. It is used from the next command on.\n", okMark())
	return nil
}

type ExportCmd struct {
	File string `arg:"" optional:"" default:"-" help:"Destination file, or '-' for stdout."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	if c.File == "-" {
		if err := ctx.Controller.Export(ctx.Out); err != nil {
			return err
		}
		fmt.Fprintln(ctx.Out)
		return nil
	}

	var buf bytes.Buffer
	if err := ctx.Controller.Export(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(c.File, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.File, err)
	}
	fmt.Fprintf(ctx.Out, "%s Exported plan to %s\n", okMark(), c.File)
	return nil
}
