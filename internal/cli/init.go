package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/studyplan/internal/config"
	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Replace an existing plan with a fresh one (a backup is kept)."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}

	if ctx.Config != nil && ctx.Config.Dir != "" {
		path, err := config.WriteDefault(ctx.Config.Dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Out, "Config file: %s\n", path)
		if ctx.Config.TemplatesDir != "" {
			if err := os.MkdirAll(ctx.Config.TemplatesDir, 0700); err != nil {
				return fmt.Errorf("failed to create templates directory: %w", err)
			}
		}
	}

	_, err := ctx.Store.Get(constants.StateKey)
	switch {
	case err == nil && !c.Force:
		fmt.Fprintf(ctx.Out, "Plan already initialized at: %s\n", ctx.Store.GetConfigPath())
		fmt.Fprintln(ctx.Out, "Use --force to start over.")
		return nil
	case err == nil:
		ctx.PerformAutomaticBackup()
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("failed to read plan: %w", err)
	}

	if err := ctx.Controller.Reset(); err != nil {
		return err
	}
	plan := ctx.Controller.Snapshot()
	fmt.Fprintf(ctx.Out, "%s Initialized studyplan storage at: %s\n", okMark(), ctx.Store.GetConfigPath())
	fmt.Fprintf(ctx.Out, "  %d weeks starting %s\n", len(plan.Weeks), plan.Weeks[0].Days[0].Date)
	return nil
}
