package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/julianstephens/studyplan/internal/config"
	"github.com/julianstephens/studyplan/internal/constants"
	apperrors "github.com/julianstephens/studyplan/internal/errors"
	"github.com/julianstephens/studyplan/internal/generator"
	"github.com/julianstephens/studyplan/internal/logger"
)

type GenerateCmd struct {
	Timeout time.Duration `help:"Give up on the model after this long." default:"2m"`
	DryRun  bool          `help:"Print the generated plan without saving it."`
	Yes     bool          `short:"y" help:"Do not ask before replacing the current weeks."`

	// newGenerator is replaced in tests.
	newGenerator func(cfg *config.Config) (generator.Generator, error) `kong:"-"`
}

func defaultGenerator(cfg *config.Config) (generator.Generator, error) {
	key, err := generator.ResolveAPIKey(cfg.AI.APIKey)
	if err != nil {
		return nil, apperrors.WithHint(err, "run 'studyplan keyring set api-key' to store a key")
	}
	return generator.NewAnthropic(key, cfg.AI.Model, cfg.AI.MaxTokens)
}

func (c *GenerateCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}
	if !c.DryRun && !c.Yes {
		ok, err := ctx.confirm("Generating a plan replaces all 12 weeks (templates, KPIs and notes are kept). Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(ctx.Out, "Plan generation cancelled.")
			return nil
		}
	}

	build := c.newGenerator
	if build == nil {
		build = defaultGenerator
	}
	inner, err := build(ctx.Config)
	if err != nil {
		return err
	}
	gen := generator.NewGuarded(inner, filepath.Join(ctx.Config.Dir, constants.GenerationLockfileName))

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = constants.GenerationTimeout
	}
	runCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fmt.Fprintln(ctx.Out, "Generating plan...")
	started := time.Now()
	plan, err := gen.Generate(runCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.WithHint(fmt.Errorf("plan generation timed out after %s", timeout), "retry with a longer --timeout")
		}
		if errors.Is(err, generator.ErrGenerationInFlight) {
			return apperrors.WithHint(err, "wait for the other generation to finish")
		}
		return err
	}
	logger.Info("Plan generated", "weeks", len(plan.Weeks), "elapsed", time.Since(started))

	tbl := newTable("WEEK", "TASKS", "TITLE")
	for _, w := range plan.Weeks {
		tbl.AddRow(w.Number, len(w.Tasks), w.Title)
	}
	fmt.Fprintln(ctx.Out, tbl)

	if c.DryRun {
		return nil
	}
	ctx.PerformAutomaticBackup()
	if err := ctx.Controller.ApplyGenerated(plan); err != nil {
		return fmt.Errorf("generated plan rejected: %w", err)
	}
	fmt.Fprintf(ctx.Out, "%s Plan replaced with %d generated weeks\n", okMark(), len(plan.Weeks))
	return nil
}
