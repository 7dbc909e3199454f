package cli

import (
	"fmt"

	"github.com/julianstephens/studyplan/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	fmt.Fprintln(ctx.Out, "Validating plan...")
	result := validation.New().ValidatePlan(ctx.Controller.Snapshot())

	fmt.Fprintln(ctx.Out)
	fmt.Fprintln(ctx.Out, result.FormatReport())

	if result.HasErrors() {
		return fmt.Errorf("plan has %d conflicts", len(result.Conflicts))
	}
	return nil
}
