package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/storage"
)

type DebugCmd struct {
	Path    DebugPathCmd    `cmd:"" help:"Show storage, config and log paths."`
	Dump    DebugDumpCmd    `cmd:"" help:"Dump the stored record as JSON."`
	History DebugHistoryCmd `cmd:"" help:"List previous versions of the stored record."`
}

type DebugPathCmd struct{}

func (cmd *DebugPathCmd) Run(ctx *Context) error {
	output := map[string]string{
		"store":   ctx.Store.GetConfigPath(),
		"backups": ctx.Backups.GetBackupDir(),
		"log":     logger.Path(),
	}
	if ctx.Config != nil {
		output["config_dir"] = ctx.Config.Dir
		output["config_file"] = ctx.Config.File
		output["templates"] = ctx.Config.TemplatesDir
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(ctx.Out, string(jsonBytes))
	return nil
}

type DebugDumpCmd struct {
	Revision int64 `help:"Dump a previous version by revision ID (see 'debug history')."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	var data []byte
	if cmd.Revision != 0 {
		rev, err := findRevision(ctx, cmd.Revision)
		if err != nil {
			return err
		}
		data = rev.Value
	} else {
		var err error
		data, err = ctx.Store.Get(constants.StateKey)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no plan stored at %s", ctx.Store.GetConfigPath())
		}
		if err != nil {
			return fmt.Errorf("failed to read plan: %w", err)
		}
	}

	var pretty interface{}
	if err := json.Unmarshal(data, &pretty); err != nil {
		// Not JSON: show it raw so the corruption is visible.
		fmt.Fprintln(ctx.Out, string(data))
		return nil
	}
	jsonBytes, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	fmt.Fprintln(ctx.Out, string(jsonBytes))
	return nil
}

type DebugHistoryCmd struct {
	Limit int `help:"Number of revisions to show." default:"20"`
}

func (cmd *DebugHistoryCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	h, ok := ctx.Store.(storage.Historian)
	if !ok {
		return fmt.Errorf("the %s store does not keep history", ctx.Store.GetConfigPath())
	}
	revs, err := h.History(constants.StateKey, cmd.Limit)
	if err != nil {
		return err
	}
	if len(revs) == 0 {
		fmt.Fprintln(ctx.Out, "No previous versions recorded")
		return nil
	}
	tbl := newTable("REVISION", "REPLACED", "SIZE")
	for _, r := range revs {
		tbl.AddRow(r.ID, r.ReplacedAt.In(ctx.Clock.Location()).Format("2006-01-02 15:04:05"), r.Size)
	}
	fmt.Fprintln(ctx.Out, tbl)
	return nil
}

func findRevision(ctx *Context, id int64) (storage.Revision, error) {
	h, ok := ctx.Store.(storage.Historian)
	if !ok {
		return storage.Revision{}, fmt.Errorf("the %s store does not keep history", ctx.Store.GetConfigPath())
	}
	revs, err := h.History(constants.StateKey, storage.MaxRevisions)
	if err != nil {
		return storage.Revision{}, err
	}
	for _, r := range revs {
		if r.ID == id {
			return r, nil
		}
	}
	return storage.Revision{}, fmt.Errorf("revision %d not found", id)
}
