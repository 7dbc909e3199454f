package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/storage"
	"github.com/julianstephens/studyplan/internal/storage/sqlite"
	"github.com/julianstephens/studyplan/internal/tui"
)

type TuiCmd struct {
	NoWatch bool `help:"Do not reload when the store changes on disk."`
}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	watchCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes <-chan struct{}
	if path, ok := watchPath(ctx.Store); ok && !c.NoWatch {
		ch, err := storage.Watch(watchCtx, path)
		if err != nil {
			logger.Warn("Store watch disabled", "path", path, "error", err)
		} else {
			changes = ch
		}
	}

	p := tea.NewProgram(tui.NewModel(ctx.Controller, changes), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}

// watchPath returns the on-disk location of file-backed stores.
func watchPath(store storage.Provider) (string, bool) {
	switch s := store.(type) {
	case *storage.JSONStore, *storage.DiskvStore, *sqlite.Store:
		return s.GetConfigPath(), true
	}
	return "", false
}
