package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/studyplan/internal/constants"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	data, err := ctx.Store.Get(constants.StateKey)
	if err != nil {
		return fmt.Errorf("nothing to back up: %w", err)
	}
	backupPath, err := ctx.Backups.CreateBackup(data)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Fprintf(ctx.Out, "%s Backup created: %s\n", okMark(), filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Fprintln(ctx.Out, "No backups found.")
		fmt.Fprintf(ctx.Out, "Backups are stored in: %s\n", ctx.Backups.GetBackupDir())
		return nil
	}

	fmt.Fprintf(ctx.Out, "Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	tbl := newTable("CREATED", "FILE", "SIZE")
	for _, b := range backups {
		tbl.AddRow(b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), fmt.Sprintf("%.1f KB", float64(b.Size)/1024.0))
	}
	fmt.Fprintln(ctx.Out, tbl)
	fmt.Fprintf(ctx.Out, "\nBackup directory: %s\n", ctx.Backups.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	backupPath := c.BackupFile
	if !filepath.IsAbs(backupPath) {
		possiblePath := filepath.Join(ctx.Backups.GetBackupDir(), c.BackupFile)
		if _, err := os.Stat(possiblePath); err == nil {
			backupPath = possiblePath
		}
	}
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	if !c.Yes {
		fmt.Fprintf(ctx.Out, "%s  WARNING: This will replace your current plan with the backup.\n", warnMark())
		fmt.Fprintln(ctx.Out, "A backup of your current plan will be created before restoring.")
		fmt.Fprintf(ctx.Out, "\nRestore from: %s\n", filepath.Base(backupPath))
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(ctx.Out, "Restore cancelled.")
			return nil
		}
	}

	current, _ := ctx.Store.Get(constants.StateKey)
	data, err := ctx.Backups.RestoreBackup(backupPath, current)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if err := ctx.Controller.ImportRecord(data); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Fprintf(ctx.Out, "%s Plan restored successfully!\n", okMark())
	fmt.Fprintln(ctx.Out, "Restart any running studyplan processes to use the restored plan.")
	return nil
}
