package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/studyplan/internal/generator"
	"github.com/julianstephens/studyplan/internal/keyring"
	"github.com/julianstephens/studyplan/internal/migration"
	"github.com/julianstephens/studyplan/internal/storage/sqlite"
	"github.com/julianstephens/studyplan/internal/utils"
	"github.com/julianstephens/studyplan/internal/validation"
)

// migrator is implemented by the SQL-backed providers.
type migrator interface {
	MigrationStatus() (migration.Status, error)
}

// errWarning marks a check result that should not fail the run.
type errWarning struct{ msg string }

func (w errWarning) Error() string { return w.msg }

func warning(format string, args ...interface{}) error {
	return errWarning{msg: fmt.Sprintf(format, args...)}
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.Out, "Running diagnostics...")
	fmt.Fprintln(ctx.Out)

	hasError := false
	report := func(name string, err error) {
		var w errWarning
		switch {
		case err == nil:
			fmt.Fprintf(ctx.Out, "%s %s: OK\n", okMark(), name)
		case errors.As(err, &w):
			fmt.Fprintf(ctx.Out, "%s %s: WARNING\n", warnMark(), name)
			for _, line := range strings.Split(w.msg, "\n") {
				fmt.Fprintf(ctx.Out, "   %s\n", line)
			}
		default:
			fmt.Fprintf(ctx.Out, "%s %s: FAIL\n", failMark(), name)
			fmt.Fprintf(ctx.Out, "   Error: %v\n", err)
			hasError = true
		}
	}

	storeErr := checkStoreReachable(ctx)
	report("Storage reachable", storeErr)
	if storeErr == nil {
		report("Schema migrations", checkMigrations(ctx))
		report("Plan validation", checkPlan(ctx))
	} else {
		fmt.Fprintln(ctx.Out, "⊘ Schema migrations: SKIPPED (storage not reachable)")
		fmt.Fprintln(ctx.Out, "⊘ Plan validation: SKIPPED (storage not reachable)")
	}
	report("Backups present", checkBackupsPresent(ctx))
	report("Clock/timezone", checkClockTimezone(ctx))
	report("Keyring", checkKeyring())
	report("Plan generation key", checkAPIKey(ctx))

	fmt.Fprintln(ctx.Out)
	if hasError {
		fmt.Fprintln(ctx.Out, "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Fprintln(ctx.Out, "All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkMigrations(ctx *Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	st, err := m.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	if len(st.Pending) > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", st.Current, st.Latest)
	}
	return nil
}

func checkPlan(ctx *Context) error {
	res, err := ctx.Controller.Load()
	if err != nil {
		return err
	}
	if res.Fallback {
		if res.Reason == "no saved plan" {
			return warning("no saved plan yet, run 'studyplan init'")
		}
		return fmt.Errorf("saved plan is unusable: %s", res.Reason)
	}

	result := validation.New().ValidatePlan(ctx.Controller.Snapshot())
	if result.HasErrors() {
		return errors.New(result.FormatReport())
	}
	if result.HasConflicts() {
		return warning("%s", result.FormatReport())
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return warning("no backups found - consider creating one with 'studyplan backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	if ctx.Config != nil && !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("invalid timezone %q", ctx.Config.Timezone)
	}
	now := ctx.Clock.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format("2006-01-02T15:04:05Z07:00"))
	}
	return nil
}

func checkKeyring() error {
	if !keyring.IsAvailable() {
		return warning("OS keyring is not available; secrets must come from the environment or config file")
	}
	return nil
}

func checkAPIKey(ctx *Context) error {
	configKey := ""
	if ctx.Config != nil {
		configKey = ctx.Config.AI.APIKey
	}
	if _, err := generator.ResolveAPIKey(configKey); err != nil {
		return warning("%v", err)
	}
	return nil
}
