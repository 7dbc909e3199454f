package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/studyplan/internal/backup"
	"github.com/julianstephens/studyplan/internal/config"
	"github.com/julianstephens/studyplan/internal/constants"
	apperrors "github.com/julianstephens/studyplan/internal/errors"
	"github.com/julianstephens/studyplan/internal/keyring"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/state"
	"github.com/julianstephens/studyplan/internal/storage"
	"github.com/julianstephens/studyplan/internal/storage/postgres"
	"github.com/julianstephens/studyplan/internal/storage/sqlite"
	"github.com/julianstephens/studyplan/internal/utils"
)

// EnvConnection holds a PostgreSQL connection string when the store target
// is "postgres".
const EnvConnection = constants.EnvPrefix + "_DB_CONNECTION"

type Context struct {
	Config     *config.Config
	Store      storage.Provider
	Clock      utils.Clock
	Controller *state.Controller
	Backups    *backup.Manager

	Out io.Writer
	In  io.Reader
}

// NewContext opens the configured store and builds the controller around
// it. Nothing is read until a command loads the store.
func NewContext(cfg *config.Config) (*Context, error) {
	clock, err := utils.NewClock(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	store, err := OpenStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	backups := backup.NewManager(cfg.Dir)
	return &Context{
		Config:     cfg,
		Store:      store,
		Clock:      clock,
		Controller: state.New(store, clock, state.WithBackups(backups)),
		Backups:    backups,
		Out:        os.Stdout,
		In:         os.Stdin,
	}, nil
}

// OpenStore picks a provider for target: a PostgreSQL URL (or "postgres"
// to read the connection string from the environment or keyring), a .json
// file, a .db/.sqlite file, or otherwise a diskv directory.
func OpenStore(target string) (storage.Provider, error) {
	if target == "postgres" {
		conn := os.Getenv(EnvConnection)
		if conn == "" {
			var err error
			conn, err = keyring.ConnectionString()
			if err != nil {
				return nil, apperrors.WithHint(
					fmt.Errorf("no PostgreSQL connection string: %w", err),
					fmt.Sprintf("set %s or run 'studyplan keyring set connection'", EnvConnection))
			}
		}
		target = conn
	}

	if postgres.IsConnString(target) {
		if err := postgres.ValidateConnString(target); err != nil {
			return nil, err
		}
		return postgres.New(target), nil
	}

	switch strings.ToLower(filepath.Ext(target)) {
	case ".json":
		return storage.NewJSONStore(target), nil
	case ".db", ".sqlite", ".sqlite3":
		return sqlite.NewStore(target), nil
	}
	return storage.NewDiskvStore(target), nil
}

// load opens the store and reads the plan into the controller.
func (c *Context) load() error {
	if err := c.Store.Load(); err != nil {
		if errors.Is(err, storage.ErrNotInitialized) {
			return apperrors.WithHint(err, "run 'studyplan init' to create it")
		}
		return fmt.Errorf("failed to load storage: %w", err)
	}

	res, err := c.Controller.Load()
	if err != nil {
		return err
	}
	if res.Fallback && res.Reason != "no saved plan" {
		fmt.Fprintf(c.Out, "%s Saved plan could not be used (%s); starting from a fresh plan.\n", warnMark(), res.Reason)
		if res.BackupPath != "" {
			fmt.Fprintf(c.Out, "  The unreadable record was saved to %s\n", res.BackupPath)
		}
	}
	return nil
}

// PerformAutomaticBackup copies the stored record before a destructive
// change. Failures are logged, never fatal.
func (c *Context) PerformAutomaticBackup() {
	data, err := c.Store.Get(constants.StateKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Automatic backup skipped", "error", err)
		}
		return
	}
	path, err := c.Backups.CreateBackup(data)
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	logger.Debug("Automatic backup created", "path", path)
}

// confirm asks a yes/no question on c.In.
func (c *Context) confirm(question string) (bool, error) {
	fmt.Fprintf(c.Out, "%s [y/N]: ", question)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func okMark() string   { return color.GreenString("✓") }
func failMark() string { return color.RedString("❌") }
func warnMark() string { return color.YellowString("⚠") }

func newTable(headers ...interface{}) *uitable.Table {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	if len(headers) > 0 {
		row := make([]interface{}, len(headers))
		for i, h := range headers {
			row[i] = bold.Sprint(h)
		}
		tbl.AddRow(row...)
	}
	return tbl
}

var dayNames = map[string]int{
	"mon": 0, "monday": 0, "seg": 0, "segunda": 0,
	"tue": 1, "tuesday": 1, "ter": 1, "terça": 1, "terca": 1,
	"wed": 2, "wednesday": 2, "qua": 2, "quarta": 2,
	"thu": 3, "thursday": 3, "qui": 3, "quinta": 3,
	"fri": 4, "friday": 4, "sex": 4, "sexta": 4,
	"sat": 5, "saturday": 5, "sab": 5, "sáb": 5, "sábado": 5, "sabado": 5,
	"sun": 6, "sunday": 6, "dom": 6, "domingo": 6,
}

// parseDay turns a weekday name (English or Portuguese) or a number
// 1..7 (1 = Monday) into a day offset.
func parseDay(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if offset, ok := dayNames[s]; ok {
		return offset, nil
	}
	num, err := strconv.Atoi(s)
	if err == nil && num >= 1 && num <= constants.DaysInWeek {
		return num - 1, nil
	}
	return 0, fmt.Errorf("invalid day %q (expected 1-7 or a weekday name)", s)
}

var shortDayNames = []string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}

func dayLabel(offset int) string {
	if offset < 0 || offset >= len(shortDayNames) {
		return "?"
	}
	return shortDayNames[offset]
}

func statusMark(s models.TaskStatus) string {
	switch s {
	case models.TaskStatusDone:
		return color.GreenString("[x]")
	case models.TaskStatusDoing:
		return color.CyanString("[~]")
	case models.TaskStatusSkipped:
		return color.HiBlackString("[-]")
	default:
		return "[ ]"
	}
}

// readInput reads path, or stdin when path is "-".
func (c *Context) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.In)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
