package main

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/studyplan/internal/cli"
	"github.com/julianstephens/studyplan/internal/config"
	"github.com/julianstephens/studyplan/internal/constants"
	apperrors "github.com/julianstephens/studyplan/internal/errors"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/telemetry"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config directory." type:"path" default:"${config_dir}"`
	Store    string `help:"Store location: a .json file, a .db file, a directory, a postgres:// URL or 'postgres'."`
	Timezone string `help:"IANA timezone used to decide what 'today' is."`
	Debug    bool   `help:"Enable debug logging."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize studyplan storage and config."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Today    cli.TodayCmd    `cmd:"" help:"Show the tasks for today or another day."`
	Progress cli.ProgressCmd `cmd:"" help:"Show task completion per week."`
	Generate cli.GenerateCmd `cmd:"" help:"Generate a 12-week plan with the AI model."`
	Validate cli.ValidateCmd `cmd:"" help:"Check the stored plan for conflicts."`
	Export   cli.ExportCmd   `cmd:"" help:"Export the plan record as JSON."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks."`
	Inspect  cli.DebugCmd    `cmd:"" name:"debug" help:"Inspect storage internals."`
	Week     struct {
		List cli.WeekListCmd `cmd:"" help:"List the weeks of the plan."`
		Show cli.WeekShowCmd `cmd:"" help:"Show the tasks of a week."`
	} `cmd:"" help:"Browse weeks."`
	Task struct {
		Status cli.TaskStatusCmd `cmd:"" help:"Set the status of a task."`
	} `cmd:"" help:"Manage tasks."`
	Template struct {
		List   cli.TemplateListCmd   `cmd:"" help:"List templates."`
		Show   cli.TemplateShowCmd   `cmd:"" help:"Show a template."`
		Add    cli.TemplateAddCmd    `cmd:"" help:"Add a template."`
		Delete cli.TemplateDeleteCmd `cmd:"" help:"Delete a template."`
		Apply  cli.TemplateApplyCmd  `cmd:"" help:"Rebuild a week from a template."`
		Load   cli.TemplateLoadCmd   `cmd:"" help:"Load templates from YAML, TOML or JSON files."`
	} `cmd:"" help:"Manage week templates."`
	Import struct {
		Text cli.ImportTextCmd `cmd:"" help:"Replace a week's tasks from weekly text."`
		JSON cli.ImportJSONCmd `cmd:"" name:"json" help:"Replace the whole plan from an exported record."`
	} `cmd:"" help:"Import plan data."`
	Note struct {
		Add  cli.NoteAddCmd  `cmd:"" help:"Attach a note to a day."`
		List cli.NoteListCmd `cmd:"" help:"List notes."`
	} `cmd:"" help:"Manage day notes."`
	KPI struct {
		List cli.KPIListCmd `cmd:"" help:"List KPIs."`
		Set  cli.KPISetCmd  `cmd:"" help:"Record the current value of a KPI."`
	} `cmd:"" name:"kpi" help:"Track KPIs."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup of the plan."`
		List    cli.BackupListCmd    `cmd:"" help:"List backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore the plan from a backup."`
	} `cmd:"" help:"Manage backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Show which secrets are stored."`
	} `cmd:"" help:"Manage stored secrets."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("12-week study planner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"version":    constants.Version,
			"config_dir": constants.DefaultConfigDir,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.Store != "" {
		if cfg.Store, err = config.ExpandPath(CLI.Store); err != nil {
			apperrors.Fatal(err)
		}
	}
	if CLI.Timezone != "" {
		cfg.Timezone = CLI.Timezone
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: cfg.Dir,
		Stderr:    !strings.HasPrefix(ctx.Command(), "tui"),
	}); err != nil {
		apperrors.Fatal(err)
	}

	if err := telemetry.Init(context.Background(), constants.AppName, constants.Version); err != nil {
		logger.Warn("Telemetry disabled", "error", err)
	}
	defer telemetry.Shutdown(context.Background())

	appCtx, err := cli.NewContext(cfg)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer appCtx.Store.Close()

	logger.Debug("Running command", "command", ctx.Command(), "store", appCtx.Store.GetConfigPath())
	if err := ctx.Run(appCtx); err != nil {
		appCtx.Store.Close()
		telemetry.Shutdown(context.Background())
		apperrors.Fatal(err)
	}
}
