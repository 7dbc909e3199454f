package constants

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ConflictType represents the type of validation conflict
type ConflictType string

// SessionState represents the current tab of the TUI application
type SessionState int

// ConfirmationMsg is a message to trigger a confirmation dialog
type ConfirmationMsg struct {
	Message string
	Action  func() tea.Cmd
}

const (
	AppName           = "studyplan"
	Version           = "v0.3.0"
	DefaultConfigDir  = "~/.config/studyplan"
	DefaultStorePath  = "~/.config/studyplan/studyplan.db"
	DefaultTimezone   = "America/Sao_Paulo"
	ConfigFileName    = "config"
	EnvPrefix         = "STUDYPLAN"
	StateKey          = "studyplan/state"
	RecordVersion     = 1
	GenerationTimeout = 2 * time.Minute

	// Keyring users
	KeyringUserAPIKey     = "anthropic-api-key"
	KeyringUserConnection = "database-connection"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Plan shape
	WeeksInPlan         = 12
	DaysInWeek          = 7
	WeekdayCapacityMin  = 120
	WeekendCapacityMin  = 180
	FirstWeekendOffset  = 5
	FillerBlockMin      = 60
	FillerShortBlockMin = 30

	// Focus timer
	FocusDuration = 25 * time.Minute
	BreakDuration = 5 * time.Minute

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "studyplan-"
	BackupFileSuffix = ".json"

	// Generation lock
	GenerationLockfileName = "studyplan-generate.lock"

	// Conflict Types
	ConflictWeekCount          ConflictType = "week_count"
	ConflictWeekNumbering      ConflictType = "week_numbering"
	ConflictDayCount           ConflictType = "day_count"
	ConflictDateSequence       ConflictType = "date_sequence"
	ConflictCapacity           ConflictType = "capacity"
	ConflictInvalidDuration    ConflictType = "invalid_duration"
	ConflictInvalidTaskType    ConflictType = "invalid_task_type"
	ConflictInvalidTaskStatus  ConflictType = "invalid_task_status"
	ConflictDuplicateTaskID    ConflictType = "duplicate_task_id"
	ConflictOrphanNote         ConflictType = "orphan_note"
	ConflictKPIRange           ConflictType = "kpi_range"
	ConflictInvalidWeekStatus  ConflictType = "invalid_week_status"
	ConflictEmptyTemplateTitle ConflictType = "empty_template_title"
)

// Session States
const (
	StateDashboard SessionState = iota
	StateWeek
	StateToday
	StateTemplates
	StateApplyTemplate
	StateImportText
	StateAddNote
	StateConfirmation
)

// CapacityForOffset returns the planned minutes for a day at the given
// offset from Monday.
func CapacityForOffset(offset int) int {
	if offset >= FirstWeekendOffset {
		return WeekendCapacityMin
	}
	return WeekdayCapacityMin
}
