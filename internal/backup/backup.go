package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/models"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64

	// seq orders backups that share a timestamp.
	seq int
}

// Manager keeps timestamped JSON copies of the plan record
type Manager struct {
	backupDir string
	now       func() time.Time
}

// NewManager creates a backup manager storing files under
// <configDir>/backups.
func NewManager(configDir string) *Manager {
	return &Manager{
		backupDir: filepath.Join(configDir, constants.BackupDirName),
		now:       time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// CreateBackup writes data as a new backup and rotates old ones.
func (m *Manager) CreateBackup(data []byte) (string, error) {
	return m.createBackup(data, false)
}

// createBackup writes a backup file. skipRotation is set while restoring so
// the pre-restore copy never evicts the backup being restored.
func (m *Manager) createBackup(data []byte, skipRotation bool) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("nothing to back up")
	}
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath, err := m.nextBackupPath()
	if err != nil {
		return "", err
	}

	tmp := backupPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tmp, backupPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	logger.Debug("Created backup", "path", backupPath, "size", len(data))
	return backupPath, nil
}

// nextBackupPath picks a free file name: minute precision first, then
// seconds, then a numeric counter.
func (m *Manager) nextBackupPath() (string, error) {
	now := m.now()
	name := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}

	path := name(now.Format("20060102-1504"))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	stamp := now.Format("20060102-150405")
	path = name(stamp)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = name(fmt.Sprintf("%s-%d", stamp, counter))
	}
}

// parseTimestamp extracts the creation time from a backup file name, plus
// a sequence number ordering names that share a timestamp.
func parseTimestamp(name string) (time.Time, int, bool) {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	// Drop a trailing counter (YYYYMMDD-HHMMSS-N).
	counter := 0
	parts := strings.Split(stamp, "-")
	if len(parts) > 2 {
		last := parts[len(parts)-1]
		if len(last) != 4 && len(last) != 6 && isDigits(last) {
			counter, _ = strconv.Atoi(last)
			stamp = strings.Join(parts[:len(parts)-1], "-")
		}
	}

	if ts, err := time.ParseInLocation("20060102-1504", stamp, time.Local); err == nil {
		return ts, 0, true
	}
	if ts, err := time.ParseInLocation("20060102-150405", stamp, time.Local); err == nil {
		return ts, 1 + counter, true
	}
	return time.Time{}, 0, false
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// ListBackups returns a list of all available backups, sorted by timestamp (newest first)
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}

		timestamp, seq, ok := parseTimestamp(name)
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: timestamp,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].seq > backups[j].seq
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// ReadBackup returns the contents of a backup after checking it holds a
// plan record.
func (m *Manager) ReadBackup(backupPath string) ([]byte, error) {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("backup file does not exist: %s", backupPath)
		}
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	if err := verifyBackup(data); err != nil {
		return nil, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	return data, nil
}

// RestoreBackup reads a backup for restoring. When current is non-empty it
// is saved first so the restore can be undone.
func (m *Manager) RestoreBackup(backupPath string, current []byte) ([]byte, error) {
	data, err := m.ReadBackup(backupPath)
	if err != nil {
		return nil, err
	}

	if len(current) > 0 {
		saved, err := m.createBackup(current, true)
		if err != nil {
			return nil, fmt.Errorf("failed to backup current plan before restore: %w", err)
		}
		logger.Info("Saved current plan before restore", "path", saved)
	}
	return data, nil
}

// verifyBackup checks that data decodes as a plan record with weeks
func verifyBackup(data []byte) error {
	var plan models.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return err
	}
	if plan.Weeks == nil {
		return fmt.Errorf("record has no weeks")
	}
	return nil
}
