package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Paths resolves where the tracker keeps its files. Plaintext stores and
// the history log live under the data dir; encrypted scratch copies get
// their own subdirectory so they are never mistaken for live stores.
type Paths struct {
	ConfigDir string
	DataDir   string
}

// DefaultPaths places the tracker under the XDG config and data homes
func DefaultPaths() Paths {
	return Paths{
		ConfigDir: filepath.Join(xdg.ConfigHome, "mtd"),
		DataDir:   filepath.Join(xdg.DataHome, "mtd"),
	}
}

// ConfigFile is the YAML configuration path
func (p Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// EnvFile is the secrets file loaded into the environment
func (p Paths) EnvFile() string {
	return filepath.Join(p.ConfigDir, ".env")
}

// PlaintextDir holds the live task stores
func (p Paths) PlaintextDir() string {
	return filepath.Join(p.DataDir, "plaintext")
}

// EncryptedDir holds encrypted scratch copies during sync
func (p Paths) EncryptedDir() string {
	return filepath.Join(p.DataDir, "encrypted")
}

// IncompleteTasks is the incomplete store path
func (p Paths) IncompleteTasks() string {
	return filepath.Join(p.PlaintextDir(), "tasks.json")
}

// CompletedTasks is the completed store path
func (p Paths) CompletedTasks() string {
	return filepath.Join(p.PlaintextDir(), "completed_tasks.json")
}

// HistoryLog is the audit log path
func (p Paths) HistoryLog() string {
	return filepath.Join(p.PlaintextDir(), "history.log")
}

// StateFile records the current list selection
func (p Paths) StateFile() string {
	return filepath.Join(p.DataDir, "state.yaml")
}

// LockFile guards sync operations against concurrent invocations
func (p Paths) LockFile() string {
	return filepath.Join(p.DataDir, "mtd.lock")
}

// EnsureLayout creates the directory layout and empty data files on first
// run. Existing files are left alone.
func (p Paths) EnsureLayout() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.PlaintextDir(), p.EncryptedDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	for _, file := range []string{p.IncompleteTasks(), p.CompletedTasks(), p.HistoryLog()} {
		if _, err := os.Stat(file); err == nil {
			continue
		}
		if err := os.WriteFile(file, nil, 0644); err != nil {
			return fmt.Errorf("failed to create %s: %w", file, err)
		}
	}

	if _, err := os.Stat(p.ConfigFile()); os.IsNotExist(err) {
		if err := WriteDefault(p.ConfigFile()); err != nil {
			return err
		}
	}

	return nil
}
