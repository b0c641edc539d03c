// Package audit keeps the append-only history of mutating operations.
// Each entry is one line, "HH:MM DD-MM-YY | <message>". The file is never
// rewritten, only appended.
package audit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/user/mtd/internal/task"
)

// Log is an append-only history file
type Log struct {
	path string
}

// New returns a log bound to path. The file is created on first Record.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the backing file path
func (l *Log) Path() string {
	return l.path
}

// Record appends one timestamped entry
func (l *Log) Record(message string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s | %s\n", time.Now().Format(task.StampLayout), message)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to log: %w", err)
	}

	return nil
}

// Tail returns the last n entries, most recent first. With all set it
// returns every entry in file order instead. A missing file surfaces as an
// os.IsNotExist error for the caller to report.
func (l *Log) Tail(n int, all bool) ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}

	if all {
		return lines, nil
	}

	if n > len(lines) {
		n = len(lines)
	}
	recent := make([]string, 0, n)
	for i := len(lines) - 1; i >= len(lines)-n; i-- {
		recent = append(recent, lines[i])
	}
	return recent, nil
}
