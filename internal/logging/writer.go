package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LogEntry contains metadata for creating a log file.
type LogEntry struct {
	RepoOwner string
	RepoName  string
	Command   string
	RunID     string
	Timestamp time.Time
}

// Writer manages log files organized by repository.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer with the specified base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Create opens a new log file for the given entry. The caller closes it.
// Directory structure: baseDir/owner/repo/timestamp-command-runID.log
func (w *Writer) Create(entry LogEntry) (*os.File, error) {
	dir := filepath.Join(w.baseDir, entry.RepoOwner, entry.RepoName)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	filename := fmt.Sprintf("%s-%s-%s.log",
		entry.Timestamp.Format("2006-01-02T15-04-05"),
		entry.Command,
		entry.RunID,
	)

	f, err := os.OpenFile(filepath.Join(dir, filename), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}
	return f, nil
}
