package logging

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// Cleaner prunes run logs older than a retention period.
type Cleaner struct {
	baseDir       string
	retentionDays int
}

// NewCleaner creates a Cleaner for the log tree rooted at baseDir.
func NewCleaner(baseDir string, retentionDays int) *Cleaner {
	return &Cleaner{baseDir: baseDir, retentionDays: retentionDays}
}

// Cleanup deletes .log files last modified before the retention window and
// then any directories left empty. It returns how many files were deleted.
// A non-positive retention keeps everything.
func (c *Cleaner) Cleanup() (int, error) {
	if c.retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -c.retentionDays)

	var (
		deleted int
		dirs    []string
	)
	err := filepath.WalkDir(c.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are left for the next run.
			return nil
		}
		if d.IsDir() {
			if path != c.baseDir {
				dirs = append(dirs, path)
			}
			return nil
		}
		if filepath.Ext(path) != ".log" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		if os.Remove(path) == nil {
			deleted++
		}
		return nil
	})

	c.removeEmptyDirs(dirs)
	return deleted, err
}

// removeEmptyDirs removes the empty directories among dirs, children before
// parents so a parent emptied by the pass is removed too.
func (c *Cleaner) removeEmptyDirs(dirs []string) {
	slices.SortFunc(dirs, func(a, b string) int { return len(b) - len(a) })
	for _, dir := range dirs {
		if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
			os.Remove(dir)
		}
	}
}
