package config

import (
	"path/filepath"
	"slices"
)

// MergedConfig represents the settings a run uses after combining the run
// configuration with the repository's own.
type MergedConfig struct {
	// OwnershipPath is the absolute path of the ownership file.
	OwnershipPath string

	// Ignore is the sorted, de-duplicated list of handles never notified.
	Ignore []string
}

// MergeConfigs merges run config with repo config.
// Repo config values take precedence over run defaults.
func MergeConfigs(run *Config, repo *RepoConfig) *MergedConfig {
	file := coalesce(repo.OwnershipFile, run.OwnershipFile)
	if !filepath.IsAbs(file) {
		file = filepath.Join(run.Workspace, file)
	}

	ignore := slices.Clone(repo.Ignore)
	slices.Sort(ignore)

	return &MergedConfig{
		OwnershipPath: file,
		Ignore:        slices.Compact(ignore),
	}
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
