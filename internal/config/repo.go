package config

import (
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// RepoConfigFile is the repository-level settings file, relative to the
// workspace root.
const RepoConfigFile = ".codepros.yaml"

// RepoConfig represents repository-level configuration.
type RepoConfig struct {
	// OwnershipFile overrides the ownership file path.
	OwnershipFile string `yaml:"ownership_file"`

	// Ignore lists handles that are never notified, e.g. bot accounts.
	Ignore []string `yaml:"ignore"`
}

// LoadRepoConfig loads RepoConfigFile from fsys. A missing file yields an
// empty config.
func LoadRepoConfig(fsys fs.FS) (*RepoConfig, error) {
	data, err := fs.ReadFile(fsys, RepoConfigFile)
	if errors.Is(err, fs.ErrNotExist) {
		return &RepoConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading repo config: %w", err)
	}

	var cfg RepoConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing repo config: %w", err)
	}

	return &cfg, nil
}
