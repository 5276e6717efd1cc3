package config

import (
	"reflect"
	"testing"
	"testing/fstest"
)

func TestLoadRepoConfig(t *testing.T) {
	fsys := fstest.MapFS{
		RepoConfigFile: &fstest.MapFile{Data: []byte(`
ownership_file: .github/CODEPROS
ignore:
  - "@dependabot"
  - "@renovate"
`)},
	}

	cfg, err := LoadRepoConfig(fsys)
	if err != nil {
		t.Fatalf("LoadRepoConfig() error = %v", err)
	}

	if cfg.OwnershipFile != ".github/CODEPROS" {
		t.Errorf("OwnershipFile = %q", cfg.OwnershipFile)
	}
	if want := []string{"@dependabot", "@renovate"}; !reflect.DeepEqual(cfg.Ignore, want) {
		t.Errorf("Ignore = %v, want %v", cfg.Ignore, want)
	}
}

func TestLoadRepoConfig_NotFound(t *testing.T) {
	cfg, err := LoadRepoConfig(fstest.MapFS{})
	if err != nil {
		t.Fatalf("LoadRepoConfig() error = %v", err)
	}
	if cfg.OwnershipFile != "" || len(cfg.Ignore) != 0 {
		t.Errorf("LoadRepoConfig() = %+v, want empty config", cfg)
	}
}

func TestLoadRepoConfig_Invalid(t *testing.T) {
	fsys := fstest.MapFS{
		RepoConfigFile: &fstest.MapFile{Data: []byte("ignore: [unclosed")},
	}
	if _, err := LoadRepoConfig(fsys); err == nil {
		t.Error("LoadRepoConfig() expected error for invalid YAML")
	}
}
