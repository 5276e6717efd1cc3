package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/drewdunne/codepros/internal/errs"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGraphQL = "graphql"
	ProviderGitHub  = "github"
	ProviderGitLab  = "gitlab"
)

// Config represents the configuration of one notification run.
type Config struct {
	Workspace     string        `yaml:"workspace" env:"GITHUB_WORKSPACE"`
	ProjectDir    string        `yaml:"-" env:"CI_PROJECT_DIR"`
	EventPath     string        `yaml:"event_path" env:"GITHUB_EVENT_PATH"`
	Provider      string        `yaml:"provider" env:"CODEPROS_PROVIDER"`
	OwnershipFile string        `yaml:"ownership_file" env:"CODEPROS_FILE"`
	DryRun        bool          `yaml:"dry_run" env:"CODEPROS_DRY_RUN"`
	TimeoutSecs   int           `yaml:"timeout_secs" env:"CODEPROS_TIMEOUT_SECS"`
	Repository    string        `yaml:"-" env:"GITHUB_REPOSITORY"`
	RunID         string        `yaml:"-" env:"GITHUB_RUN_ID"`
	GitHub        GitHubConfig  `yaml:"github"`
	GitLab        GitLabConfig  `yaml:"gitlab"`
	Logging       LoggingConfig `yaml:"logging"`
}

// GitHubConfig holds GitHub-specific settings.
type GitHubConfig struct {
	Token          string `yaml:"token" env:"GITHUB_TOKEN"`
	GraphQLURL     string `yaml:"graphql_url" env:"GITHUB_GRAPHQL_URL"`
	APIURL         string `yaml:"api_url" env:"GITHUB_API_URL"`
	AppID          int64  `yaml:"app_id" env:"GITHUB_APP_ID"`
	InstallationID int64  `yaml:"installation_id" env:"GITHUB_APP_INSTALLATION_ID"`
	PrivateKeyPath string `yaml:"private_key_path" env:"GITHUB_APP_PRIVATE_KEY_PATH"`
}

// UsesApp reports whether GitHub App credentials are configured.
func (c GitHubConfig) UsesApp() bool {
	return c.AppID != 0 && c.InstallationID != 0 && c.PrivateKeyPath != ""
}

// GitLabConfig holds GitLab-specific settings.
type GitLabConfig struct {
	Token  string `yaml:"token" env:"GITLAB_TOKEN"`
	APIURL string `yaml:"api_url" env:"CI_API_V4_URL"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Debug         bool   `yaml:"debug" env:"CODEPROS_DEBUG"`
	Format        string `yaml:"format" env:"CODEPROS_LOG_FORMAT"`
	Dir           string `yaml:"dir" env:"CODEPROS_LOG_DIR"`
	RetentionDays int    `yaml:"retention_days" env:"CODEPROS_LOG_RETENTION_DAYS"`
}

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Provider:      ProviderGraphQL,
		OwnershipFile: "CODEPROS",
		TimeoutSecs:   30,
		Logging: LoggingConfig{
			Format:        "text",
			RetentionDays: 30,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and the environment, in increasing order of precedence. The result
// is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		// Substitute environment variables
		data = envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
			varName := envVarPattern.FindSubmatch(match)[1]
			return []byte(os.Getenv(string(varName)))
		})

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Unset variables keep the file or default value.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.Workspace == "" && cfg.Provider == ProviderGitLab {
		cfg.Workspace = cfg.ProjectDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that everything the selected provider needs is present.
func (c *Config) Validate() error {
	if c.Workspace == "" {
		if c.Provider == ProviderGitLab {
			return errs.NewMissingVariable("CI_PROJECT_DIR")
		}
		return errs.NewMissingVariable("GITHUB_WORKSPACE")
	}
	if c.TimeoutSecs <= 0 {
		return &errs.ConfigError{Reason: fmt.Sprintf("CODEPROS_TIMEOUT_SECS must be positive, got %d", c.TimeoutSecs)}
	}

	switch c.Provider {
	case ProviderGraphQL:
		if c.EventPath == "" {
			return errs.NewMissingVariable("GITHUB_EVENT_PATH")
		}
		if c.GitHub.GraphQLURL == "" {
			return errs.NewMissingVariable("GITHUB_GRAPHQL_URL")
		}
		if c.GitHub.Token == "" {
			return errs.NewMissingVariable("GITHUB_TOKEN")
		}
	case ProviderGitHub:
		if c.EventPath == "" {
			return errs.NewMissingVariable("GITHUB_EVENT_PATH")
		}
		if c.GitHub.Token == "" && !c.GitHub.UsesApp() {
			return errs.NewMissingVariable("GITHUB_TOKEN")
		}
	case ProviderGitLab:
		if c.GitLab.Token == "" {
			return errs.NewMissingVariable("GITLAB_TOKEN")
		}
	default:
		return &errs.ConfigError{Reason: fmt.Sprintf("unknown provider %q in CODEPROS_PROVIDER", c.Provider)}
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return &errs.ConfigError{Reason: fmt.Sprintf("unknown log format %q", c.Logging.Format)}
	}
	return nil
}

// Timeout is the per-request deadline for the code-hosting API.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}
