package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/drewdunne/codepros/internal/config"
	"github.com/drewdunne/codepros/internal/errs"
	"github.com/drewdunne/codepros/internal/event"
	"github.com/drewdunne/codepros/internal/handler"
	"github.com/drewdunne/codepros/internal/logging"
	"github.com/drewdunne/codepros/internal/metrics"
	"github.com/drewdunne/codepros/internal/ownership"
	"github.com/drewdunne/codepros/internal/registry"
	"github.com/drewdunne/codepros/internal/vcs"
)

var version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "notify":
		os.Exit(runNotify(os.Args[2:]))
	case "check":
		os.Exit(runCheck(os.Args[2:]))
	case "version":
		fmt.Printf("codepros v%s\n", version)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: codepros <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  notify   Mention the code pros of the current pull request")
	fmt.Println("  check    Validate an ownership file and print its rules")
	fmt.Println("  version  Print version information")
}

func runNotify(args []string) int {
	fs := flag.NewFlagSet("notify", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file (optional)")
	envFile := fs.String("env-file", "", "Path to .env file (optional)")
	dryRun := fs.Bool("dry-run", false, "Log the comment instead of posting it")
	fs.Parse(args)

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Printf("Warning: could not load env file %s: %v", *envFile, err)
		}
	} else {
		godotenv.Load(".env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("%s: %v", failureKind(err), err)
		return 1
	}
	if *dryRun {
		cfg.DryRun = true
	}

	logger, closeLog := setupLogger(cfg)
	defer closeLog()

	if err := notify(cfg, logger); err != nil {
		logger.Error(failureKind(err), "error", err)
		return 1
	}
	return 0
}

// failureKind names the part of the setup the operator has to fix.
func failureKind(err error) string {
	switch {
	case errs.IsConfig(err):
		return "Configuration error"
	case errs.IsEventData(err):
		return "Unusable pull request event"
	case errs.IsTransport(err):
		return "Code-hosting API request failed"
	default:
		return "Notification failed"
	}
}

func notify(cfg *config.Config, logger *slog.Logger) error {
	reg, err := registry.New(cfg)
	if err != nil {
		return err
	}
	p := reg.Get(cfg.Provider)
	if p == nil {
		return fmt.Errorf("provider %q is not configured (available: %s)", cfg.Provider, strings.Join(reg.List(), ", "))
	}

	repoCfg, err := config.LoadRepoConfig(os.DirFS(cfg.Workspace))
	if err != nil {
		return err
	}
	merged := config.MergeConfigs(cfg, repoCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := handler.NewRunner(p, vcs.New(), eventSource(cfg), handler.Options{
		Workspace:     cfg.Workspace,
		OwnershipPath: merged.OwnershipPath,
		Ignore:        merged.Ignore,
		DryRun:        cfg.DryRun,
	}, logger)

	outcome, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Run finished", "provider", p.Name(), "outcome", outcome, "metrics", metrics.Get())
	return nil
}

func eventSource(cfg *config.Config) handler.EventSource {
	if cfg.Provider == config.ProviderGitLab {
		return func() (*event.PullRequestEvent, error) {
			return event.FromGitLabEnv(env.ToMap(os.Environ()))
		}
	}
	return func() (*event.PullRequestEvent, error) {
		return event.LoadPullRequestEvent(cfg.EventPath)
	}
}

// setupLogger logs to stderr and, when a log directory is configured, to a
// per-run file as well. Old run logs are pruned first.
func setupLogger(cfg *config.Config) (*slog.Logger, func()) {
	opts := logging.Options{
		Debug:   cfg.Logging.Debug,
		Format:  cfg.Logging.Format,
		NoColor: os.Getenv("NO_COLOR") != "",
	}
	if cfg.Logging.Dir == "" {
		return logging.New(os.Stderr, opts), func() {}
	}

	if removed, err := logging.NewCleaner(cfg.Logging.Dir, cfg.Logging.RetentionDays).Cleanup(); err != nil {
		log.Printf("Warning: log cleanup failed: %v", err)
	} else if removed > 0 {
		log.Printf("Removed %d old log files", removed)
	}

	owner, repo := repoPath(cfg)
	f, err := logging.NewWriter(cfg.Logging.Dir).Create(logging.LogEntry{
		RepoOwner: owner,
		RepoName:  repo,
		Command:   "notify",
		RunID:     runID(cfg),
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("Warning: could not create log file: %v", err)
		return logging.New(os.Stderr, opts), func() {}
	}

	// The file copy never carries color codes.
	opts.NoColor = true
	return logging.New(io.MultiWriter(os.Stderr, f), opts), func() { f.Close() }
}

func repoPath(cfg *config.Config) (string, string) {
	full := cfg.Repository
	if full == "" {
		full = os.Getenv("CI_PROJECT_PATH")
	}
	i := strings.LastIndex(full, "/")
	if i <= 0 {
		return "unknown", "unknown"
	}
	// GitLab namespaces nest; flatten them into one directory name.
	return strings.ReplaceAll(full[:i], "/", "_"), full[i+1:]
}

func runID(cfg *config.Config) string {
	if cfg.RunID != "" {
		return cfg.RunID
	}
	if id := os.Getenv("CI_PIPELINE_ID"); id != "" {
		return id
	}
	return "local"
}

func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	file := fs.String("file", ownership.DefaultFileName, "Path to the ownership file")
	exclude := fs.String("exclude", "", "Comma-separated handles to leave out")
	fs.Parse(args)

	excluded := ownership.ReviewerSet{}
	for _, h := range strings.Split(*exclude, ",") {
		if h = strings.TrimSpace(h); h != "" {
			excluded.Add(h)
		}
	}

	rules, err := ownership.Load(*file, excluded)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(rules) == 0 {
		fmt.Printf("No rules in %s\n", filepath.Base(*file))
		return 0
	}
	for _, r := range rules {
		fmt.Printf("%s %s\n", r.Pattern, strings.Join(r.Reviewers.Sorted(), " "))
	}
	return 0
}
