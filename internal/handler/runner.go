// Package handler runs one notification: it reads the pull request event,
// matches the changed files against the ownership rules and reconciles the
// tracked comment.
package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/drewdunne/codepros/internal/event"
	"github.com/drewdunne/codepros/internal/metrics"
	"github.com/drewdunne/codepros/internal/notify"
	"github.com/drewdunne/codepros/internal/ownership"
	"github.com/drewdunne/codepros/internal/provider"
)

// Outcome is how a run ended. Every outcome exits successfully.
type Outcome string

const (
	OutcomeDraft       Outcome = "draft"
	OutcomeNoRules     Outcome = "no_rules"
	OutcomeNoReviewers Outcome = "no_reviewers"
	OutcomeDryRun      Outcome = "dry_run"
	OutcomeCreated     Outcome = "created"
	OutcomeUpdated     Outcome = "updated"
)

// ChangeLister lists the files a pull request changes in the local clone.
type ChangeLister interface {
	Deepen(ctx context.Context, dir string, n int) error
	ListChangedFiles(ctx context.Context, dir, base, head string) ([]string, error)
}

// EventSource yields the pull request the run is for.
type EventSource func() (*event.PullRequestEvent, error)

// Options holds the per-run settings of a Runner.
type Options struct {
	Workspace     string
	OwnershipPath string
	Ignore        []string // Handles never notified, in addition to the author
	DryRun        bool
}

// Runner executes the notification pipeline.
type Runner struct {
	provider provider.Provider
	git      ChangeLister
	source   EventSource
	opts     Options
	logger   *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(p provider.Provider, git ChangeLister, source EventSource, opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		provider: p,
		git:      git,
		source:   source,
		opts:     opts,
		logger:   logger,
	}
}

// Run executes one notification run.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	evt, err := r.source()
	if err != nil {
		return "", fmt.Errorf("loading event: %w", err)
	}
	logger := r.logger.With("platform", evt.Provider, "pr", evt.PullRequest.FullName(), "number", evt.PullRequest.Number)

	if evt.Draft {
		logger.Info("Not sending notifications for draft pull request.")
		return OutcomeDraft, nil
	}

	// Never notify the author of the pull request.
	excluded := ownership.NewReviewerSet(r.opts.Ignore...)
	excluded.Add(evt.Author)

	rules, err := ownership.Load(r.opts.OwnershipPath, excluded)
	if err != nil {
		return "", err
	}
	metrics.RulesLoaded(len(rules))
	if len(rules) == 0 {
		logger.Info("No CODEPROS globs found.", "file", r.opts.OwnershipPath)
		return OutcomeNoRules, nil
	}

	files, err := r.changedFiles(ctx, logger, evt)
	if err != nil {
		return "", err
	}
	metrics.FilesChanged(len(files))

	hits := ownership.Matches(files, rules)
	for _, h := range hits {
		metrics.RuleMatched()
		logger.Debug("Rule matches", "rule", h.Rule.Pattern, "file", h.File)
	}

	pros := ownership.Reviewers(hits)
	if len(pros) == 0 {
		logger.Info("No pros found for these files", "files", len(files))
		return OutcomeNoReviewers, nil
	}
	metrics.ReviewersNotified(len(pros))

	if r.opts.DryRun {
		logger.Info("Dry run, not commenting", "pros", pros.Sorted(), "body", notify.ComposeBody(pros))
		return OutcomeDryRun, nil
	}

	action, err := notify.NewReconciler(r.provider, logger).Reconcile(ctx, evt.PullRequest, pros)
	if err != nil {
		return "", err
	}
	if action == notify.ActionUpdate {
		metrics.CommentUpdated()
		return OutcomeUpdated, nil
	}
	metrics.CommentCreated()
	return OutcomeCreated, nil
}

// changedFiles widens the shallow clone by the pull request's commit count
// and diffs base...head. A failed fetch is logged and the diff attempted
// anyway.
func (r *Runner) changedFiles(ctx context.Context, logger *slog.Logger, evt *event.PullRequestEvent) ([]string, error) {
	count, err := r.provider.CommitCount(ctx, evt.PullRequest)
	if err != nil {
		return nil, fmt.Errorf("counting commits: %w", err)
	}

	if err := r.git.Deepen(ctx, r.opts.Workspace, count); err != nil {
		logger.Warn("Could not deepen clone", "commits", count, "error", err)
	}

	files, err := r.git.ListChangedFiles(ctx, r.opts.Workspace, evt.BaseRef, evt.HeadRef)
	if err != nil {
		return nil, err
	}
	logger.Debug("Changed files", "count", len(files), "base", evt.BaseRef, "head", evt.HeadRef)
	return files, nil
}
