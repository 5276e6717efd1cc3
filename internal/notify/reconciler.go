// Package notify keeps a single marker-tagged comment on a pull request in
// sync with the set of code pros that should look at it.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/drewdunne/codepros/internal/ownership"
	"github.com/drewdunne/codepros/internal/provider"
)

// Action is what Reconcile did to the pull request.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// CommentStore is the subset of provider.Provider the reconciler needs.
type CommentStore interface {
	GetComments(ctx context.Context, pr provider.PullRequest) ([]provider.Comment, error)
	PostComment(ctx context.Context, pr provider.PullRequest, body string) error
	UpdateComment(ctx context.Context, pr provider.PullRequest, commentID string, body string) error
}

// Reconciler creates or updates the tracked comment.
type Reconciler struct {
	store  CommentStore
	logger *slog.Logger
}

// NewReconciler creates a reconciler writing through store.
func NewReconciler(store CommentStore, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: store, logger: logger}
}

// FindTracked returns the first comment whose body starts with Marker.
func FindTracked(comments []provider.Comment) (provider.Comment, bool) {
	for _, c := range comments {
		if IsTracked(c.Body) {
			return c, true
		}
	}
	return provider.Comment{}, false
}

// Reconcile replaces the body of the tracked comment with one mentioning
// reviewers, or posts a new comment when none exists yet.
func (r *Reconciler) Reconcile(ctx context.Context, pr provider.PullRequest, reviewers ownership.ReviewerSet) (Action, error) {
	comments, err := r.store.GetComments(ctx, pr)
	if err != nil {
		return "", fmt.Errorf("fetching comments: %w", err)
	}

	body := ComposeBody(reviewers)
	pros := reviewers.Sorted()

	existing, ok := FindTracked(comments)
	if !ok {
		r.logger.Info("Adding new comment", "pros", pros)
		if err := r.store.PostComment(ctx, pr, body); err != nil {
			return "", fmt.Errorf("creating comment: %w", err)
		}
		return ActionCreate, nil
	}

	r.logger.Info("Updating comment", "comment_id", existing.ID, "pros", pros)
	r.logDiff(existing.Body, body)
	if err := r.store.UpdateComment(ctx, pr, existing.ID, body); err != nil {
		return "", fmt.Errorf("updating comment %s: %w", existing.ID, err)
	}
	return ActionUpdate, nil
}

func (r *Reconciler) logDiff(previous, current string) {
	if !r.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	if previous == current {
		r.logger.Debug("Comment body unchanged")
		return
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(previous),
		B:        difflib.SplitLines(current),
		FromFile: "previous",
		ToFile:   "current",
		Context:  1,
	})
	if err != nil {
		r.logger.Debug("Could not diff comment body", "error", err)
		return
	}
	r.logger.Debug("Comment body changed", "diff", diff)
}
