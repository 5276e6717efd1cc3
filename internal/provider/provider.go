package provider

import "context"

// Provider defines the code-hosting API operations a notification run needs.
type Provider interface {
	// Name returns the provider name (github, graphql, gitlab).
	Name() string

	// CommitCount returns the number of commits on the pull request.
	CommitCount(ctx context.Context, pr PullRequest) (int, error)

	// GetComments fetches comments on a pull request in API order.
	GetComments(ctx context.Context, pr PullRequest) ([]Comment, error)

	// PostComment posts a new comment on a pull request.
	PostComment(ctx context.Context, pr PullRequest, body string) error

	// UpdateComment replaces the body of an existing comment.
	UpdateComment(ctx context.Context, pr PullRequest, commentID string, body string) error
}
