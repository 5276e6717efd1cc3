// Package event reads the pull request a notification run is about from the
// CI environment that triggered it.
package event

import "github.com/drewdunne/codepros/internal/provider"

// PullRequestEvent describes the pull request a run was triggered for.
type PullRequestEvent struct {
	// Provider is the platform the event came from (github, gitlab).
	Provider string

	PullRequest provider.PullRequest

	// BaseRef and HeadRef are the commits the change is diffed between.
	BaseRef string
	HeadRef string

	// Author is the reviewer handle of the PR author, e.g. "@octocat".
	Author string

	Title string
	Draft bool
}
