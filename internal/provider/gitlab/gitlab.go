package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xanzy/go-gitlab"

	"github.com/drewdunne/codepros/internal/errs"
	"github.com/drewdunne/codepros/internal/provider"
)

const perPage = 100

// GitLabProvider implements provider.Provider for GitLab merge requests.
type GitLabProvider struct {
	client *gitlab.Client
}

type options struct {
	baseURL string
	timeout time.Duration
}

// Option configures the GitLab provider.
type Option func(*options)

// WithBaseURL sets a custom API base URL, e.g. https://gitlab.example.com/api/v4.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithTimeout bounds every API call.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// New creates a new GitLab provider. Requests are never retried.
func New(token string, opts ...Option) (*GitLabProvider, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	clientOpts := []gitlab.ClientOptionFunc{
		gitlab.WithHTTPClient(&http.Client{Timeout: o.timeout}),
		gitlab.WithCustomRetryMax(0),
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, gitlab.WithBaseURL(o.baseURL))
	}

	client, err := gitlab.NewClient(token, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating GitLab client: %w", err)
	}
	return &GitLabProvider{client: client}, nil
}

// Name returns the provider name.
func (p *GitLabProvider) Name() string {
	return "gitlab"
}

// projectID is the namespaced project path; the client escapes it.
func projectID(pr provider.PullRequest) string {
	return pr.FullName()
}

// CommitCount returns the number of commits on the merge request.
func (p *GitLabProvider) CommitCount(ctx context.Context, pr provider.PullRequest) (int, error) {
	opts := &gitlab.GetMergeRequestCommitsOptions{PerPage: perPage, Page: 1}

	count := 0
	for {
		commits, resp, err := p.client.MergeRequests.GetMergeRequestCommits(projectID(pr), pr.Number, opts, gitlab.WithContext(ctx))
		if err != nil {
			return 0, transportError("listing merge request commits", resp, err)
		}
		count += len(commits)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return count, nil
}

// GetComments fetches every note on the merge request, oldest first.
func (p *GitLabProvider) GetComments(ctx context.Context, pr provider.PullRequest) ([]provider.Comment, error) {
	orderBy, sort := "created_at", "asc"
	opts := &gitlab.ListMergeRequestNotesOptions{
		ListOptions: gitlab.ListOptions{PerPage: perPage, Page: 1},
		OrderBy:     &orderBy,
		Sort:        &sort,
	}

	var result []provider.Comment
	for {
		notes, resp, err := p.client.Notes.ListMergeRequestNotes(projectID(pr), pr.Number, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, transportError("listing comments", resp, err)
		}
		for _, n := range notes {
			result = append(result, provider.Comment{
				ID:     strconv.Itoa(n.ID),
				Author: n.Author.Username,
				Body:   n.Body,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return result, nil
}

// PostComment posts a comment on a merge request.
func (p *GitLabProvider) PostComment(ctx context.Context, pr provider.PullRequest, body string) error {
	_, resp, err := p.client.Notes.CreateMergeRequestNote(projectID(pr), pr.Number, &gitlab.CreateMergeRequestNoteOptions{
		Body: &body,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return transportError("posting comment", resp, err)
	}
	return nil
}

// UpdateComment replaces the body of an existing note.
func (p *GitLabProvider) UpdateComment(ctx context.Context, pr provider.PullRequest, commentID string, body string) error {
	id, err := strconv.Atoi(commentID)
	if err != nil {
		return fmt.Errorf("invalid GitLab note id %q: %w", commentID, err)
	}

	_, resp, err := p.client.Notes.UpdateMergeRequestNote(projectID(pr), pr.Number, id, &gitlab.UpdateMergeRequestNoteOptions{
		Body: &body,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return transportError("updating comment", resp, err)
	}
	return nil
}

func transportError(op string, resp *gitlab.Response, err error) error {
	te := &errs.TransportError{Op: op, Err: err}

	var glErr *gitlab.ErrorResponse
	if errors.As(err, &glErr) {
		te.Body = strings.TrimSpace(string(glErr.Body))
	}
	if resp != nil && resp.Response != nil {
		te.StatusCode = resp.StatusCode
	}
	return te
}
