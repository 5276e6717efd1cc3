package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v60/github"

	"github.com/drewdunne/codepros/internal/errs"
	"github.com/drewdunne/codepros/internal/provider"
)

const commentsPerPage = 100

// GitHubProvider implements provider.Provider over the GitHub REST API.
type GitHubProvider struct {
	client *github.Client
}

type options struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
}

// Option configures the GitHub provider.
type Option func(*options)

// WithBaseURL sets a custom API base URL (GitHub Enterprise, tests).
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithTimeout bounds every API call.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// withTransport replaces the authenticating transport.
func withTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// New creates a GitHub provider authenticating with a token.
func New(token string, opts ...Option) (*GitHubProvider, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.transport == nil {
		o.transport = &tokenTransport{token: token, base: http.DefaultTransport}
	}

	client := github.NewClient(&http.Client{Transport: o.transport, Timeout: o.timeout})
	if o.baseURL != "" {
		u, err := client.BaseURL.Parse(strings.TrimSuffix(o.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing GitHub API URL: %w", err)
		}
		client.BaseURL = u
	}

	return &GitHubProvider{client: client}, nil
}

// NewApp creates a GitHub provider authenticating as a GitHub App
// installation.
func NewApp(appID, installationID int64, privateKeyPath string, opts ...Option) (*GitHubProvider, error) {
	itr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("loading GitHub App key: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.baseURL != "" {
		itr.BaseURL = strings.TrimSuffix(o.baseURL, "/")
	}

	return New("", append(opts, withTransport(itr))...)
}

// tokenTransport adds authorization header to requests.
type tokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(req)
}

// Name returns the provider name.
func (p *GitHubProvider) Name() string {
	return "github"
}

// CommitCount returns the number of commits on the pull request.
func (p *GitHubProvider) CommitCount(ctx context.Context, pr provider.PullRequest) (int, error) {
	got, resp, err := p.client.PullRequests.Get(ctx, pr.Owner, pr.Repo, pr.Number)
	if err != nil {
		return 0, transportError("fetching pull request", resp, err)
	}
	return got.GetCommits(), nil
}

// GetComments fetches every comment on the pull request, following pagination.
func (p *GitHubProvider) GetComments(ctx context.Context, pr provider.PullRequest) ([]provider.Comment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: commentsPerPage},
	}

	var result []provider.Comment
	for {
		comments, resp, err := p.client.Issues.ListComments(ctx, pr.Owner, pr.Repo, pr.Number, opts)
		if err != nil {
			return nil, transportError("listing comments", resp, err)
		}
		for _, c := range comments {
			result = append(result, provider.Comment{
				ID:     strconv.FormatInt(c.GetID(), 10),
				Author: c.GetUser().GetLogin(),
				Body:   c.GetBody(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return result, nil
}

// PostComment posts a comment on a pull request.
func (p *GitHubProvider) PostComment(ctx context.Context, pr provider.PullRequest, body string) error {
	_, resp, err := p.client.Issues.CreateComment(ctx, pr.Owner, pr.Repo, pr.Number, &github.IssueComment{
		Body: &body,
	})
	if err != nil {
		return transportError("posting comment", resp, err)
	}
	return nil
}

// UpdateComment replaces the body of an existing comment.
func (p *GitHubProvider) UpdateComment(ctx context.Context, pr provider.PullRequest, commentID string, body string) error {
	id, err := strconv.ParseInt(commentID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid GitHub comment id %q: %w", commentID, err)
	}

	_, resp, err := p.client.Issues.EditComment(ctx, pr.Owner, pr.Repo, id, &github.IssueComment{
		Body: &body,
	})
	if err != nil {
		return transportError("updating comment", resp, err)
	}
	return nil
}

func transportError(op string, resp *github.Response, err error) error {
	te := &errs.TransportError{Op: op, Err: err}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		te.Body = ghErr.Message
	}
	if resp != nil && resp.Response != nil {
		te.StatusCode = resp.StatusCode
	}
	return te
}
