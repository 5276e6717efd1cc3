// Package graphql implements provider.Provider over the GitHub GraphQL API,
// addressing pull requests and comments by their node IDs.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/drewdunne/codepros/internal/errs"
	"github.com/drewdunne/codepros/internal/provider"
)

// Provider talks to a GitHub GraphQL endpoint.
type Provider struct {
	url    string
	token  string
	client *http.Client
}

// New creates a GraphQL provider. url is the full endpoint, e.g.
// https://api.github.com/graphql.
func New(url, token string, timeout time.Duration) (*Provider, error) {
	if err := validateURL(url); err != nil {
		return nil, err
	}
	return &Provider{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "graphql"
}

// CommitCount returns the number of commits on the pull request.
func (p *Provider) CommitCount(ctx context.Context, pr provider.PullRequest) (int, error) {
	var resp commitCountResponse
	if err := p.do(ctx, "CommitCount", queryCommitCount, map[string]any{"nodeId": pr.ID}, &resp); err != nil {
		return 0, err
	}
	if resp.Data.Node == nil {
		return 0, missingNode("CommitCount", pr.ID)
	}
	return resp.Data.Node.Commits.TotalCount, nil
}

// GetComments returns the first 100 comments on the pull request.
func (p *Provider) GetComments(ctx context.Context, pr provider.PullRequest) ([]provider.Comment, error) {
	var resp commentsResponse
	if err := p.do(ctx, "GetPullRequestComments", queryComments, map[string]any{"nodeId": pr.ID}, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Node == nil {
		return nil, missingNode("GetPullRequestComments", pr.ID)
	}

	nodes := resp.Data.Node.Comments.Nodes
	result := make([]provider.Comment, len(nodes))
	for i, n := range nodes {
		result[i] = provider.Comment{ID: n.ID, Body: n.Body}
		// Author is null for deleted accounts.
		if n.Author != nil {
			result[i].Author = n.Author.Login
		}
	}
	return result, nil
}

// PostComment adds a comment to the pull request.
func (p *Provider) PostComment(ctx context.Context, pr provider.PullRequest, body string) error {
	return p.do(ctx, "AddComment", mutationAddComment, map[string]any{"subjectId": pr.ID, "body": body}, nil)
}

// UpdateComment replaces the body of the comment with the given node ID.
func (p *Provider) UpdateComment(ctx context.Context, pr provider.PullRequest, commentID string, body string) error {
	return p.do(ctx, "UpdateComment", mutationUpdateComment, map[string]any{"id": commentID, "body": body}, nil)
}

// do posts one GraphQL operation and decodes the response into out when
// out is non-nil. Non-200 responses and GraphQL errors become TransportErrors.
func (p *Provider) do(ctx context.Context, op, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(request{Query: consolidateWhitespace(query), Variables: variables})
	if err != nil {
		return &errs.TransportError{Op: op, Err: fmt.Errorf("encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return &errs.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "bearer "+p.token)

	slog.Debug("Sending GraphQL request", "operation", op)
	res, err := p.client.Do(req)
	if err != nil {
		return &errs.TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return &errs.TransportError{Op: op, StatusCode: res.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}
	if res.StatusCode != http.StatusOK {
		return &errs.TransportError{Op: op, StatusCode: res.StatusCode, Body: string(body)}
	}

	if err := graphQLErrors(body); err != nil {
		return &errs.TransportError{Op: op, StatusCode: res.StatusCode, Body: string(body), Err: err}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return &errs.TransportError{Op: op, StatusCode: res.StatusCode, Body: string(body), Err: fmt.Errorf("decoding response: %w", err)}
		}
	}
	return nil
}

// graphQLErrors returns the errors array of a 200 response joined into one
// error, or nil when the response has none.
func graphQLErrors(body []byte) error {
	var resp errorsOnly
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if len(resp.Errors) == 0 {
		return nil
	}

	joined := make([]error, len(resp.Errors))
	for i, e := range resp.Errors {
		joined[i] = errors.New(e.Message)
	}
	return errors.Join(joined...)
}

func missingNode(op, id string) error {
	return &errs.TransportError{Op: op, Err: fmt.Errorf("response has no node for id %q", id)}
}

func validateURL(url string) error {
	u, err := neturl.Parse(url)
	if err != nil {
		return fmt.Errorf("cannot parse GraphQL URL %q: %w", url, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid GraphQL URL %q", url)
	}
	return nil
}

func consolidateWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
