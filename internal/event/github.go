package event

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/drewdunne/codepros/internal/errs"
	"github.com/drewdunne/codepros/internal/ownership"
	"github.com/drewdunne/codepros/internal/provider"
)

// gitHubPayload is the part of a GitHub pull_request event payload a run uses.
type gitHubPayload struct {
	PullRequest *struct {
		NodeID string `json:"node_id"`
		Number int    `json:"number"`
		Title  string `json:"title"`
		Draft  bool   `json:"draft"`
		Head   struct {
			SHA string `json:"sha"`
		} `json:"head"`
		Base struct {
			SHA string `json:"sha"`
		} `json:"base"`
		User struct {
			Login string `json:"login"`
		} `json:"user"`
	} `json:"pull_request"`
	Repository struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
}

// LoadPullRequestEvent reads the GitHub event payload at path.
func LoadPullRequestEvent(path string) (*PullRequestEvent, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &errs.EventDataError{Reason: "cannot be read", Path: path, Err: err}
	}
	return ParseGitHubEvent(raw, path)
}

// ParseGitHubEvent parses a GitHub event payload. path is used in errors only.
func ParseGitHubEvent(raw []byte, path string) (*PullRequestEvent, error) {
	var payload gitHubPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &errs.EventDataError{Reason: "cannot be deserialized", Path: path, Err: err}
	}

	pr := payload.PullRequest
	if pr == nil {
		return nil, &errs.EventDataError{
			Reason: "missing pull request data",
			Path:   path,
			Err:    errors.New("is the workflow triggered by pull_request events?"),
		}
	}

	return &PullRequestEvent{
		Provider: "github",
		PullRequest: provider.PullRequest{
			ID:     pr.NodeID,
			Owner:  payload.Repository.Owner.Login,
			Repo:   payload.Repository.Name,
			Number: pr.Number,
		},
		BaseRef: pr.Base.SHA,
		HeadRef: pr.Head.SHA,
		Author:  string(ownership.HandleMarker) + pr.User.Login,
		Title:   pr.Title,
		Draft:   pr.Draft,
	}, nil
}
