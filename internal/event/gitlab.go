package event

import (
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/drewdunne/codepros/internal/errs"
	"github.com/drewdunne/codepros/internal/ownership"
	"github.com/drewdunne/codepros/internal/provider"
)

// gitLabCI holds the predefined variables of a merge request pipeline.
type gitLabCI struct {
	IID       int    `env:"CI_MERGE_REQUEST_IID"`
	MRProject string `env:"CI_MERGE_REQUEST_PROJECT_PATH"`
	Project   string `env:"CI_PROJECT_PATH"`
	BaseSHA   string `env:"CI_MERGE_REQUEST_DIFF_BASE_SHA"`
	HeadSHA   string `env:"CI_COMMIT_SHA"`
	UserLogin string `env:"GITLAB_USER_LOGIN"`
	Title     string `env:"CI_MERGE_REQUEST_TITLE"`
	Draft     bool   `env:"CI_MERGE_REQUEST_DRAFT"`
}

var draftPrefixes = []string{"Draft:", "[Draft]", "(Draft)", "WIP:", "[WIP]"}

// FromGitLabEnv builds the event from GitLab CI variables in environ.
func FromGitLabEnv(environ map[string]string) (*PullRequestEvent, error) {
	var ci gitLabCI
	if err := env.ParseWithOptions(&ci, env.Options{Environment: environ}); err != nil {
		return nil, &errs.EventDataError{Reason: "cannot be parsed", Path: "environment", Err: err}
	}
	if ci.IID == 0 {
		return nil, &errs.EventDataError{Reason: "missing merge request data", Path: "CI_MERGE_REQUEST_IID"}
	}

	project := ci.MRProject
	if project == "" {
		project = ci.Project
	}
	owner, repo, ok := splitProjectPath(project)
	if !ok {
		return nil, &errs.EventDataError{Reason: "missing merge request project", Path: "CI_MERGE_REQUEST_PROJECT_PATH"}
	}

	return &PullRequestEvent{
		Provider: "gitlab",
		PullRequest: provider.PullRequest{
			Owner:  owner,
			Repo:   repo,
			Number: ci.IID,
		},
		BaseRef: ci.BaseSHA,
		HeadRef: ci.HeadSHA,
		Author:  string(ownership.HandleMarker) + ci.UserLogin,
		Title:   ci.Title,
		Draft:   ci.Draft || isDraftTitle(ci.Title),
	}, nil
}

// splitProjectPath splits group/subgroup/project into namespace and name.
func splitProjectPath(path string) (string, string, bool) {
	i := strings.LastIndex(path, "/")
	if i <= 0 || i == len(path)-1 {
		return "", "", false
	}
	return path[:i], path[i+1:], true
}

func isDraftTitle(title string) bool {
	for _, p := range draftPrefixes {
		if strings.HasPrefix(title, p) {
			return true
		}
	}
	return false
}
