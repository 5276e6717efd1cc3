package provider

// PullRequest identifies a pull request (GitHub) or merge request (GitLab)
// on the code-hosting API.
type PullRequest struct {
	ID     string // GraphQL node ID (GitHub); empty for REST-only providers
	Owner  string // Owner or namespace path
	Repo   string
	Number int // PR number (GitHub) or MR IID (GitLab)
}

// FullName returns owner/repo.
func (pr PullRequest) FullName() string {
	return pr.Owner + "/" + pr.Repo
}

// Comment represents a comment on a pull request.
type Comment struct {
	ID     string // Opaque, provider-specific identifier
	Author string
	Body   string
}
