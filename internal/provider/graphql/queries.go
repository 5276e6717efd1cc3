package graphql

const queryComments = `
query GetPullRequestComments($nodeId: ID!) {
  node(id: $nodeId) {
    ... on PullRequest {
      comments(first: 100) {
        nodes {
          id
          author {
            login
          }
          body
        }
      }
    }
  }
}`

const queryCommitCount = `
query CommitCount($nodeId: ID!) {
  node(id: $nodeId) {
    ... on PullRequest {
      commits {
        totalCount
      }
    }
  }
}`

const mutationAddComment = `
mutation AddComment($subjectId: ID!, $body: String!) {
  addComment(input: {subjectId: $subjectId, body: $body}) {
    clientMutationId
  }
}`

const mutationUpdateComment = `
mutation UpdateComment($id: ID!, $body: String!) {
  updateIssueComment(input: {id: $id, body: $body}) {
    clientMutationId
  }
}`

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type queryError struct {
	Message string `json:"message"`
}

type errorsOnly struct {
	Errors []queryError `json:"errors"`
}

type commentsResponse struct {
	Data struct {
		Node *struct {
			Comments struct {
				Nodes []struct {
					ID     string `json:"id"`
					Author *struct {
						Login string `json:"login"`
					} `json:"author"`
					Body string `json:"body"`
				} `json:"nodes"`
			} `json:"comments"`
		} `json:"node"`
	} `json:"data"`
}

type commitCountResponse struct {
	Data struct {
		Node *struct {
			Commits struct {
				TotalCount int `json:"totalCount"`
			} `json:"commits"`
		} `json:"node"`
	} `json:"data"`
}
