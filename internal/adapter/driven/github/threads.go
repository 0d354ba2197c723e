package github

import (
	"context"
	"fmt"

	"github.com/prpilot/prpilot/internal/domain/model"
)

const threadsPageQuery = `query($owner: String!, $repo: String!, $pr: Int!, $cursor: String) {
	repository(owner: $owner, name: $repo) {
		pullRequest(number: $pr) {
			reviewThreads(first: 100, after: $cursor) {
				pageInfo { hasNextPage endCursor }
				nodes {
					id
					isResolved
					path
					line
					comments(first: 100) {
						pageInfo { hasNextPage endCursor }
						nodes { id author { login } body }
					}
				}
			}
		}
	}
}`

const remainingCommentsQuery = `query($id: ID!, $cursor: String) {
	node(id: $id) {
		... on PullRequestReviewThread {
			comments(first: 100, after: $cursor) {
				pageInfo { hasNextPage endCursor }
				nodes { id author { login } body }
			}
		}
	}
}`

const commentPRInfoQuery = `query($id: ID!) {
	node(id: $id) {
		... on PullRequestReviewComment {
			pullRequest {
				number
				repository { name owner { login } }
			}
		}
	}
}`

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type commentNode struct {
	ID     string `json:"id"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
	Body string `json:"body"`
}

type commentsConnection struct {
	PageInfo pageInfo      `json:"pageInfo"`
	Nodes    []commentNode `json:"nodes"`
}

type threadNode struct {
	ID         string             `json:"id"`
	IsResolved bool               `json:"isResolved"`
	Path       string             `json:"path"`
	Line       int                `json:"line"`
	Comments   commentsConnection `json:"comments"`
}

// FetchThreads retrieves all review threads for a pull request via GraphQL,
// following pagination on both the thread list and each thread's comments.
// The REST API has no review thread resource, so GraphQL is the only route.
func (c *Client) FetchThreads(ctx context.Context, owner, repo string, prNumber int) ([]model.ReviewThread, error) {
	var allThreads []model.ReviewThread
	cursor := ""

	for {
		variables := map[string]any{
			"owner": owner,
			"repo":  repo,
			"pr":    prNumber,
		}
		if cursor != "" {
			variables["cursor"] = cursor
		}

		var data struct {
			Repository struct {
				PullRequest struct {
					ReviewThreads struct {
						PageInfo pageInfo     `json:"pageInfo"`
						Nodes    []threadNode `json:"nodes"`
					} `json:"reviewThreads"`
				} `json:"pullRequest"`
			} `json:"repository"`
		}
		if err := c.doGraphQL(ctx, threadsPageQuery, variables, &data); err != nil {
			return nil, fmt.Errorf("fetching review threads for %s/%s#%d: %w", owner, repo, prNumber, err)
		}

		threads := data.Repository.PullRequest.ReviewThreads
		for _, node := range threads.Nodes {
			thread, err := c.mapThread(ctx, node)
			if err != nil {
				return nil, err
			}
			allThreads = append(allThreads, thread)
		}

		if !threads.PageInfo.HasNextPage {
			break
		}
		cursor = threads.PageInfo.EndCursor
	}

	return allThreads, nil
}

// mapThread converts a GraphQL thread node to the domain type, fetching any
// comment pages beyond the first.
func (c *Client) mapThread(ctx context.Context, node threadNode) (model.ReviewThread, error) {
	comments := mapComments(node.Comments.Nodes)

	page := node.Comments.PageInfo
	for page.HasNextPage {
		var data struct {
			Node struct {
				Comments commentsConnection `json:"comments"`
			} `json:"node"`
		}
		variables := map[string]any{"id": node.ID, "cursor": page.EndCursor}
		if err := c.doGraphQL(ctx, remainingCommentsQuery, variables, &data); err != nil {
			return model.ReviewThread{}, fmt.Errorf("fetching comments for thread %s: %w", node.ID, err)
		}
		comments = append(comments, mapComments(data.Node.Comments.Nodes)...)
		page = data.Node.Comments.PageInfo
	}

	return model.ReviewThread{
		ID:         node.ID,
		IsResolved: node.IsResolved,
		Path:       node.Path,
		Line:       node.Line,
		Comments:   comments,
	}, nil
}

func mapComments(nodes []commentNode) []model.ThreadComment {
	comments := make([]model.ThreadComment, 0, len(nodes))
	for _, n := range nodes {
		// Deleted accounts come back with a null author.
		author := "ghost"
		if n.Author != nil {
			author = n.Author.Login
		}
		comments = append(comments, model.ThreadComment{
			ID:     n.ID,
			Author: author,
			Body:   n.Body,
		})
	}
	return comments
}

// FetchThreadByCommentID locates the review thread containing the given
// comment. GraphQL does not expose a comment-to-thread edge, so this first
// resolves the comment to its PR, then scans that PR's threads.
func (c *Client) FetchThreadByCommentID(ctx context.Context, commentID string) (model.ReviewThread, error) {
	var data struct {
		Node struct {
			PullRequest *struct {
				Number     int `json:"number"`
				Repository struct {
					Name  string `json:"name"`
					Owner struct {
						Login string `json:"login"`
					} `json:"owner"`
				} `json:"repository"`
			} `json:"pullRequest"`
		} `json:"node"`
	}
	if err := c.doGraphQL(ctx, commentPRInfoQuery, map[string]any{"id": commentID}, &data); err != nil {
		return model.ReviewThread{}, fmt.Errorf("resolving comment %s: %w", commentID, err)
	}

	pr := data.Node.PullRequest
	if pr == nil {
		return model.ReviewThread{}, fmt.Errorf("comment not found or not a PR review comment: %s", commentID)
	}

	threads, err := c.FetchThreads(ctx, pr.Repository.Owner.Login, pr.Repository.Name, pr.Number)
	if err != nil {
		return model.ReviewThread{}, err
	}

	for _, t := range threads {
		for _, comment := range t.Comments {
			if comment.ID == commentID {
				return t, nil
			}
		}
	}
	return model.ReviewThread{}, fmt.Errorf("comment %s not found in any thread", commentID)
}
