package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/pscheid92/devboard/internal/config"
	"github.com/pscheid92/devboard/internal/domain"
)

// IssueClient talks to the issue tracker. It is both a snapshot source and
// the mutation collaborator behind the update endpoint.
type IssueClient struct {
	httpSource
}

func NewIssueClient(endpoint config.Endpoint) *IssueClient {
	return &IssueClient{httpSource: newHTTPSource("issues", endpoint)}
}

// FetchIssues returns the current issue list.
func (c *IssueClient) FetchIssues(ctx context.Context) ([]domain.Issue, error) {
	var issues []domain.Issue
	if err := c.getJSON(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// UpdateIssue applies a mutation against the tracker and returns the updated
// issue as the tracker reports it.
func (c *IssueClient) UpdateIssue(ctx context.Context, update domain.IssueUpdate) (*domain.Issue, error) {
	if update.Number <= 0 {
		return nil, fmt.Errorf("issues: update requires a positive issue number")
	}

	body, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("issues: encoding update: %w", err)
	}

	var issue domain.Issue
	if err := c.postJSON(ctx, bytes.NewReader(body), &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}
