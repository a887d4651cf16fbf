package sources

import (
	"context"

	"github.com/pscheid92/devboard/internal/config"
	"github.com/pscheid92/devboard/internal/domain"
)

// PullClient talks to the code-review system.
type PullClient struct {
	httpSource
}

func NewPullClient(endpoint config.Endpoint) *PullClient {
	return &PullClient{httpSource: newHTTPSource("pulls", endpoint)}
}

func (c *PullClient) FetchPullRequests(ctx context.Context) ([]domain.PullRequest, error) {
	var pulls []domain.PullRequest
	if err := c.getJSON(ctx, &pulls); err != nil {
		return nil, err
	}
	return pulls, nil
}
