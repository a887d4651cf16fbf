package sources

import (
	"context"

	"github.com/pscheid92/devboard/internal/config"
	"github.com/pscheid92/devboard/internal/domain"
)

// PipelineClient talks to the CI system.
type PipelineClient struct {
	httpSource
}

func NewPipelineClient(endpoint config.Endpoint) *PipelineClient {
	return &PipelineClient{httpSource: newHTTPSource("pipeline", endpoint)}
}

func (c *PipelineClient) FetchPipelineRuns(ctx context.Context) ([]domain.PipelineRun, error) {
	var runs []domain.PipelineRun
	if err := c.getJSON(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
