package sources

import (
	"context"

	"github.com/pscheid92/devboard/internal/config"
	"github.com/pscheid92/devboard/internal/domain"
)

// DeployClient talks to the deployment platform.
type DeployClient struct {
	httpSource
}

func NewDeployClient(endpoint config.Endpoint) *DeployClient {
	return &DeployClient{httpSource: newHTTPSource("deploy", endpoint)}
}

func (c *DeployClient) FetchDeployments(ctx context.Context) ([]domain.Deployment, error) {
	var deployments []domain.Deployment
	if err := c.getJSON(ctx, &deployments); err != nil {
		return nil, err
	}
	return deployments, nil
}
