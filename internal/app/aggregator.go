package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pscheid92/devboard/internal/domain"
)

// Aggregator fans out to all source clients in parallel and joins their
// results. A single failed fetch fails the whole cycle: a partial view across
// unrelated systems is worse than a slightly stale but consistent one.
type Aggregator struct {
	sources domain.Sources
}

func NewAggregator(sources domain.Sources) *Aggregator {
	return &Aggregator{sources: sources}
}

// Collect fetches one snapshot from every source concurrently and returns the
// joined set, or the first error encountered.
func (a *Aggregator) Collect(ctx context.Context) (*domain.StatusSet, error) {
	g, ctx := errgroup.WithContext(ctx)
	var set domain.StatusSet

	g.Go(func() error {
		issues, err := a.sources.Issues.FetchIssues(ctx)
		if err != nil {
			return fmt.Errorf("fetching issues: %w", err)
		}
		set.Issues = issues
		return nil
	})
	g.Go(func() error {
		pulls, err := a.sources.PullRequests.FetchPullRequests(ctx)
		if err != nil {
			return fmt.Errorf("fetching pull requests: %w", err)
		}
		set.PullRequests = pulls
		return nil
	})
	g.Go(func() error {
		trees, err := a.sources.Worktrees.FetchWorktrees(ctx)
		if err != nil {
			return fmt.Errorf("fetching worktrees: %w", err)
		}
		set.Worktrees = trees
		return nil
	})
	g.Go(func() error {
		runs, err := a.sources.Pipelines.FetchPipelineRuns(ctx)
		if err != nil {
			return fmt.Errorf("fetching pipeline runs: %w", err)
		}
		set.Pipelines = runs
		return nil
	})
	g.Go(func() error {
		deployments, err := a.sources.Deployments.FetchDeployments(ctx)
		if err != nil {
			return fmt.Errorf("fetching deployments: %w", err)
		}
		set.Deployments = deployments
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &set, nil
}
