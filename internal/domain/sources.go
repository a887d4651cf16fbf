package domain

import "context"

// --- Source interfaces ---
//
// Each upstream system exposes a single "fetch current snapshot" operation.
// Every implementation carries its own bounded timeout; callers do not impose
// a cross-cutting one.

type IssueSource interface {
	FetchIssues(ctx context.Context) ([]Issue, error)
}

type PullRequestSource interface {
	FetchPullRequests(ctx context.Context) ([]PullRequest, error)
}

type WorktreeSource interface {
	FetchWorktrees(ctx context.Context) ([]Worktree, error)
}

type PipelineSource interface {
	FetchPipelineRuns(ctx context.Context) ([]PipelineRun, error)
}

type DeploymentSource interface {
	FetchDeployments(ctx context.Context) ([]Deployment, error)
}

// Sources bundles one client per upstream system for the aggregator's fan-out.
type Sources struct {
	Issues       IssueSource
	PullRequests PullRequestSource
	Worktrees    WorktreeSource
	Pipelines    PipelineSource
	Deployments  DeploymentSource
}

// Renderer turns a joined snapshot set into the dashboard markup.
// Implementations must be pure: equal sets produce equal markup.
type Renderer interface {
	Render(set *StatusSet) (string, error)
}

// IssueUpdate is a mutation request against the issue tracker.
type IssueUpdate struct {
	Number   int    `json:"number"`
	Status   string `json:"status,omitempty"`
	Priority *int   `json:"priority,omitempty"`
}

// IssueMutator applies mutations to the system of record. The caller is
// expected to schedule a refresh cycle afterwards regardless of the outcome.
type IssueMutator interface {
	UpdateIssue(ctx context.Context, update IssueUpdate) (*Issue, error)
}
