package domain

import "time"

// --- Per-source snapshot types ---

// Issue is one tracked issue as reported by the issue tracker.
type Issue struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority int    `json:"priority"`
	Size     string `json:"size"`
	Blocked  bool   `json:"blocked"`
	Children int    `json:"children"`
}

// PullRequest is one open pull request from the code-review system.
type PullRequest struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	State     string `json:"state"`
	Draft     bool   `json:"draft"`
	Checks    string `json:"checks"`
	Approvals int    `json:"approvals"`
}

// Worktree is one checked-out branch from the local worktree inventory.
type Worktree struct {
	Branch string `json:"branch"`
	Path   string `json:"path"`
	Dirty  bool   `json:"dirty"`
	Ahead  int    `json:"ahead"`
	Behind int    `json:"behind"`
}

// PipelineRun is one CI workflow run.
type PipelineRun struct {
	ID         int64  `json:"id"`
	Workflow   string `json:"workflow"`
	Branch     string `json:"branch"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
}

// Deployment is the state of one deployment environment.
type Deployment struct {
	Environment string `json:"environment"`
	Status      string `json:"status"`
	Ref         string `json:"ref"`
	URL         string `json:"url"`
}

// StatusSet is the joined result of one fetch cycle across all upstream
// systems. It is owned exclusively by the cycle that produced it until handed
// to the renderer and fingerprinter.
type StatusSet struct {
	Issues       []Issue
	PullRequests []PullRequest
	Worktrees    []Worktree
	Pipelines    []PipelineRun
	Deployments  []Deployment
}

// CacheEntry is one fully rendered view. Exactly one entry is live at a time;
// replacement is atomic and ordered by Sequence, never by completion time.
type CacheEntry struct {
	Markup        string
	Fingerprint   string
	FetchDuration time.Duration
	UpdatedAt     time.Time
	Sequence      uint64
}
