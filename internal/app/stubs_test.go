package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/pscheid92/devboard/internal/domain"
)

// stubSources implements all five source interfaces with controllable data,
// errors, and blocking.
type stubSources struct {
	mu     sync.Mutex
	issues []domain.Issue
	errs   map[string]error
	calls  int

	// blockIssues, when non-nil, makes FetchIssues wait until the channel is
	// closed. Used to orchestrate overlapping cycles.
	blockIssues chan struct{}
}

func (s *stubSources) sourceErr(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errs == nil {
		return nil
	}
	return s.errs[name]
}

func (s *stubSources) setIssues(issues []domain.Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues = issues
}

func (s *stubSources) setErr(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errs == nil {
		s.errs = make(map[string]error)
	}
	s.errs[name] = err
}

func (s *stubSources) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubSources) FetchIssues(ctx context.Context) ([]domain.Issue, error) {
	s.mu.Lock()
	s.calls++
	block := s.blockIssues
	issues := append([]domain.Issue(nil), s.issues...)
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		// Re-read: the blocked cycle should observe the data present at
		// release time.
		s.mu.Lock()
		issues = append([]domain.Issue(nil), s.issues...)
		s.mu.Unlock()
	}

	if err := s.sourceErr("issues"); err != nil {
		return nil, err
	}
	return issues, nil
}

func (s *stubSources) FetchPullRequests(context.Context) ([]domain.PullRequest, error) {
	return nil, s.sourceErr("pulls")
}

func (s *stubSources) FetchWorktrees(context.Context) ([]domain.Worktree, error) {
	return nil, s.sourceErr("worktrees")
}

func (s *stubSources) FetchPipelineRuns(context.Context) ([]domain.PipelineRun, error) {
	return nil, s.sourceErr("pipeline")
}

func (s *stubSources) FetchDeployments(context.Context) ([]domain.Deployment, error) {
	return nil, s.sourceErr("deploy")
}

func (s *stubSources) asSources() domain.Sources {
	return domain.Sources{
		Issues:       s,
		PullRequests: s,
		Worktrees:    s,
		Pipelines:    s,
		Deployments:  s,
	}
}

// stubRenderer renders a minimal deterministic summary of the set.
type stubRenderer struct{}

func (stubRenderer) Render(set *domain.StatusSet) (string, error) {
	out := fmt.Sprintf("%d issues", len(set.Issues))
	for _, issue := range set.Issues {
		out += fmt.Sprintf(" [#%d %s]", issue.Number, issue.Status)
	}
	return out, nil
}

type failingRenderer struct{}

func (failingRenderer) Render(*domain.StatusSet) (string, error) {
	return "", fmt.Errorf("template exploded")
}

// recordingHub captures broadcast events.
type recordingHub struct {
	mu     sync.Mutex
	events []domain.Event
}

func (h *recordingHub) Broadcast(event domain.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHub) broadcasts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}
