package sources

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pscheid92/devboard/internal/config"
	"github.com/pscheid92/devboard/internal/domain"
	"github.com/pscheid92/devboard/internal/metrics"
)

// WorktreeInspector inventories the local git worktrees.
type WorktreeInspector struct {
	repoRoot string
	timeout  time.Duration
}

func NewWorktreeInspector(cfg config.GitConfig) *WorktreeInspector {
	return &WorktreeInspector{
		repoRoot: cfg.RepoRoot,
		timeout:  cfg.Timeout(),
	}
}

// FetchWorktrees lists all worktrees with their dirty state and the
// ahead/behind counts relative to their upstream branch.
func (w *WorktreeInspector) FetchWorktrees(ctx context.Context) ([]domain.Worktree, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	trees, err := w.fetch(ctx)
	metrics.SourceFetchDuration.WithLabelValues("worktrees").Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SourceFetchesTotal.WithLabelValues("worktrees", status).Inc()
	return trees, err
}

func (w *WorktreeInspector) fetch(ctx context.Context) ([]domain.Worktree, error) {
	out, err := w.git(ctx, w.repoRoot, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("worktrees: listing: %w", err)
	}

	trees := parseWorktreeList(out)
	for i := range trees {
		statusOut, err := w.git(ctx, trees[i].Path, "status", "--porcelain")
		if err != nil {
			return nil, fmt.Errorf("worktrees: status of %s: %w", trees[i].Branch, err)
		}
		trees[i].Dirty = strings.TrimSpace(statusOut) != ""

		// No upstream configured is normal for local branches; leave 0/0.
		countOut, err := w.git(ctx, trees[i].Path, "rev-list", "--left-right", "--count", "@{upstream}...HEAD")
		if err == nil {
			trees[i].Behind, trees[i].Ahead = parseAheadBehind(countOut)
		}
	}
	return trees, nil
}

func (w *WorktreeInspector) git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// parseWorktreeList parses `git worktree list --porcelain` output. Entries are
// blank-line separated blocks of "worktree <path>" / "branch refs/heads/<name>"
// lines; detached worktrees carry no branch line and are skipped.
func parseWorktreeList(out string) []domain.Worktree {
	var trees []domain.Worktree
	var current domain.Worktree

	flush := func() {
		if current.Path != "" && current.Branch != "" {
			trees = append(trees, current)
		}
		current = domain.Worktree{}
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		}
	}
	flush()
	return trees
}

// parseAheadBehind parses `git rev-list --left-right --count upstream...HEAD`
// output: "<behind>\t<ahead>".
func parseAheadBehind(out string) (behind, ahead int) {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return 0, 0
	}
	behind, _ = strconv.Atoi(fields[0])
	ahead, _ = strconv.Atoi(fields[1])
	return behind, ahead
}
