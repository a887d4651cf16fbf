// Package fingerprint reduces a joined snapshot set to a small, stable,
// order-insensitive summary value.
//
// Only fields that affect the rendered view are hashed. Collections are sorted
// by stable identity before hashing, so an upstream returning the same items
// in a different order never produces a different fingerprint.
package fingerprint

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/pscheid92/devboard/internal/domain"
)

// Compute returns the fingerprint of a joined snapshot set as a fixed-width
// hex string. Equal sets (by observable fields) always produce equal values.
func Compute(set *domain.StatusSet) string {
	h := xxhash.New()

	issues := make([]domain.Issue, len(set.Issues))
	copy(issues, set.Issues)
	sort.Slice(issues, func(i, j int) bool { return issues[i].Number < issues[j].Number })
	writeSection(h, "issues", len(issues))
	for _, is := range issues {
		writeField(h, strconv.Itoa(is.Number))
		writeField(h, is.Status)
		writeField(h, is.Size)
		writeField(h, strconv.Itoa(is.Priority))
		writeField(h, strconv.FormatBool(is.Blocked))
		writeField(h, strconv.Itoa(is.Children))
	}

	pulls := make([]domain.PullRequest, len(set.PullRequests))
	copy(pulls, set.PullRequests)
	sort.Slice(pulls, func(i, j int) bool { return pulls[i].Number < pulls[j].Number })
	writeSection(h, "pulls", len(pulls))
	for _, pr := range pulls {
		writeField(h, strconv.Itoa(pr.Number))
		writeField(h, pr.State)
		writeField(h, strconv.FormatBool(pr.Draft))
		writeField(h, pr.Checks)
		writeField(h, strconv.Itoa(pr.Approvals))
	}

	trees := make([]domain.Worktree, len(set.Worktrees))
	copy(trees, set.Worktrees)
	sort.Slice(trees, func(i, j int) bool { return trees[i].Branch < trees[j].Branch })
	writeSection(h, "worktrees", len(trees))
	for _, wt := range trees {
		writeField(h, wt.Branch)
		writeField(h, strconv.FormatBool(wt.Dirty))
		writeField(h, strconv.Itoa(wt.Ahead))
		writeField(h, strconv.Itoa(wt.Behind))
	}

	runs := make([]domain.PipelineRun, len(set.Pipelines))
	copy(runs, set.Pipelines)
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID < runs[j].ID })
	writeSection(h, "pipelines", len(runs))
	for _, run := range runs {
		writeField(h, strconv.FormatInt(run.ID, 10))
		writeField(h, run.Workflow)
		writeField(h, run.Status)
		writeField(h, run.Conclusion)
	}

	deploys := make([]domain.Deployment, len(set.Deployments))
	copy(deploys, set.Deployments)
	sort.Slice(deploys, func(i, j int) bool { return deploys[i].Environment < deploys[j].Environment })
	writeSection(h, "deployments", len(deploys))
	for _, d := range deploys {
		writeField(h, d.Environment)
		writeField(h, d.Status)
		writeField(h, d.Ref)
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

func writeSection(h *xxhash.Digest, name string, count int) {
	_, _ = h.WriteString(name)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(strconv.Itoa(count))
	_, _ = h.Write([]byte{0})
}

func writeField(h *xxhash.Digest, value string) {
	_, _ = h.WriteString(value)
	_, _ = h.Write([]byte{0})
}
