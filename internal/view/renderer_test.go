package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/devboard/internal/domain"
)

func TestRenderer_RendersAllSections(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	set := &domain.StatusSet{
		Issues:       []domain.Issue{{Number: 42, Title: "fix the hub", Status: "open", Priority: 1, Blocked: true}},
		PullRequests: []domain.PullRequest{{Number: 7, Title: "refactor poller", State: "open", Draft: true, Checks: "passing"}},
		Worktrees:    []domain.Worktree{{Branch: "feature/hub", Path: "/repo-hub", Dirty: true, Ahead: 3, Behind: 1}},
		Pipelines:    []domain.PipelineRun{{ID: 9, Workflow: "ci", Branch: "main", Status: "completed", Conclusion: "success"}},
		Deployments:  []domain.Deployment{{Environment: "production", Status: "active", Ref: "v2.0.0"}},
	}

	markup, err := renderer.Render(set)
	require.NoError(t, err)

	assert.Contains(t, markup, "#42")
	assert.Contains(t, markup, "fix the hub")
	assert.Contains(t, markup, "blocked")
	assert.Contains(t, markup, "(draft)")
	assert.Contains(t, markup, "feature/hub")
	assert.Contains(t, markup, "+3/-1")
	assert.Contains(t, markup, "success")
	assert.Contains(t, markup, "production")
}

func TestRenderer_Deterministic(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	set := &domain.StatusSet{Issues: []domain.Issue{{Number: 1, Title: "a", Status: "open"}}}

	first, err := renderer.Render(set)
	require.NoError(t, err)
	second, err := renderer.Render(set)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderer_EscapesUpstreamContent(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	set := &domain.StatusSet{Issues: []domain.Issue{{Number: 1, Title: "<script>alert(1)</script>", Status: "open"}}}

	markup, err := renderer.Render(set)
	require.NoError(t, err)
	assert.NotContains(t, markup, "<script>alert(1)</script>")
}
