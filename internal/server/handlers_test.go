package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/devboard/internal/app"
	"github.com/pscheid92/devboard/internal/broadcast"
	"github.com/pscheid92/devboard/internal/config"
	"github.com/pscheid92/devboard/internal/domain"
)

// fakeSources serves a controllable issue list and empty everything else.
type fakeSources struct {
	mu     sync.Mutex
	issues []domain.Issue
	err    error
	calls  int
}

func (f *fakeSources) FetchIssues(context.Context) ([]domain.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Issue(nil), f.issues...), nil
}

func (f *fakeSources) FetchPullRequests(context.Context) ([]domain.PullRequest, error) {
	return nil, nil
}
func (f *fakeSources) FetchWorktrees(context.Context) ([]domain.Worktree, error) { return nil, nil }
func (f *fakeSources) FetchPipelineRuns(context.Context) ([]domain.PipelineRun, error) {
	return nil, nil
}
func (f *fakeSources) FetchDeployments(context.Context) ([]domain.Deployment, error) {
	return nil, nil
}

func (f *fakeSources) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRenderer struct{}

func (fakeRenderer) Render(set *domain.StatusSet) (string, error) {
	out := "<html>"
	for _, issue := range set.Issues {
		out += fmt.Sprintf("<li>#%d %s: %s</li>", issue.Number, issue.Title, issue.Status)
	}
	return out + "</html>", nil
}

type fakeMutator struct {
	mu      sync.Mutex
	err     error
	updates []domain.IssueUpdate
}

func (f *fakeMutator) UpdateIssue(_ context.Context, update domain.IssueUpdate) (*domain.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Issue{Number: update.Number, Status: update.Status}, nil
}

type testEnv struct {
	sources *fakeSources
	mutator *fakeMutator
	appSvc  *app.Service
	hub     *broadcast.Hub
	url     string
	client  *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sources := &fakeSources{issues: []domain.Issue{{Number: 1, Title: "ship it", Status: "open"}}}
	mutator := &fakeMutator{}
	clock := clockwork.NewRealClock()

	aggregator := app.NewAggregator(domain.Sources{
		Issues:       sources,
		PullRequests: sources,
		Worktrees:    sources,
		Pipelines:    sources,
		Deployments:  sources,
	})
	hub := broadcast.NewHub(clock, time.Hour)
	t.Cleanup(hub.Stop)

	appSvc := app.NewService(aggregator, fakeRenderer{}, hub, clock, time.Hour)

	cfg := &config.Config{Port: "0"}
	srv := NewServer(cfg, appSvc, hub, mutator)

	ts := httptest.NewServer(srv.echo)
	t.Cleanup(ts.Close)

	return &testEnv{
		sources: sources,
		mutator: mutator,
		appSvc:  appSvc,
		hub:     hub,
		url:     ts.URL,
		client:  ts.Client(),
	}
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestHandleIndex_ColdStartFillsOnce(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.client.Get(env.url + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "#1 ship it: open")
	assert.Equal(t, 1, env.sources.callCount())

	// A warm cache serves without another fetch.
	resp2, err := env.client.Get(env.url + "/")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, 1, env.sources.callCount())
}

func TestHandleIndex_ColdStartFailure(t *testing.T) {
	env := newTestEnv(t)
	env.sources.err = fmt.Errorf("tracker unreachable")

	resp, err := env.client.Get(env.url + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "dashboard unavailable")
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
}

func TestHandleEvents_StreamLifecycle(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, env.url+"/api/events", nil)
	require.NoError(t, err)
	resp, err := env.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))

	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, "event: connected", readSSELine(t, reader))

	env.hub.Broadcast(domain.Event{Type: domain.EventRefresh})
	assert.Equal(t, "event: refresh", readSSELine(t, reader))

	// Dropping the connection unregisters the client.
	waitUntil(t, func() bool { return env.hub.ClientCount() == 1 })
	cancel()
	waitUntil(t, func() bool { return env.hub.ClientCount() == 0 })
}

// readSSELine returns the next non-empty, non-data line of the stream.
func readSSELine(t *testing.T, reader *bufio.Reader) string {
	t.Helper()
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" || strings.HasPrefix(line, "data:") {
			continue
		}
		return line
	}
}

func TestHandleUpdate_SuccessTriggersRefresh(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancelPoller := context.WithCancel(context.Background())
	defer cancelPoller()
	go env.appSvc.Run(ctx)

	resp, err := env.client.Post(env.url+"/api/update", "application/json",
		strings.NewReader(`{"number": 1, "status": "closed"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"closed"`)

	require.Len(t, env.mutator.updates, 1)
	assert.Equal(t, 1, env.mutator.updates[0].Number)

	// The refresh cycle runs in the background without the response waiting.
	waitUntil(t, env.appSvc.HasEntry)
}

func TestHandleUpdate_MutationFailureStillSchedulesRefresh(t *testing.T) {
	env := newTestEnv(t)
	env.mutator.err = fmt.Errorf("tracker rejected the change")

	ctx, cancelPoller := context.WithCancel(context.Background())
	defer cancelPoller()
	go env.appSvc.Run(ctx)

	resp, err := env.client.Post(env.url+"/api/update", "application/json",
		strings.NewReader(`{"number": 1, "status": "closed"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	// The failed mutation must not prevent the refresh.
	waitUntil(t, env.appSvc.HasEntry)
}

func TestHandleUpdate_RejectsInvalidPayload(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.client.Post(env.url+"/api/update", "application/json",
		strings.NewReader(`{"status": "closed"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.mutator.updates)
}

func TestHandleReadiness(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.client.Get(env.url + "/health/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// Fill the cache, then readiness flips.
	warm, err := env.client.Get(env.url + "/")
	require.NoError(t, err)
	warm.Body.Close()

	resp, err = env.client.Get(env.url + "/health/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
