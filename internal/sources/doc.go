// Package sources implements the upstream snapshot clients.
//
// One client per upstream system (issue tracker, code review, CI, deployment
// platform) speaking JSON over HTTP, plus a local git worktree inspector.
// Each client carries its own request timeout and circuit breaker; failures
// never cascade across sources.
package sources
