// Package server provides the HTTP surface: the cached dashboard view, the
// event streams (SSE and WebSocket), the mutation endpoint, and the
// observability routes.
package server
