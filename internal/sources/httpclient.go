package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/pscheid92/devboard/internal/config"
	"github.com/pscheid92/devboard/internal/metrics"
)

const (
	breakerFailureThreshold = 5
	breakerOpenDuration     = 30 * time.Second
)

// httpSource is the shared transport for all JSON-over-HTTP upstreams.
type httpSource struct {
	name    string
	url     string
	token   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func newHTTPSource(name string, endpoint config.Endpoint) httpSource {
	return httpSource{
		name:    name,
		url:     endpoint.URL,
		token:   endpoint.Token,
		client:  &http.Client{Timeout: endpoint.Timeout()},
		breaker: newBreaker(name),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     breakerOpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, _, to gobreaker.State) {
			metrics.SourceBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
}

// getJSON performs a GET against the source endpoint and decodes the body
// into out, routing the call through the circuit breaker and recording
// fetch metrics.
func (s *httpSource) getJSON(ctx context.Context, out any) error {
	return s.observe(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return fmt.Errorf("%s: building request: %w", s.name, err)
		}
		return s.do(req, out)
	})
}

// postJSON performs a POST with a JSON body and decodes the response into out.
func (s *httpSource) postJSON(ctx context.Context, body io.Reader, out any) error {
	return s.observe(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, body)
		if err != nil {
			return fmt.Errorf("%s: building request: %w", s.name, err)
		}
		req.Header.Set("Content-Type", "application/json")
		return s.do(req, out)
	})
}

func (s *httpSource) observe(call func() error) error {
	start := time.Now()
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, call()
	})
	metrics.SourceFetchDuration.WithLabelValues(s.name).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SourceFetchesTotal.WithLabelValues(s.name, status).Inc()
	return err
}

func (s *httpSource) do(req *http.Request, out any) error {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: unexpected status %d", s.name, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", s.name, err)
	}
	return nil
}
