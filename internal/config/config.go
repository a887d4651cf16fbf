package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort              = "3333"
	defaultPollSeconds       = 60
	defaultHeartbeatSeconds  = 30
	defaultSourceTimeoutSecs = 10
	defaultPIDFile           = "devboard.pid"
	defaultSourcesFile       = "sources.yaml"
)

type Config struct {
	AppEnv            string
	Port              string
	PollInterval      time.Duration
	HeartbeatInterval time.Duration
	PIDFile           string
	LogLevel          string
	LogFormat         string
	Sources           SourcesConfig
}

// SourcesConfig describes the upstream systems, loaded from a YAML file.
type SourcesConfig struct {
	Issues   Endpoint  `yaml:"issues"`
	Pulls    Endpoint  `yaml:"pulls"`
	Pipeline Endpoint  `yaml:"pipeline"`
	Deploy   Endpoint  `yaml:"deploy"`
	Git      GitConfig `yaml:"git"`
}

// Endpoint is one HTTP upstream. Every endpoint carries its own timeout; the
// aggregator never imposes a cross-cutting one.
type Endpoint struct {
	URL            string `yaml:"url"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the endpoint's request timeout, falling back to the default.
func (e Endpoint) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return defaultSourceTimeoutSecs * time.Second
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// GitConfig locates the repository whose worktrees are inventoried.
type GitConfig struct {
	RepoRoot       string `yaml:"repo_root"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (g GitConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return defaultSourceTimeoutSecs * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

func Load() (*Config, error) {
	pollSeconds, err := getEnvInt("POLL_INTERVAL_SECONDS", defaultPollSeconds)
	if err != nil {
		return nil, err
	}
	if pollSeconds <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_SECONDS must be positive, got %d", pollSeconds)
	}

	heartbeatSeconds, err := getEnvInt("HEARTBEAT_INTERVAL_SECONDS", defaultHeartbeatSeconds)
	if err != nil {
		return nil, err
	}
	if heartbeatSeconds <= 0 {
		return nil, fmt.Errorf("HEARTBEAT_INTERVAL_SECONDS must be positive, got %d", heartbeatSeconds)
	}

	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", defaultPort),
		PollInterval:      time.Duration(pollSeconds) * time.Second,
		HeartbeatInterval: time.Duration(heartbeatSeconds) * time.Second,
		PIDFile:           getEnv("PID_FILE", defaultPIDFile),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
	}

	sourcesFile := getEnv("SOURCES_FILE", defaultSourcesFile)
	sources, err := loadSources(sourcesFile)
	if err != nil {
		return nil, err
	}
	cfg.Sources = *sources

	return cfg, nil
}

func loadSources(path string) (*SourcesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file %s: %w", path, err)
	}

	var sources SourcesConfig
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parsing sources file %s: %w", path, err)
	}

	if sources.Issues.URL == "" {
		return nil, fmt.Errorf("sources file %s: issues.url is required", path)
	}
	if sources.Pulls.URL == "" {
		return nil, fmt.Errorf("sources file %s: pulls.url is required", path)
	}
	if sources.Pipeline.URL == "" {
		return nil, fmt.Errorf("sources file %s: pipeline.url is required", path)
	}
	if sources.Deploy.URL == "" {
		return nil, fmt.Errorf("sources file %s: deploy.url is required", path)
	}
	if sources.Git.RepoRoot == "" {
		return nil, fmt.Errorf("sources file %s: git.repo_root is required", path)
	}

	return &sources, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
