package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/devboard/internal/app"
	"github.com/pscheid92/devboard/internal/broadcast"
	"github.com/pscheid92/devboard/internal/config"
	"github.com/pscheid92/devboard/internal/domain"
	"github.com/pscheid92/devboard/internal/lifecycle"
	"github.com/pscheid92/devboard/internal/logging"
	"github.com/pscheid92/devboard/internal/server"
	"github.com/pscheid92/devboard/internal/sources"
	"github.com/pscheid92/devboard/internal/view"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupSources(cfg *config.Config) (domain.Sources, *sources.IssueClient) {
	issueClient := sources.NewIssueClient(cfg.Sources.Issues)
	return domain.Sources{
		Issues:       issueClient,
		PullRequests: sources.NewPullClient(cfg.Sources.Pulls),
		Worktrees:    sources.NewWorktreeInspector(cfg.Sources.Git),
		Pipelines:    sources.NewPipelineClient(cfg.Sources.Pipeline),
		Deployments:  sources.NewDeployClient(cfg.Sources.Deploy),
	}, issueClient
}

func runGracefulShutdown(srv *server.Server, hub *broadcast.Hub, cancelPoller context.CancelFunc, pidFile string) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		lifecycle.RemovePIDFile(pidFile)
		cancelPoller()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		hub.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "poll_interval", cfg.PollInterval)

	renderer, err := view.NewRenderer()
	if err != nil {
		slog.Error("Failed to create renderer", "error", err)
		os.Exit(1)
	}

	srcs, issueClient := setupSources(cfg)
	aggregator := app.NewAggregator(srcs)
	hub := broadcast.NewHub(clock, cfg.HeartbeatInterval)
	appSvc := app.NewService(aggregator, renderer, hub, clock, cfg.PollInterval)

	if err := lifecycle.WritePIDFile(cfg.PIDFile); err != nil {
		slog.Error("Failed to write PID file", "error", err)
		os.Exit(1)
	}
	slog.Info("PID file written", "path", cfg.PIDFile, "pid", os.Getpid())

	pollerCtx, cancelPoller := context.WithCancel(context.Background())
	go appSvc.Run(pollerCtx)

	srv := server.NewServer(cfg, appSvc, hub, issueClient)

	done := runGracefulShutdown(srv, hub, cancelPoller, cfg.PIDFile)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lifecycle.RemovePIDFile(cfg.PIDFile)
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
