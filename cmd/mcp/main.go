// Command mcp exposes the CSV agent as MCP tools over stdio.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/CSVAgent/internal/analysis"
	"github.com/akolanti/CSVAgent/internal/analysis/sandbox/duckSandbox"
	"github.com/akolanti/CSVAgent/internal/bootstrap"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/data/store"
	"github.com/akolanti/CSVAgent/internal/worker"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverVersion = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	// stdout carries the protocol
	logger_i.InitTo(os.Stderr, cfg.IsProd())
	logger := logger_i.NewLogger("mcp")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder, err := bootstrap.OpenRecorder(ctx, cfg)
	if err != nil {
		logger.Error("Could not connect to the interaction log", "store", cfg.LogStore, "error", err)
		os.Exit(1)
	}
	executor := duckSandbox.New()
	reasoningAgent, err := bootstrap.NewAgent(ctx, cfg, executor)
	if err != nil {
		logger.Error("Could not create the reasoning agent", "provider", cfg.AgentProvider, "error", err)
		os.Exit(1)
	}

	pool := worker.NewPool(worker.DefaultOptions())
	defer pool.Stop()

	service := analysis.NewService(analysis.Deps{
		Agent:      reasoningAgent,
		Recorder:   recorder,
		Sessions:   store.InitInMemorySessionStore(),
		Executor:   executor,
		Dispatcher: pool,
		ScratchDir: cfg.ScratchDir,
	})

	server := mcp.NewServer(&mcp.Implementation{Name: "csv-agent", Version: serverVersion}, nil)
	newCSVTools(service).register(server)

	logger.Info("MCP server ready", "agent", reasoningAgent.Name(), "logStore", cfg.LogStore)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
