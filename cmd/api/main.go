// @title           CSV Agent API
// @version         1.0
// @description     Upload a zip of CSV files, pick one and ask questions about it in natural language.
// @description     Every answered question is logged to the interaction store.

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/CSVAgent/internal/analysis"
	"github.com/akolanti/CSVAgent/internal/analysis/sandbox/duckSandbox"
	"github.com/akolanti/CSVAgent/internal/bootstrap"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/handlers"
	"github.com/akolanti/CSVAgent/internal/middleware"
	"github.com/akolanti/CSVAgent/internal/server"
	"github.com/akolanti/CSVAgent/internal/web"
	"github.com/akolanti/CSVAgent/internal/worker"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
)

var listenAddr string

func main() {
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address (overrides LISTEN_ADDR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger_i.Init(cfg.IsProd())
	var logger = logger_i.NewLogger("main")

	if listenAddr == "" {
		listenAddr = cfg.ListenAddr
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	recorder, err := bootstrap.OpenRecorder(serviceContext, cfg)
	if err != nil {
		logger.Error("Could not connect to the interaction log, check the store credentials", "store", cfg.LogStore, "error", err)
		closeExternalServices()
		os.Exit(1)
	}
	sessions := bootstrap.OpenSessionStore(serviceContext, cfg)

	executor := duckSandbox.New()
	reasoningAgent, err := bootstrap.NewAgent(serviceContext, cfg, executor)
	if err != nil {
		logger.Error("Could not create the reasoning agent", "provider", cfg.AgentProvider, "error", err)
		closeExternalServices()
		os.Exit(1)
	}

	pool := worker.NewPool(worker.DefaultOptions())

	service := analysis.NewService(analysis.Deps{
		Agent:      reasoningAgent,
		Recorder:   recorder,
		Sessions:   sessions,
		Executor:   executor,
		Dispatcher: pool,
		ScratchDir: cfg.ScratchDir,
	})

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Error("Could not load page templates", "error", err)
		os.Exit(1)
	}
	handler := handlers.NewHandler(service, renderer)

	mwOptions := middleware.DefaultOptions(cfg.AuthToken)
	mwOptions.SecureCookie = cfg.IsProd()
	chain := middleware.New(mwOptions, service)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	srv := server.CreateServer(listenAddr, server.Routes(handler, chain))
	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		StopWorkers:      pool.Stop,
		CloseServices:    closeExternalServices,
	}
	go srv.ShutDownHandler(shutdownParams)
	go srv.ListenAndServe()

	logger.Info("Started", "agent", reasoningAgent.Name(), "logStore", cfg.LogStore, "sessionStore", cfg.SessionStore)
	<-stopExecution
	logger.Info("Server stopped")
}
