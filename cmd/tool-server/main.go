// Command tool-server serves calculate_bmi, fetch_json and generate_chart
// over HTTP or stdio.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FreePeak/golang-mcp-session-client/internal/builder"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/config"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
	"github.com/FreePeak/golang-mcp-session-client/internal/interfaces/rest"
)

const shutdownTimeout = 10 * time.Second

func main() {
	mode := flag.String("mode", "http", "Server mode: http or stdio")
	addr := flag.String("addr", "", "HTTP server address (overrides config)")
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	cfg := config.Default()
	if path, err := config.FindConfig(*configPath); err == nil {
		loaded, err := config.Load(path)
		if err != nil {
			logging.Default().Fatalf("Failed to load config %s: %v", path, err)
		}
		cfg = loaded
	} else if *configPath != "" {
		logging.Default().Fatalf("%v", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       logging.ParseLevel(cfg.Logging.Level),
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		logging.Default().Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	serverBuilder := builder.ServerFromConfig(cfg).WithLogger(logger)
	if *addr != "" {
		serverBuilder.WithAddress(*addr)
	}

	logger.Info("starting tool server", logging.Fields{"mode": *mode, "name": cfg.Server.Name, "version": cfg.Server.Version})

	switch *mode {
	case "http":
		startHTTPServer(serverBuilder.BuildMCPServer(), logger)
	case "stdio":
		if err := serverBuilder.ServeStdio(); err != nil {
			logger.Fatalf("Error serving stdio: %v", err)
		}
	default:
		logger.Fatalf("Unknown mode: %s. Valid modes are http or stdio", *mode)
	}
}

// startHTTPServer runs the HTTP server until SIGINT or SIGTERM.
func startHTTPServer(mcpServer *rest.MCPServer, logger *logging.Logger) {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- mcpServer.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
		return
	case <-shutdown:
	}

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := mcpServer.Stop(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}
	logger.Info("server exited gracefully")
}
