package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/api"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/cache"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/chain"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/config"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/forecast"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/monitor"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/observability"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/pipeline"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/provider"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/session"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/storage"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the skynetra server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running skynetra server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show skynetra system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "skynetra.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "skynetra version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(os.Getenv("SKYNETRA_LOG_LEVEL"), "debug") {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Refuse to double-start. Health probe first, PID file second.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("skynetra is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("skynetra is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	// Build the advisory pipeline.
	fetcher := forecast.NewClient()
	providers := buildProviders(cfg.Providers, logger)
	respCache := cache.New(cfg.Cache.TTL)
	ch := chain.New(providers, respCache, logger)
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	sessions := session.NewManager(store)
	advisor := pipeline.NewAdvisor(fetcher, ch, sessions, metrics, logger)

	// Background risk sweep over the watched cities.
	var mon *monitor.Monitor
	if cfg.Monitor.Enabled {
		mon = monitor.New(fetcher, nil, cfg.Monitor.Interval, logger)
		go mon.Run(ctx)
		slog.Info("risk monitor started", "interval", cfg.Monitor.Interval)
	}

	handler := api.NewAppHandler(api.AppDeps{
		Advisor:  advisor,
		Sessions: sessions,
		Monitor:  mon,
		Registry: registry,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// MCP server over stdio.
	mcpSrv := api.NewMCPServer(api.MCPDeps{Advisor: advisor})
	stdioSrv := server.NewStdioServer(mcpSrv)
	go func() {
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
	}()
	slog.Info("MCP server started (stdio transport)")

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "skynetra listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildProviders assembles the ranked chain. Providers without keys stay in
// the chain; they fail fast and the next one answers.
func buildProviders(cfg config.ProvidersConfig, logger *slog.Logger) []provider.Provider {
	providers := []provider.Provider{
		provider.NewOpenRouter(cfg.OpenRouterAPIKey),
		provider.NewGroq(cfg.GroqAPIKey),
		provider.NewCohere(cfg.CohereAPIKey),
	}

	configured := 0
	for _, key := range []string{cfg.OpenRouterAPIKey, cfg.GroqAPIKey, cfg.CohereAPIKey} {
		if key != "" {
			configured++
		}
	}
	if configured == 0 {
		logger.Warn("no provider API keys configured, every answer will use the offline responder")
	}
	return providers
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("skynetra is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop skynetra (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to skynetra (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	printStatus("OpenRouter", "%s", keyLabel(cfg.Providers.OpenRouterAPIKey))
	printStatus("Groq", "%s", keyLabel(cfg.Providers.GroqAPIKey))
	printStatus("Cohere", "%s", keyLabel(cfg.Providers.CohereAPIKey))
	printStatus("Cache TTL", "%s", cfg.Cache.TTL)
	if cfg.Monitor.Enabled {
		printStatus("Monitor", "every %s", cfg.Monitor.Interval)
	} else {
		printStatus("Monitor", "disabled")
	}
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}

func keyLabel(key string) string {
	if key == "" {
		return "no key (offline fallback only)"
	}
	return "configured"
}
