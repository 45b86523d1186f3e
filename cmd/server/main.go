// Command server runs the poolchat gateway.
//
// Configuration is layered: built-in defaults, then an optional YAML file
// (POOLCHAT_CONFIG, ./config.yaml, or /etc/poolchat/config.yaml), then
// environment variables. The two collaborator endpoints are required:
//
//	POOLCHAT_CHAT_ENDPOINT (or legacy AZURE_OPENAI_ENDPOINT)
//	POOLCHAT_POOL_ENDPOINT (or legacy POOL_MANAGEMENT_ENDPOINT)
//
// Run with -config to point at an explicit YAML file.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sessionlab/poolchat/pkg/config"
	"github.com/sessionlab/poolchat/pkg/credential"
	"github.com/sessionlab/poolchat/pkg/debug"
	"github.com/sessionlab/poolchat/pkg/engine"
	"github.com/sessionlab/poolchat/pkg/executor"
	"github.com/sessionlab/poolchat/pkg/provider/azopenai"
	"github.com/sessionlab/poolchat/pkg/router"
	"github.com/sessionlab/poolchat/pkg/session/memory"
	transporthttp "github.com/sessionlab/poolchat/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debug.Init("", cfg.Log.Level, cfg.Log.Format)

	tokens, err := credential.New(cfg.Credential.Mode, cfg.Credential.StaticToken)
	if err != nil {
		return fmt.Errorf("creating credential provider: %w", err)
	}

	chat, err := azopenai.New(azopenai.Config{
		Endpoint:   cfg.Chat.Endpoint,
		Deployment: cfg.Chat.Deployment,
		APIVersion: cfg.Chat.APIVersion,
		Scope:      cfg.Chat.Scope,
		Timeout:    cfg.Chat.Timeout,
	}, tokens)
	if err != nil {
		return fmt.Errorf("creating chat client: %w", err)
	}
	defer chat.Close()

	pool, err := executor.New(executor.Config{
		Endpoint:   cfg.Pool.Endpoint,
		APIVersion: cfg.Pool.APIVersion,
		Scope:      cfg.Pool.Scope,
		Timeout:    cfg.Pool.Timeout,
	}, tokens)
	if err != nil {
		return fmt.Errorf("creating pool client: %w", err)
	}

	sessions := memory.New(cfg.Sessions.MaxEntries)
	defer sessions.Close()

	eng, err := engine.New(router.NewHeuristic(), chat, pool, sessions, engine.Config{
		MaxTokens:   cfg.Chat.MaxTokens,
		Temperature: cfg.Chat.Temperature,
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	metricsPath := ""
	if cfg.Observability.Metrics.Enabled {
		metricsPath = cfg.Observability.Metrics.Path
	}

	srv := transporthttp.NewServer(eng,
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithMetricsPath(metricsPath),
		transporthttp.WithAPIKeys(cfg.Server.APIKeys),
		transporthttp.WithDebugInfo(cfg.Chat.Endpoint, cfg.Pool.Endpoint, cfg.Credential.Mode != "none"),
		transporthttp.WithLogger(slog.Default()),
	)

	slog.Info("poolchat starting",
		"port", cfg.Server.Port,
		"chat_endpoint", cfg.Chat.Endpoint,
		"deployment", cfg.Chat.Deployment,
		"pool_endpoint", cfg.Pool.Endpoint,
		"credential_mode", cfg.Credential.Mode,
	)

	return srv.ListenAndServe()
}
