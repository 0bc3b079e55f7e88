// Package main provides a reference AG-UI HTTP server that exposes a troupe
// agent pool via the AG-UI protocol over Server-Sent Events (SSE).
//
// This server demonstrates how to integrate troupe with AG-UI compatible
// frontends like CopilotKit. It uses only the Go standard library for HTTP.
//
// Configuration is via environment variables:
//
//	AGUI_PORT         - Server port (default: 8080)
//	TROUPE_MODEL      - Model override for every agent (default: provider default)
//	TROUPE_MAX_ITER   - Max agent turns per run (default: 10)
//	TROUPE_TIMEOUT    - Per-run timeout (default: 2m)
//	TROUPE_LOG        - Log level: debug, info, warn, error (default: info)
//	ANTHROPIC_API_KEY - Anthropic API key
//	OPENAI_API_KEY    - OpenAI API key
//	GOOGLE_API_KEY    - Google API key
//
// At least one API key is required. The pool pairs a researcher agent
// carrying the builtin tools with a writer agent, dispatched by a
// model-backed router that stops the run when the answer is ready.
//
// Usage:
//
//	go run ./cmd/aguiserver
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/agent"
	"github.com/troupe-dev/troupe/client"
	"github.com/troupe-dev/troupe/log"
	"github.com/troupe-dev/troupe/router"
	"github.com/troupe-dev/troupe/tool"
)

// Config holds the server configuration read from the environment.
type Config struct {
	Port    string
	Model   string
	MaxIter int
	Timeout time.Duration
}

// LoadConfig reads configuration from the environment, applying defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:    "8080",
		Model:   os.Getenv("TROUPE_MODEL"),
		MaxIter: 10,
		Timeout: 2 * time.Minute,
	}
	if v := os.Getenv("AGUI_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("TROUPE_MAX_ITER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid TROUPE_MAX_ITER %q", v)
		}
		cfg.MaxIter = n
	}
	if v := os.Getenv("TROUPE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TROUPE_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

func main() {
	godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		log.Errorf("aguiserver: %v", err)
		os.Exit(1)
	}
	if lvl := os.Getenv("TROUPE_LOG"); lvl != "" {
		log.SetLevel(lvl)
	}

	c, err := client.FromEnv()
	if err != nil {
		log.Errorf("aguiserver: %v", err)
		os.Exit(1)
	}

	registry := tool.NewRegistry().Add(tool.Builtins()...)
	log.Infof("registered %d builtin tools", registry.Len())

	common := []agent.Option{agent.WithProvider(c)}
	if cfg.Model != "" {
		common = append(common, agent.WithModel(cfg.Model))
	}

	agents := []troupe.Agent{
		agent.New("researcher", append([]agent.Option{
			agent.WithDescription("Gathers facts with tools: web search, HTTP requests, and a calculator."),
			agent.WithPersona("You are a researcher. Use your tools to collect the facts the request needs, then report them plainly."),
			agent.WithRegistry(registry),
		}, common...)...),
		agent.New("writer", append([]agent.Option{
			agent.WithDescription("Writes the final user-facing answer from material already in the conversation."),
			agent.WithPersona("You are a writer. Turn the material in the conversation into a clear, direct answer. Do not invent facts."),
		}, common...)...),
	}

	infos := make([]troupe.AgentInfo, 0, len(agents))
	for _, a := range agents {
		infos = append(infos, troupe.AgentInfo{Name: a.Name(), Description: a.Description()})
	}
	dispatch := router.NewAgent("dispatch", c, infos)

	handler := NewPoolHandler(dispatch, agents, cfg)

	mux := http.NewServeMux()
	mux.Handle("/api/run", corsMiddleware(handler))
	mux.HandleFunc("/health", healthHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("AG-UI server starting on :%s", cfg.Port)
	log.Infof("endpoint: POST http://localhost:%s/api/run", cfg.Port)
	log.Infof("health:   GET  http://localhost:%s/health", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Errorf("server: %v", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
