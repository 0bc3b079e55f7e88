package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/agui"
	"github.com/troupe-dev/troupe/log"
	"github.com/troupe-dev/troupe/pool"
)

// PoolHandler handles AG-UI run requests over SSE. Every request gets its own
// pool seeded from the request transcript, so requests stay independent and
// the handler is safe for concurrent use.
type PoolHandler struct {
	router troupe.Router
	agents []troupe.Agent
	config *Config
}

// NewPoolHandler creates a handler running the given agents under the given
// router.
func NewPoolHandler(rt troupe.Router, agents []troupe.Agent, cfg *Config) *PoolHandler {
	return &PoolHandler{router: rt, agents: agents, config: cfg}
}

// ServeHTTP handles POST requests to run the pool and stream events via SSE.
func (h *PoolHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		log.Warnf("agui: method not allowed: %s %s", r.Method, r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input agui.RunAgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Warnf("agui: invalid request body: %v", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	prepared, err := input.Prepare()
	if err != nil {
		log.Warnf("agui: invalid input for thread %s: %v", input.ThreadID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if prepared.Input() == "" {
		log.Warnf("agui: thread %s has no trailing user message", prepared.ThreadID)
		http.Error(w, "conversation must end with a user message", http.StatusBadRequest)
		return
	}

	// Frontend-declared tools have no server-side handler to execute them.
	if len(prepared.ToolNames) > 0 {
		log.Warnf("agui: ignoring %d frontend tools (no server-side execution): %v",
			len(prepared.ToolNames), prepared.ToolNames)
	}

	log.Infof("agui: run %s started (thread %s, %d messages)",
		prepared.RunID, prepared.ThreadID, len(prepared.Messages))

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("agui: streaming not supported by response writer")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	p := pool.New(
		pool.WithAgents(h.agents...),
		pool.WithRouter(h.router),
		pool.WithState(prepared.NewState()),
		pool.WithMaxIter(h.config.MaxIter),
	)

	var mapperOpts []agui.MapperOption
	if prepared.State != nil {
		mapperOpts = append(mapperOpts, agui.WithInitialState(prepared.State))
	}
	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID, mapperOpts...)

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	var eventCount int
	for ev := range mapper.MapStream(p.RunStream(ctx, prepared.Input())) {
		eventCount++
		if err := writeSSE(w, flusher, ev); err != nil {
			log.Errorf("agui: run %s: write failed for %s: %v", prepared.RunID, ev.Type(), err)
			return
		}
	}

	log.Infof("agui: run %s completed in %s (%d events sent)",
		prepared.RunID, time.Since(start).Round(time.Millisecond), eventCount)
}

// writeSSE frames one event for the SSE stream and flushes immediately so
// the frontend renders deltas as they happen.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}

	flusher.Flush()
	return nil
}

// corsMiddleware lets any origin post runs and answers OPTIONS preflights
// itself.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthHandler reports liveness for probes.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
