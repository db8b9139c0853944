// Package server exposes the aggregation pipeline over HTTP for the
// "What's happening" widget.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/headlandsdaily/coast-events/internal/aggregate"
	"github.com/headlandsdaily/coast-events/internal/config"
	"github.com/headlandsdaily/coast-events/internal/event"
	"github.com/headlandsdaily/coast-events/internal/format"
	"github.com/headlandsdaily/coast-events/internal/logger"
	"github.com/headlandsdaily/coast-events/internal/metrics"
)

// Server serves the widget API.
type Server struct {
	cfg *config.Config
	agg *aggregate.Aggregator
}

// New wires the aggregator behind the HTTP surface.
func New(cfg *config.Config, agg *aggregate.Aggregator) *Server {
	return &Server{cfg: cfg, agg: agg}
}

// envelope is the fixed response shape for /api/v1/events. Failures reuse
// it with ok=false and empty collections so the widget never needs a second
// error schema.
type envelope struct {
	OK           bool              `json:"ok"`
	Timeout      bool              `json:"timeout"`
	Supplemented bool              `json:"supplemented"`
	Count        int               `json:"count"`
	Results      []format.Card     `json:"results"`
	Map          []format.MapPoint `json:"map"`
	Error        string            `json:"error,omitempty"`
}

// Start runs the HTTP server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.cfg.Server.HandlerTimeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", logger.Fields{"addr": srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Routes builds the router. Exposed for tests.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(s.recoverer)
	mux.Use(s.cors)

	mux.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/events", s.handleEvents)
	})
	mux.Handle("/metrics", metrics.Handler())

	return mux
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Server.HandlerTimeout)
	defer cancel()

	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	done := make(chan aggregate.Result, 1)
	go func() { done <- s.agg.Run(ctx, q) }()

	select {
	case result := <-done:
		writeJSON(w, http.StatusOK, envelope{
			OK:           true,
			Timeout:      result.TimedOut,
			Supplemented: result.Supplemented,
			Count:        len(result.Cards),
			Results:      result.Cards,
			Map:          result.Points,
		})
	case <-ctx.Done():
		// The aggregator has its own shorter deadline, so reaching the
		// handler deadline means something below it wedged.
		writeError(w, http.StatusGatewayTimeout, "request timed out")
	}
}

// parseQuery maps the HTTP query string onto the pipeline's filter.
func parseQuery(r *http.Request) (event.Query, error) {
	q := event.NewQuery()
	params := r.URL.Query()

	if town := params.Get("town"); town != "" {
		q.Town = town
	}
	if category := params.Get("type"); category != "" {
		q.Category = category
	}
	if raw := params.Get("start"); raw != "" {
		d, err := event.ParseQueryDate(raw)
		if err != nil {
			return q, fmt.Errorf("bad start date %q", raw)
		}
		q.From = &d
	}
	if raw := params.Get("end"); raw != "" {
		d, err := event.ParseQueryDate(raw)
		if err != nil {
			return q, fmt.Errorf("bad end date %q", raw)
		}
		q.To = &d
	}
	if raw := params.Get("limit"); raw != "" {
		var n int
		if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
			return q, fmt.Errorf("bad limit %q", raw)
		}
		q.Limit = n
	}

	if err := q.Validate(); err != nil {
		return q, err
	}
	return q, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response", nil, err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{
		OK:      false,
		Results: []format.Card{},
		Map:     []format.MapPoint{},
		Error:   msg,
	})
}
