// File: internal/server/server.go

// Package server exposes investigations over HTTP. A POST to
// /api/investigations runs one investigation and streams its typed events as
// Server-Sent Events; the connection closes after the terminal event.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/config"
	"github.com/xkilldash9x/trackscope-cli/internal/investigator"
	"github.com/xkilldash9x/trackscope-cli/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// InvestigationRunner runs one investigation and streams events to the sink.
type InvestigationRunner interface {
	Run(ctx context.Context, req investigator.Request, sink schemas.EventSink)
}

// HistoryReader serves the persisted investigation history. Nil disables the
// history endpoint.
type HistoryReader interface {
	RecentInvestigations(ctx context.Context, limit int) ([]store.InvestigationRecord, error)
}

// Server is the HTTP front end.
type Server struct {
	cfg        *config.Config
	runner     InvestigationRunner
	history    HistoryReader
	logger     *zap.Logger
	httpServer *http.Server
}

// New builds a server; history may be nil.
func New(cfg *config.Config, runner InvestigationRunner, history HistoryReader, logger *zap.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		runner:  runner,
		history: history,
		logger:  logger.Named("server"),
	}
	s.httpServer = &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: s.Routes(),
		// No WriteTimeout: investigation streams stay open for minutes.
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes builds the router. Exposed so tests can drive it with httptest.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/investigations", s.handleInvestigate).Methods(http.MethodPost)
	api.HandleFunc("/investigations/recent", s.handleRecent).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening.", zap.String("addr", s.cfg.Server.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight streams and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down.")
	return s.httpServer.Shutdown(ctx)
}

type investigateRequest struct {
	URL           string `json:"url"`
	DeviceProfile string `json:"deviceProfile,omitempty"`
}

func (s *Server) handleInvestigate(w http.ResponseWriter, r *http.Request) {
	var req investigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validateTargetURL(req.URL); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported by this connection")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s.logger.Info("Investigation stream opened.",
		zap.String("url", req.URL),
		zap.String("profile", req.DeviceProfile),
		zap.String("remote", r.RemoteAddr))

	sink := newSSESink(w, flusher, s.logger)
	s.runner.Run(r.Context(), investigator.Request{
		URL:           req.URL,
		DeviceProfile: req.DeviceProfile,
	}, sink)

	s.logger.Info("Investigation stream closed.", zap.String("url", req.URL))
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "investigation history is not configured")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.history.RecentInvestigations(r.Context(), limit)
	if err != nil {
		s.logger.Error("History query failed.", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load investigation history")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"investigations": records}); err != nil {
		s.logger.Debug("Failed to write history response.", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		s.logger.Debug("Failed to write error response.", zap.Error(err))
	}
}

func validateTargetURL(raw string) error {
	if raw == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url has no host")
	}
	return nil
}
