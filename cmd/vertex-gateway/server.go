package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/liuzl/vertexai"
	"zliu.org/goutil/rest"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	ListenAddr string
	Verbose    bool
}

// GatewayServer proxies Vertex AI model calls for the configured models.
type GatewayServer struct {
	config     *GatewayConfig
	serverCfg  *ServerConfig
	client     *vertexai.Client
	metrics    *MetricsCollector
	httpServer *http.Server
}

// NewGatewayServer creates a new GatewayServer and its backend client.
func NewGatewayServer(ctx context.Context, cfg *GatewayConfig, serverCfg *ServerConfig) (*GatewayServer, error) {
	opts := []vertexai.Option{
		vertexai.WithProject(cfg.Project),
	}
	if cfg.Location != "" {
		opts = append(opts, vertexai.WithLocation(cfg.Location))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, vertexai.WithAPIEndpoint(cfg.Endpoint))
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("invalid timeout: %w", err)
	}
	if timeout > 0 {
		opts = append(opts, vertexai.WithTimeout(timeout))
	}

	client, err := vertexai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	return &GatewayServer{
		config:    cfg,
		serverCfg: serverCfg,
		client:    client,
		metrics:   NewMetricsCollector(),
	}, nil
}

// model returns a generative model facade for the given model configuration.
func (s *GatewayServer) model(cfg *ModelConfig) *vertexai.GenerativeModel {
	params := &vertexai.ModelParams{Model: cfg.Name}
	if cfg.Preview {
		return s.client.Preview.GetGenerativeModel(params, nil)
	}
	return s.client.GetGenerativeModel(params, nil)
}

// Start starts the HTTP server
func (s *GatewayServer) Start() error {
	mux := s.setupRoutes()
	handler := s.applyMiddleware(mux)

	s.httpServer = &http.Server{
		Addr:    s.serverCfg.ListenAddr,
		Handler: handler,
	}

	rest.Log().Info().Msgf("Starting gateway on %s", s.serverCfg.ListenAddr)
	rest.Log().Info().Msgf("Project %s, location %s, %d models",
		s.client.Project(), s.client.Location(), len(s.config.Models))

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *GatewayServer) Shutdown(ctx context.Context) error {
	rest.Log().Info().Msg("Shutting down server...")
	return s.httpServer.Shutdown(ctx)
}

// setupRoutes configures all HTTP routes
func (s *GatewayServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Observability endpoints
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())

	// Model endpoints
	mux.HandleFunc("/v1/models", s.handleListModels)
	mux.HandleFunc("/v1/models/", s.handleModels)

	return mux
}

// applyMiddleware applies middleware chain
func (s *GatewayServer) applyMiddleware(h http.Handler) http.Handler {
	// Apply in reverse order (last middleware wraps first)
	h = RecoveryMiddleware(h)
	h = LoggingMiddleware(h)
	h = RequestIDMiddleware(h)
	return h
}
