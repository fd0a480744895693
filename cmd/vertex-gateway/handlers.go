package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/liuzl/vertexai"
	"zliu.org/goutil/rest"
)

// handleModels handles POST /v1/models/{model}:{method}
func (s *GatewayServer) handleModels(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())
	startTime := time.Now()

	if r.Method != http.MethodPost {
		s.writeError(w, r, "", "", http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}

	modelName, method, err := parseModelPath(r.URL.Path)
	if err != nil {
		s.writeError(w, r, "", "", http.StatusBadRequest, err)
		return
	}

	modelCfg, err := s.config.GetModel(modelName)
	if err != nil {
		s.writeError(w, r, modelName, method, http.StatusNotFound, err)
		return
	}

	var req vertexai.GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, modelName, method, http.StatusBadRequest, fmt.Errorf("failed to decode request: %w", err))
		return
	}

	s.metrics.IncActiveRequests(modelName)
	defer s.metrics.DecActiveRequests(modelName)

	model := s.model(modelCfg)

	switch method {
	case "generateContent":
		resp, err := model.GenerateContent(r.Context(), &req)
		if err != nil {
			s.writeBackendError(w, r, modelName, method, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			rest.Log().Error().
				Str("request_id", requestID).
				Err(err).
				Str("model", modelName).
				Msg("failed to encode response")
			return
		}
	case "streamGenerateContent":
		stream, err := model.GenerateContentStream(r.Context(), &req)
		if err != nil {
			s.writeBackendError(w, r, modelName, method, err)
			return
		}
		defer stream.Close()
		s.relayStream(w, r, modelName, stream)
	default:
		s.writeError(w, r, modelName, method, http.StatusNotFound, fmt.Errorf("unknown method %q", method))
		return
	}

	duration := time.Since(startTime)
	s.metrics.RecordRequest(modelName, method, "success", duration)
	rest.Log().Info().
		Str("request_id", requestID).
		Dur("duration", duration).
		Str("model", modelName).
		Str("method", method).
		Msg("request completed successfully")
}

// relayStream forwards backend chunks to the client as an SSE stream.
func (s *GatewayServer) relayStream(w http.ResponseWriter, r *http.Request, modelName string, stream *vertexai.StreamReader) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			// Headers are already sent; the best we can do is log and stop.
			rest.Log().Error().
				Str("request_id", GetRequestID(r.Context())).
				Err(err).
				Str("model", modelName).
				Msg("stream relay aborted")
			return
		}
		data, err := json.Marshal(chunk)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// handleHealth handles GET /health
func (s *GatewayServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleListModels handles GET /v1/models
func (s *GatewayServer) handleListModels(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"models": s.config.Models})
}

// writeBackendError maps library error kinds to HTTP statuses.
func (s *GatewayServer) writeBackendError(w http.ResponseWriter, r *http.Request, modelName, method string, err error) {
	status := http.StatusBadGateway
	kind := "unknown"

	var vErr vertexai.VertexError
	if errors.As(err, &vErr) {
		kind = vErr.Name()
	}
	var apiErr *vertexai.ClientErrorAPI
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.StatusCode
	case kind == "ClientError", kind == "IllegalArgumentError":
		status = http.StatusBadRequest
	case kind == "GoogleAuthError":
		status = http.StatusUnauthorized
	}

	s.metrics.RecordError(modelName, method, kind)
	s.writeError(w, r, modelName, method, status, err)
}

// writeError writes a JSON error response and records it.
func (s *GatewayServer) writeError(w http.ResponseWriter, r *http.Request, modelName, method string, status int, err error) {
	requestID := GetRequestID(r.Context())

	rest.Log().Error().
		Str("request_id", requestID).
		Int("status_code", status).
		Str("model", modelName).
		Str("method", method).
		Err(err).
		Msg("request failed")

	s.metrics.RecordRequest(modelName, method, "error", 0)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message":    err.Error(),
			"request_id": requestID,
		},
	})
}

// parseModelPath extracts the model name and resource method from a path
// like /v1/models/gemini-1.5-pro:generateContent.
func parseModelPath(path string) (model, method string, err error) {
	const prefix = "/v1/models/"
	if !strings.HasPrefix(path, prefix) {
		return "", "", fmt.Errorf("unexpected path %q", path)
	}
	tail := strings.TrimPrefix(path, prefix)
	idx := strings.LastIndex(tail, ":")
	if idx <= 0 || idx == len(tail)-1 {
		return "", "", fmt.Errorf("expected /v1/models/{model}:{method}, got %q", path)
	}
	return tail[:idx], tail[idx+1:], nil
}
