package vertexai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Resource methods of the generative-model API surface.
const (
	methodGenerateContent       = "generateContent"
	methodStreamGenerateContent = "streamGenerateContent"
	methodCountTokens           = "countTokens"
)

// GenerativeModel is the facade for one published model. It carries the
// model-level defaults (generation config, safety settings, tools, system
// instruction) that are merged into every request that does not set its
// own. Instances are cheap and safe for concurrent use.
type GenerativeModel struct {
	dispatcher *apiClient
	model      string
	params     ModelParams
	reqOpts    *RequestOptions
}

func newGenerativeModel(dispatcher *apiClient, params *ModelParams, opts *RequestOptions) *GenerativeModel {
	m := &GenerativeModel{
		dispatcher: dispatcher,
		reqOpts:    opts,
	}
	if params != nil {
		m.params = *params
		m.model = normalizeModelName(params.Model)
	}
	return m
}

// Name returns the normalized model name.
func (m *GenerativeModel) Name() string { return m.model }

// resourcePath is the model path under the project/location prefix.
func (m *GenerativeModel) resourcePath() string {
	return "publishers/google/models/" + m.model
}

// applyDefaults merges model-level defaults into a request in place,
// filling only fields the request left unset.
func (m *GenerativeModel) applyDefaults(req *GenerateContentRequest) {
	if req.GenerationConfig == nil {
		req.GenerationConfig = m.params.GenerationConfig
	}
	if req.SafetySettings == nil {
		req.SafetySettings = m.params.SafetySettings
	}
	if req.Tools == nil {
		req.Tools = m.params.Tools
	}
	if req.ToolConfig == nil {
		req.ToolConfig = m.params.ToolConfig
	}
	if req.SystemInstruction == nil {
		req.SystemInstruction = m.params.SystemInstruction
	}
}

// GenerateContent performs a unary generation request.
func (m *GenerativeModel) GenerateContent(ctx context.Context, req *GenerateContentRequest) (*GenerateContentResponse, error) {
	if req == nil || len(req.Contents) == 0 {
		return nil, NewClientError("contents must not be empty")
	}
	r := *req
	m.applyDefaults(&r)

	resp, err := m.dispatcher.postRequest(ctx, m.resourcePath(), methodGenerateContent, "", &r, m.reqOpts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, NewGoogleGenerativeAIError(resp.StatusCode,
			fmt.Sprintf("unable to parse generateContent response: %v", err), err)
	}
	return &out, nil
}

// GenerateContentText is a convenience wrapper that sends a single user
// text prompt and returns the first candidate's text.
func (m *GenerativeModel) GenerateContentText(ctx context.Context, prompt string) (string, error) {
	resp, err := m.GenerateContent(ctx, &GenerateContentRequest{
		Contents: []Content{{Role: RoleUser, Parts: []Part{TextPart(prompt)}}},
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GenerateContentStream performs a streaming generation request. The
// returned StreamReader must be closed by the caller.
func (m *GenerativeModel) GenerateContentStream(ctx context.Context, req *GenerateContentRequest) (*StreamReader, error) {
	if req == nil || len(req.Contents) == 0 {
		return nil, NewClientError("contents must not be empty")
	}
	r := *req
	m.applyDefaults(&r)

	resp, err := m.dispatcher.postRequest(ctx, m.resourcePath(), methodStreamGenerateContent, "alt=sse", &r, m.reqOpts)
	if err != nil {
		return nil, err
	}
	return newStreamReader(resp), nil
}

// CountTokens reports token usage for the given contents without
// generating a response.
func (m *GenerativeModel) CountTokens(ctx context.Context, req *CountTokensRequest) (*CountTokensResponse, error) {
	if req == nil || len(req.Contents) == 0 {
		return nil, NewClientError("contents must not be empty")
	}

	resp, err := m.dispatcher.postRequest(ctx, m.resourcePath(), methodCountTokens, "", req, m.reqOpts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out CountTokensResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, NewGoogleGenerativeAIError(resp.StatusCode,
			fmt.Sprintf("unable to parse countTokens response: %v", err), err)
	}
	return &out, nil
}

// Roles understood by the API.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// isSSEResponse reports whether the server answered with an event stream.
// Vertex AI returns text/event-stream when alt=sse is honored and a plain
// JSON array otherwise.
func isSSEResponse(resp *http.Response) bool {
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream")
}
