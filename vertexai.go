// Package vertexai is a client library for Google's Vertex AI
// generative-model HTTP API. It constructs requests, attaches
// authentication, sends them over HTTPS and parses streamed or unary
// responses. Token acquisition is delegated to golang.org/x/oauth2; the
// library performs no retries and keeps no state across calls beyond the
// shared token source.
package vertexai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultAPIVersion = "v1"
	previewAPIVersion = "v1beta1"
)

// config holds all construction options for a Client.
type config struct {
	project     string
	location    string
	apiEndpoint string
	authOptions *GoogleAuthOptions
	httpClient  *http.Client
	timeout     time.Duration
	envLookup   func(string) string
}

// Option is the function signature for configuration options.
type Option func(*config)

// WithProject sets the Google Cloud project ID. This is required.
func WithProject(project string) Option {
	return func(c *config) {
		c.project = project
	}
}

// WithLocation sets the region explicitly. When omitted the client falls
// back to GOOGLE_CLOUD_REGION, then CLOUD_ML_REGION, then us-central1.
func WithLocation(location string) Option {
	return func(c *config) {
		c.location = location
	}
}

// WithAPIEndpoint overrides the target API host, e.g. a custom gateway.
func WithAPIEndpoint(endpoint string) Option {
	return func(c *config) {
		c.apiEndpoint = endpoint
	}
}

// WithGoogleAuthOptions supplies auth configuration. The options are
// validated at construction time: a ProjectID must match the client
// project and Scopes must include the cloud-platform scope.
func WithGoogleAuthOptions(opts *GoogleAuthOptions) Option {
	return func(c *config) {
		c.authOptions = opts
	}
}

// WithHTTPClient sets a custom HTTP client for all outbound calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithTimeout sets a default timeout applied to the underlying HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

// withEnvLookup overrides environment access for the location resolver.
func withEnvLookup(lookup func(string) string) Option {
	return func(c *config) {
		c.envLookup = lookup
	}
}

// Client is the entry point for the Vertex AI API. A Client is safe for
// concurrent use; each call composes its own headers and URL, and the
// long-lived token source is shared read-only.
type Client struct {
	project     string
	location    string
	apiEndpoint string
	dispatcher  *apiClient

	// Preview exposes the same surface against the v1beta1 API version.
	Preview *PreviewClient
}

// NewClient constructs a Vertex AI client. No network call is made here;
// credential discovery may touch the local environment via
// golang.org/x/oauth2/google.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &config{
		envLookup: os.Getenv,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.project == "" {
		return nil, NewIllegalArgumentError("project is required, use WithProject()")
	}

	authOpts, err := validateGoogleAuthOptions(cfg.project, cfg.authOptions)
	if err != nil {
		return nil, err
	}
	ts, err := newTokenSource(ctx, authOpts)
	if err != nil {
		return nil, err
	}

	location := resolveLocation(cfg.location, cfg.envLookup)
	endpoint := cfg.apiEndpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s-%s", location, apiBasePath)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	client := &Client{
		project:     cfg.project,
		location:    location,
		apiEndpoint: endpoint,
		dispatcher: &apiClient{
			httpClient:  httpClient,
			tokenSource: ts,
			project:     cfg.project,
			location:    location,
			apiEndpoint: endpoint,
			apiVersion:  defaultAPIVersion,
		},
	}
	client.Preview = &PreviewClient{client: client}
	return client, nil
}

// Project returns the project ID the client is bound to.
func (c *Client) Project() string { return c.project }

// Location returns the resolved region.
func (c *Client) Location() string { return c.location }

// GetGenerativeModel constructs a model facade bound to this client's
// project, location, auth handle and endpoint. No network call occurs
// until one of the model's generate methods is invoked.
func (c *Client) GetGenerativeModel(params *ModelParams, opts *RequestOptions) *GenerativeModel {
	return newGenerativeModel(c.dispatcher, params, opts)
}

// normalizeModelName strips an optional "models/" prefix so both
// "gemini-1.5-pro" and "models/gemini-1.5-pro" are accepted.
func normalizeModelName(name string) string {
	return strings.TrimPrefix(name, "models/")
}
