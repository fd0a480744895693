package vertexai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// apiClient is the request dispatcher. It builds the target URL, attaches
// the composed headers and body, performs exactly one network call and
// normalizes failure into typed errors. Retry policy is deliberately the
// caller's responsibility.
type apiClient struct {
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
	project     string
	location    string
	apiEndpoint string
	apiVersion  string
}

// url assembles the full request URL for a resource path and method, e.g.
// publishers/google/models/gemini-1.5-pro + generateContent. A bare host
// endpoint gets the https scheme; an endpoint with an explicit scheme is
// used as-is.
func (c *apiClient) url(resourcePath, resourceMethod, query string) string {
	base := c.apiEndpoint
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	u := fmt.Sprintf("%s/%s/projects/%s/locations/%s/%s:%s",
		base, c.apiVersion, c.project, c.location, resourcePath, resourceMethod)
	if query != "" {
		u += "?" + query
	}
	return u
}

// postRequest issues a single POST against the API. On success the raw
// response is returned for the facade layer to parse or stream; the caller
// owns closing the body.
func (c *apiClient) postRequest(ctx context.Context, resourcePath, resourceMethod, query string, body any, opts *RequestOptions) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, NewClientError(fmt.Sprintf("unable to marshal request body: %v", err))
	}
	return c.dispatch(ctx, http.MethodPost, resourcePath, resourceMethod, query, bytes.NewReader(payload), opts)
}

// getRequest issues a single GET against the API.
func (c *apiClient) getRequest(ctx context.Context, resourcePath, resourceMethod, query string, opts *RequestOptions) (*http.Response, error) {
	return c.dispatch(ctx, http.MethodGet, resourcePath, resourceMethod, query, nil, opts)
}

func (c *apiClient) dispatch(ctx context.Context, method, resourcePath, resourceMethod, query string, body io.Reader, opts *RequestOptions) (*http.Response, error) {
	token, err := bearerToken(c.tokenSource)
	if err != nil {
		return nil, err
	}

	headers, err := composeHeaders(token, c.apiEndpoint, opts)
	if err != nil {
		return nil, err
	}

	cancel := context.CancelFunc(nil)
	if opts != nil && opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(resourcePath, resourceMethod, query), body)
	if err != nil {
		if cancel != nil {
			cancel()
		}
		return nil, NewClientError(fmt.Sprintf("unable to build HTTP request: %v", err))
	}
	req.Header = headers

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Read the context state before cancel() below flips it, so a
		// plain transport failure is not mistaken for an aborted call.
		ctxErr := ctx.Err()
		if cancel != nil {
			cancel()
		}
		if ctxErr != nil {
			return nil, NewGoogleGenerativeAIError(0, fmt.Sprintf("request aborted: %v", ctxErr), err)
		}
		return nil, NewGoogleGenerativeAIError(0, fmt.Sprintf("exception sending request: %v", err), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		if cancel != nil {
			defer cancel()
		}
		return nil, classifyResponseError(resp)
	}

	if cancel != nil {
		// Streaming callers read the body after dispatch returns, so the
		// timeout context must stay alive until the body is closed.
		resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	}
	return resp, nil
}

// classifyResponseError turns a non-2xx response into a typed error.
// 4xx statuses carry the parsed API error payload for caller inspection.
func classifyResponseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var payload struct {
			Error *APIError `json:"error"`
		}
		message := fmt.Sprintf("got status: %s", resp.Status)
		if err := json.Unmarshal(body, &payload); err == nil && payload.Error != nil {
			message = fmt.Sprintf("got status: %s. %s", resp.Status, payload.Error.Message)
			return NewClientErrorAPI(resp.StatusCode, message, payload.Error)
		}
		return NewClientErrorAPI(resp.StatusCode, message, nil)
	}

	return NewGoogleGenerativeAIError(resp.StatusCode,
		fmt.Sprintf("got status: %s. %s", resp.Status, bytes.TrimSpace(body)), nil)
}

// cancelOnClose ties a per-call timeout context to the response body
// lifetime so streamed reads are not cut off at dispatch return.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
