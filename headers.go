package vertexai

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// apiBasePath identifies the SDK's own Google API host. Target hosts
	// containing it are classified "internal"; anything else, e.g. a
	// caller-supplied gateway, is "external".
	apiBasePath = "aiplatform.googleapis.com"

	sdkName    = "model-builder"
	sdkVersion = "0.1.0"

	apiClientHeader = "X-Goog-Api-Client"
)

// userAgent identifies this SDK on every outbound request.
var userAgent = fmt.Sprintf("%s/%s vertexai-go/%s", sdkName, sdkVersion, sdkVersion)

// RequestOptions are caller-supplied per-call overrides.
type RequestOptions struct {
	// APIClient is appended to the X-Goog-Api-Client header. It must not
	// contain carriage-return or line-feed characters.
	APIClient string
	// CustomHeaders are merged into the composed header set. Precedence
	// against SDK defaults depends on whether the target endpoint is the
	// SDK's own Google API host.
	CustomHeaders map[string]string
	// Timeout bounds this single call. Zero means no timeout beyond the
	// caller's context.
	Timeout time.Duration
}

// isGoogleAPIEndpoint reports whether the target host is the SDK's own
// recognized Google API host.
func isGoogleAPIEndpoint(endpoint string) bool {
	return strings.Contains(endpoint, apiBasePath)
}

// validateHeaderValue rejects values that would allow header injection.
// Empty values are valid.
func validateHeaderValue(field, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return NewClientError(fmt.Sprintf("%s must not contain line breaks, got %q", field, value))
	}
	return nil
}

// composeHeaders produces the final header set for one outbound call. It
// validates all caller-supplied values before any network activity and the
// result is never mutated after dispatch.
func composeHeaders(token, endpoint string, opts *RequestOptions) (http.Header, error) {
	defaults := http.Header{}
	defaults.Set("Authorization", "Bearer "+token)
	defaults.Set("Content-Type", "application/json")
	defaults.Set("User-Agent", userAgent)

	if opts == nil {
		return defaults, nil
	}

	if err := validateHeaderValue("apiClient", opts.APIClient); err != nil {
		return nil, err
	}
	if opts.APIClient != "" {
		defaults.Set(apiClientHeader, opts.APIClient)
	}

	custom := http.Header{}
	for name, value := range opts.CustomHeaders {
		if err := validateHeaderValue("customHeaders", value); err != nil {
			return nil, err
		}
		custom.Set(name, value)
	}

	return mergeHeaders(defaults, custom, isGoogleAPIEndpoint(endpoint)), nil
}

// mergeHeaders combines SDK default headers with caller custom headers.
//
// On an internal endpoint the defaults win: custom headers only fill keys
// the SDK has not set. On an external endpoint custom headers override
// defaults for overlapping keys. X-Goog-Api-Client is the one exception:
// both sources are kept and comma-joined, custom value first, regardless
// of classification.
func mergeHeaders(defaults, custom http.Header, internal bool) http.Header {
	merged := defaults.Clone()

	if customAPIClient := custom.Get(apiClientHeader); customAPIClient != "" {
		if defaultAPIClient := merged.Get(apiClientHeader); defaultAPIClient != "" {
			merged.Set(apiClientHeader, customAPIClient+", "+defaultAPIClient)
		} else {
			merged.Set(apiClientHeader, customAPIClient)
		}
	}

	for name, values := range custom {
		if http.CanonicalHeaderKey(name) == apiClientHeader {
			continue
		}
		if internal && len(merged.Values(name)) > 0 {
			continue
		}
		merged[name] = append([]string(nil), values...)
	}

	return merged
}
