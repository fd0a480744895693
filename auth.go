package vertexai

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// requiredScope is the single OAuth scope mandatory for every request
// issued by this client.
const requiredScope = "https://www.googleapis.com/auth/cloud-platform"

// GoogleAuthOptions configures how the client authenticates. All fields are
// optional; with a zero value the client uses Application Default
// Credentials with the cloud-platform scope.
type GoogleAuthOptions struct {
	// ProjectID, when set, must match the project the client was built with.
	ProjectID string
	// Scopes must include the cloud-platform scope when non-empty.
	Scopes []string
	// CredentialsFile points at a service account key file.
	CredentialsFile string
	// CredentialsJSON holds service account key material directly.
	CredentialsJSON []byte
	// TokenSource bypasses credential discovery entirely. It is shared
	// read-only across concurrent calls; token refresh is serialized
	// inside the oauth2 package.
	TokenSource oauth2.TokenSource
}

// validateGoogleAuthOptions checks caller-supplied auth options against the
// client project and guarantees the required scope is present.
func validateGoogleAuthOptions(project string, opts *GoogleAuthOptions) (*GoogleAuthOptions, error) {
	if opts == nil {
		return &GoogleAuthOptions{Scopes: []string{requiredScope}}, nil
	}
	if opts.ProjectID != "" && opts.ProjectID != project {
		return nil, NewIllegalArgumentError(fmt.Sprintf(
			"inconsistent project ID values: %q from client, %q from GoogleAuthOptions",
			project, opts.ProjectID))
	}
	if len(opts.Scopes) == 0 {
		opts.Scopes = []string{requiredScope}
		return opts, nil
	}
	for _, scope := range opts.Scopes {
		if scope == requiredScope {
			return opts, nil
		}
	}
	return nil, NewGoogleAuthError(fmt.Sprintf(
		"GoogleAuthOptions.Scopes must include %q; add it to the scopes list to authenticate against Vertex AI",
		requiredScope), nil)
}

// newTokenSource resolves a token source from validated auth options.
// Preference order: explicit TokenSource, inline credentials JSON, a
// credentials file, then Application Default Credentials.
func newTokenSource(ctx context.Context, opts *GoogleAuthOptions) (oauth2.TokenSource, error) {
	if opts.TokenSource != nil {
		return opts.TokenSource, nil
	}

	if opts.CredentialsFile != "" && len(opts.CredentialsJSON) == 0 {
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, NewGoogleAuthError(fmt.Sprintf("unable to read credentials file %q", opts.CredentialsFile), err)
		}
		opts.CredentialsJSON = data
	}

	if len(opts.CredentialsJSON) > 0 {
		creds, err := google.CredentialsFromJSON(ctx, opts.CredentialsJSON, opts.Scopes...)
		if err != nil {
			return nil, NewGoogleAuthError("unable to parse credentials JSON", err)
		}
		return creds.TokenSource, nil
	}

	creds, err := google.FindDefaultCredentials(ctx, opts.Scopes...)
	if err != nil {
		return nil, NewGoogleAuthError("unable to authenticate your request: no default credentials found", err)
	}
	return creds.TokenSource, nil
}

// bearerToken fetches a fresh access token from the shared token source.
func bearerToken(ts oauth2.TokenSource) (string, error) {
	token, err := ts.Token()
	if err != nil {
		return "", NewGoogleAuthError("unable to obtain access token", err)
	}
	return token.AccessToken, nil
}
