package vertexai_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/liuzl/vertexai"
)

// TestGoogleAuthError tests GoogleAuthError creation and properties.
func TestGoogleAuthError(t *testing.T) {
	cause := fmt.Errorf("no default credentials")
	err := vertexai.NewGoogleAuthError("unable to authenticate your request", cause)

	if !strings.HasPrefix(err.Error(), "[VertexAI.GoogleAuthError]: ") {
		t.Errorf("Expected '[VertexAI.GoogleAuthError]: ' prefix, got: %s", err.Error())
	}
	if err.Name() != "GoogleAuthError" {
		t.Errorf("Expected name 'GoogleAuthError', got %s", err.Name())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected error to wrap the cause")
	}

	var authErr *vertexai.GoogleAuthError
	if !errors.As(error(err), &authErr) {
		t.Error("Expected error to be GoogleAuthError")
	}
}

// TestIllegalArgumentError tests IllegalArgumentError creation and properties.
func TestIllegalArgumentError(t *testing.T) {
	err := vertexai.NewIllegalArgumentError("inconsistent project ID values")

	if !strings.HasPrefix(err.Error(), "[VertexAI.IllegalArgumentError]: ") {
		t.Errorf("Expected '[VertexAI.IllegalArgumentError]: ' prefix, got: %s", err.Error())
	}
	if err.Name() != "IllegalArgumentError" {
		t.Errorf("Expected name 'IllegalArgumentError', got %s", err.Name())
	}
}

// TestClientError tests ClientError creation and properties.
func TestClientError(t *testing.T) {
	err := vertexai.NewClientError("apiClient must not contain line breaks")

	if !strings.HasPrefix(err.Error(), "[VertexAI.ClientError]: ") {
		t.Errorf("Expected '[VertexAI.ClientError]: ' prefix, got: %s", err.Error())
	}
	if err.Name() != "ClientError" {
		t.Errorf("Expected name 'ClientError', got %s", err.Name())
	}
}

// TestClientErrorAPI tests that the 4xx error carries the parsed API payload.
func TestClientErrorAPI(t *testing.T) {
	payload := &vertexai.APIError{Code: 400, Message: "invalid argument", Status: "INVALID_ARGUMENT"}
	err := vertexai.NewClientErrorAPI(400, "got status: 400 Bad Request. invalid argument", payload)

	if !strings.HasPrefix(err.Error(), "[VertexAI.ClientErrorApi]: ") {
		t.Errorf("Expected '[VertexAI.ClientErrorApi]: ' prefix, got: %s", err.Error())
	}
	if err.Name() != "ClientErrorApi" {
		t.Errorf("Expected name 'ClientErrorApi', got %s", err.Name())
	}
	if err.StatusCode != 400 {
		t.Errorf("Expected status code 400, got %d", err.StatusCode)
	}
	if err.APIError == nil || err.APIError.Status != "INVALID_ARGUMENT" {
		t.Errorf("Expected API error payload to be carried, got %+v", err.APIError)
	}
}

// TestGoogleGenerativeAIError tests the server/transport error kind.
func TestGoogleGenerativeAIError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := vertexai.NewGoogleGenerativeAIError(0, "exception sending request", cause)

	if !strings.HasPrefix(err.Error(), "[VertexAI.GoogleGenerativeAIError]: ") {
		t.Errorf("Expected '[VertexAI.GoogleGenerativeAIError]: ' prefix, got: %s", err.Error())
	}
	if err.Name() != "GoogleGenerativeAIError" {
		t.Errorf("Expected name 'GoogleGenerativeAIError', got %s", err.Name())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected error to wrap the cause")
	}
}

// TestVertexErrorInterface tests that all kinds satisfy VertexError and
// dispatch by name.
func TestVertexErrorInterface(t *testing.T) {
	kinds := []struct {
		err  vertexai.VertexError
		name string
	}{
		{vertexai.NewGoogleAuthError("m", nil), "GoogleAuthError"},
		{vertexai.NewIllegalArgumentError("m"), "IllegalArgumentError"},
		{vertexai.NewClientError("m"), "ClientError"},
		{vertexai.NewClientErrorAPI(404, "m", nil), "ClientErrorApi"},
		{vertexai.NewGoogleGenerativeAIError(500, "m", nil), "GoogleGenerativeAIError"},
	}
	for _, k := range kinds {
		if k.err.Name() != k.name {
			t.Errorf("Expected name %s, got %s", k.name, k.err.Name())
		}
		if !strings.Contains(k.err.Error(), "[VertexAI."+k.name+"]: ") {
			t.Errorf("Expected message prefix for %s, got: %s", k.name, k.err.Error())
		}
	}
}
