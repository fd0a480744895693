package vertexai

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestImagePartFromURL tests downloading an image into an inline-data part.
func TestImagePartFromURL(t *testing.T) {
	pngBytes := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes)
	}))
	defer server.Close()

	part, err := ImagePartFromURL(context.Background(), server.URL+"/cat.png", 5*time.Second)
	if err != nil {
		t.Fatalf("ImagePartFromURL failed: %v", err)
	}
	if part.InlineData == nil {
		t.Fatal("Expected inline data part")
	}
	if part.InlineData.MimeType != "image/png" {
		t.Errorf("Expected 'image/png', got %q", part.InlineData.MimeType)
	}
	if part.InlineData.Data != base64.StdEncoding.EncodeToString(pngBytes) {
		t.Errorf("Unexpected base64 payload: %q", part.InlineData.Data)
	}
}

// TestImagePartFromURLHTTPError tests that non-200 downloads fail.
func TestImagePartFromURLHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := ImagePartFromURL(context.Background(), server.URL, 5*time.Second); err == nil {
		t.Fatal("Expected error for HTTP 404, got nil")
	}
}

// TestDetectImageMimeType tests header and extension based detection.
func TestDetectImageMimeType(t *testing.T) {
	cases := []struct {
		contentType string
		url         string
		want        string
	}{
		{"image/jpeg", "http://example.com/a", "image/jpeg"},
		{"image/webp; charset=binary", "http://example.com/a", "image/webp"},
		{"", "http://example.com/photo.JPG", "image/jpeg"},
		{"", "http://example.com/anim.gif", "image/gif"},
		{"application/octet-stream", "http://example.com/blob", "image/png"},
	}
	for _, tc := range cases {
		if got := detectImageMimeType(tc.contentType, tc.url); got != tc.want {
			t.Errorf("detectImageMimeType(%q, %q) = %q, want %q", tc.contentType, tc.url, got, tc.want)
		}
	}
}
