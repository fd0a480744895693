package vertexai

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ImagePartFromURL downloads an image and wraps it as an inline-data part.
// Vertex AI does not fetch remote URLs itself, so the bytes are embedded
// base64-encoded with a detected MIME type.
func ImagePartFromURL(ctx context.Context, imageURL string, timeout time.Duration) (*Part, error) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image download request: %w", err)
	}

	// Some servers reject requests without a User-Agent.
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image from URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return &Part{InlineData: &Blob{
		MimeType: detectImageMimeType(resp.Header.Get("Content-Type"), imageURL),
		Data:     base64.StdEncoding.EncodeToString(data),
	}}, nil
}

// detectImageMimeType picks the MIME type from the Content-Type header,
// falling back to the URL extension.
func detectImageMimeType(contentType, imageURL string) string {
	contentType = strings.ToLower(contentType)
	for _, mime := range []string{"image/jpeg", "image/png", "image/gif", "image/webp"} {
		if strings.Contains(contentType, mime) {
			return mime
		}
	}

	imageURL = strings.ToLower(imageURL)
	switch {
	case strings.HasSuffix(imageURL, ".jpg"), strings.HasSuffix(imageURL, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(imageURL, ".gif"):
		return "image/gif"
	case strings.HasSuffix(imageURL, ".webp"):
		return "image/webp"
	default:
		return "image/png"
	}
}
