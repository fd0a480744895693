package vertexai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestGenerateContentStreamSSE tests streaming over text/event-stream
// framing, including chunk delivery and aggregation.
func TestGenerateContentStreamSSE(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "alt=sse" {
			t.Errorf("Expected alt=sse query, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":\"Hello\"}]}}]}\n\n"))
		w.Write([]byte("data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\", world\"}]},\"finishReason\":\"STOP\"}],\"usageMetadata\":{\"totalTokenCount\":7}}\n\n"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	model := client.GetGenerativeModel(&ModelParams{Model: "gemini-1.5-pro"}, nil)

	stream, err := model.GenerateContentStream(context.Background(), &GenerateContentRequest{
		Contents: []Content{{Role: RoleUser, Parts: []Part{TextPart("greet")}}},
	})
	if err != nil {
		t.Fatalf("GenerateContentStream failed: %v", err)
	}
	defer stream.Close()

	var texts []string
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
		texts = append(texts, chunk.Text())
	}

	if len(texts) != 2 || texts[0] != "Hello" || texts[1] != ", world" {
		t.Errorf("Unexpected chunk texts: %v", texts)
	}

	agg := stream.Aggregated()
	if agg.Text() != "Hello, world" {
		t.Errorf("Expected aggregated 'Hello, world', got %q", agg.Text())
	}
	if len(agg.Candidates) != 1 || agg.Candidates[0].FinishReason != "STOP" {
		t.Errorf("Expected finish reason STOP in aggregate, got %+v", agg.Candidates)
	}
	if agg.UsageMetadata == nil || agg.UsageMetadata.TotalTokenCount != 7 {
		t.Errorf("Expected usage metadata in aggregate, got %+v", agg.UsageMetadata)
	}
}

// TestGenerateContentStreamJSONArray tests streaming when the server
// ignores alt=sse and returns the default JSON array framing.
func TestGenerateContentStreamJSONArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"candidates":[{"content":{"role":"model","parts":[{"text":"one"}]}}]},
{"candidates":[{"content":{"parts":[{"text":" two"}]},"finishReason":"STOP"}]}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	model := client.GetGenerativeModel(&ModelParams{Model: "gemini-1.5-pro"}, nil)

	stream, err := model.GenerateContentStream(context.Background(), &GenerateContentRequest{
		Contents: []Content{{Role: RoleUser, Parts: []Part{TextPart("count")}}},
	})
	if err != nil {
		t.Fatalf("GenerateContentStream failed: %v", err)
	}
	defer stream.Close()

	chunks := 0
	for {
		_, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
		chunks++
	}
	if chunks != 2 {
		t.Errorf("Expected 2 chunks, got %d", chunks)
	}
	if got := stream.Aggregated().Text(); got != "one two" {
		t.Errorf("Expected aggregated 'one two', got %q", got)
	}
}

// TestStreamAggregatedIsolation tests that mutating a mid-stream
// aggregate snapshot does not corrupt later aggregation.
func TestStreamAggregatedIsolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":\"Hello\"}]}}]}\n\n"))
		w.Write([]byte("data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\", world\"}]}}]}\n\n"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	model := client.GetGenerativeModel(&ModelParams{Model: "m"}, nil)

	stream, err := model.GenerateContentStream(context.Background(), &GenerateContentRequest{
		Contents: []Content{{Parts: []Part{TextPart("greet")}}},
	})
	if err != nil {
		t.Fatalf("GenerateContentStream failed: %v", err)
	}
	defer stream.Close()

	if _, err := stream.Recv(); err != nil {
		t.Fatalf("Recv failed: %v", err)
	}

	snapshot := stream.Aggregated()
	snapshot.Candidates[0].Content.Parts[0].Text = "junk"

	for {
		if _, err := stream.Recv(); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
	}

	if got := stream.Aggregated().Text(); got != "Hello, world" {
		t.Errorf("Expected 'Hello, world' unaffected by snapshot mutation, got %q", got)
	}
}

// TestStreamRecvAfterEOF tests that Recv keeps returning io.EOF once the
// stream is done.
func TestStreamRecvAfterEOF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"candidates\":[]}\n\n"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	model := client.GetGenerativeModel(&ModelParams{Model: "m"}, nil)

	stream, err := model.GenerateContentStream(context.Background(), &GenerateContentRequest{
		Contents: []Content{{Parts: []Part{TextPart("x")}}},
	})
	if err != nil {
		t.Fatalf("GenerateContentStream failed: %v", err)
	}
	defer stream.Close()

	for i := 0; i < 3; i++ {
		if _, err := stream.Recv(); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
	}
	if _, err := stream.Recv(); err != io.EOF {
		t.Errorf("Expected io.EOF after stream end, got %v", err)
	}
}

// TestStreamFunctionCallChunk tests that function call parts survive
// streaming and aggregation as separate parts.
func TestStreamFunctionCallChunk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"functionCall\":{\"name\":\"get_weather\",\"args\":{\"location\":\"Boston\"}}}]}}]}\n\n"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	model := client.GetGenerativeModel(&ModelParams{Model: "m"}, nil)

	stream, err := model.GenerateContentStream(context.Background(), &GenerateContentRequest{
		Contents: []Content{{Parts: []Part{TextPart("weather?")}}},
	})
	if err != nil {
		t.Fatalf("GenerateContentStream failed: %v", err)
	}
	defer stream.Close()

	for {
		if _, err := stream.Recv(); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
	}

	calls := stream.Aggregated().FunctionCalls()
	if len(calls) != 1 || calls[0].Name != "get_weather" {
		t.Fatalf("Expected one get_weather call, got %+v", calls)
	}
	if calls[0].Args["location"] != "Boston" {
		t.Errorf("Expected location arg 'Boston', got %v", calls[0].Args)
	}
}
