package vertexai

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StreamReader allows incremental consumption of a streamed generation
// response. Recv must be called sequentially from a single goroutine;
// Close releases the underlying HTTP body.
type StreamReader struct {
	resp    *http.Response
	decoder chunkDecoder

	aggregated GenerateContentResponse
	err        error
}

// newStreamReader picks the chunk decoder from the response framing:
// text/event-stream when the server honored alt=sse, a raw JSON array
// otherwise.
func newStreamReader(resp *http.Response) *StreamReader {
	var decoder chunkDecoder
	if isSSEResponse(resp) {
		decoder = newSSEDecoder(resp.Body)
	} else {
		decoder = newJSONArrayDecoder(resp.Body)
	}
	return &StreamReader{resp: resp, decoder: decoder}
}

// Recv blocks until the next response chunk is available. It returns
// io.EOF when the stream is finished.
func (s *StreamReader) Recv() (*GenerateContentResponse, error) {
	if s.err != nil {
		return nil, s.err
	}

	data, err := s.decoder.Next()
	if err == io.EOF {
		s.err = io.EOF
		return nil, io.EOF
	}
	if err != nil {
		s.err = NewGoogleGenerativeAIError(0, fmt.Sprintf("error reading stream: %v", err), err)
		return nil, s.err
	}

	var chunk GenerateContentResponse
	if err := json.Unmarshal(data, &chunk); err != nil {
		s.err = NewGoogleGenerativeAIError(0, fmt.Sprintf("unable to parse stream chunk: %v", err), err)
		return nil, s.err
	}

	s.aggregate(&chunk)
	return &chunk, nil
}

// Aggregated returns the accumulated response built from all chunks
// received so far. Valid at any point, typically read after io.EOF.
// The candidates are copied, so mutating the result does not disturb
// aggregation of later chunks.
func (s *StreamReader) Aggregated() *GenerateContentResponse {
	agg := s.aggregated
	agg.Candidates = make([]Candidate, len(s.aggregated.Candidates))
	copy(agg.Candidates, s.aggregated.Candidates)
	for i := range agg.Candidates {
		parts := make([]Part, len(agg.Candidates[i].Content.Parts))
		copy(parts, agg.Candidates[i].Content.Parts)
		agg.Candidates[i].Content.Parts = parts
	}
	return &agg
}

// Close releases the underlying HTTP response body.
func (s *StreamReader) Close() error {
	return s.resp.Body.Close()
}

// aggregate folds a chunk into the accumulated response: candidate text
// parts are concatenated by index, other parts appended, and usage
// metadata replaced by the latest value.
func (s *StreamReader) aggregate(chunk *GenerateContentResponse) {
	if chunk.UsageMetadata != nil {
		s.aggregated.UsageMetadata = chunk.UsageMetadata
	}
	if chunk.PromptFeedback != nil {
		s.aggregated.PromptFeedback = chunk.PromptFeedback
	}

	for _, cand := range chunk.Candidates {
		idx := int(cand.Index)
		for len(s.aggregated.Candidates) <= idx {
			s.aggregated.Candidates = append(s.aggregated.Candidates, Candidate{
				Index:   int32(len(s.aggregated.Candidates)),
				Content: Content{Role: RoleModel},
			})
		}
		agg := &s.aggregated.Candidates[idx]
		if cand.FinishReason != "" {
			agg.FinishReason = cand.FinishReason
		}
		if cand.Content.Role != "" {
			agg.Content.Role = cand.Content.Role
		}
		if len(cand.SafetyRatings) > 0 {
			agg.SafetyRatings = cand.SafetyRatings
		}
		for _, part := range cand.Content.Parts {
			// Consecutive text deltas collapse into one part.
			n := len(agg.Content.Parts)
			if part.Text != "" && n > 0 && agg.Content.Parts[n-1].Text != "" &&
				agg.Content.Parts[n-1].InlineData == nil && agg.Content.Parts[n-1].FunctionCall == nil {
				agg.Content.Parts[n-1].Text += part.Text
				continue
			}
			agg.Content.Parts = append(agg.Content.Parts, part)
		}
	}
}
