package vertexai

import (
	"context"
	"io"
)

// ChatSession accumulates conversation history and replays it on every
// send. It is not safe for concurrent use; serialize SendMessage calls.
type ChatSession struct {
	model   *GenerativeModel
	history []Content
}

// StartChat opens a chat session with optional seed history.
func (m *GenerativeModel) StartChat(history ...Content) *ChatSession {
	return &ChatSession{
		model:   m,
		history: history,
	}
}

// History returns a copy of the conversation so far, including model
// replies. Appending to the returned slice does not affect the session.
func (c *ChatSession) History() []Content {
	return append([]Content(nil), c.history...)
}

// SendMessage appends the user parts to the history, performs a unary
// generation over the full history and records the model reply.
func (c *ChatSession) SendMessage(ctx context.Context, parts ...Part) (*GenerateContentResponse, error) {
	contents := append(c.history, Content{Role: RoleUser, Parts: parts})

	resp, err := c.model.GenerateContent(ctx, &GenerateContentRequest{Contents: contents})
	if err != nil {
		return nil, err
	}

	c.history = contents
	if len(resp.Candidates) > 0 {
		reply := resp.Candidates[0].Content
		if reply.Role == "" {
			reply.Role = RoleModel
		}
		c.history = append(c.history, reply)
	}
	return resp, nil
}

// SendMessageStream is the streaming variant of SendMessage. The model
// reply is appended to the history only after the stream is fully drained
// here, so a transport failure mid-stream leaves the history unchanged.
func (c *ChatSession) SendMessageStream(ctx context.Context, parts ...Part) (*GenerateContentResponse, error) {
	contents := append(c.history, Content{Role: RoleUser, Parts: parts})

	stream, err := c.model.GenerateContentStream(ctx, &GenerateContentRequest{Contents: contents})
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	for {
		if _, err := stream.Recv(); err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
	}

	resp := stream.Aggregated()
	c.history = contents
	if len(resp.Candidates) > 0 {
		c.history = append(c.history, resp.Candidates[0].Content)
	}
	return resp, nil
}
