package vertexai

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// chunkDecoder yields raw JSON chunks from a streamGenerateContent
// response body, regardless of wire framing.
type chunkDecoder interface {
	// Next returns the next chunk's JSON bytes or io.EOF at end of stream.
	Next() ([]byte, error)
}

// sseDecoder parses the text/event-stream framing used when alt=sse is set.
type sseDecoder struct {
	r *bufio.Reader
}

func newSSEDecoder(r io.Reader) *sseDecoder {
	return &sseDecoder{r: bufio.NewReader(r)}
}

func (d *sseDecoder) Next() ([]byte, error) {
	var dataLines []string

	for {
		line, err := d.r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}

		line = strings.TrimRight(line, "\r\n")

		switch {
		case strings.HasPrefix(line, ":"):
			// Comment line - ignore.
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimSpace(line[len("data:"):]))
		case strings.HasPrefix(line, "event:"):
			// Vertex AI emits unnamed events only; the field is skipped.
		case line == "":
			// Blank line denotes end of event block.
			if len(dataLines) > 0 {
				return []byte(strings.Join(dataLines, "\n")), nil
			}
		default:
			// Non-prefixed lines are treated as data.
			dataLines = append(dataLines, line)
		}

		if err == io.EOF {
			if len(dataLines) > 0 {
				return []byte(strings.Join(dataLines, "\n")), nil
			}
			return nil, io.EOF
		}
	}
}

// jsonArrayDecoder decodes the default streaming format: a single JSON
// array of response objects, [{obj1},{obj2},...], emitted incrementally.
type jsonArrayDecoder struct {
	reader    *bufio.Reader
	firstRead bool
	finished  bool
}

func newJSONArrayDecoder(r io.Reader) *jsonArrayDecoder {
	return &jsonArrayDecoder{
		reader:    bufio.NewReader(r),
		firstRead: true,
	}
}

func (d *jsonArrayDecoder) Next() ([]byte, error) {
	if d.finished {
		return nil, io.EOF
	}

	if d.firstRead {
		d.firstRead = false
		if err := d.skipUntil('['); err != nil {
			return nil, err
		}
	}

	// Skip whitespace and separators until the next object or array end.
	for {
		b, err := d.reader.ReadByte()
		if err != nil {
			return nil, err
		}

		if b == ' ' || b == '\n' || b == '\r' || b == '\t' || b == ',' {
			continue
		}

		if b == ']' {
			d.finished = true
			return nil, io.EOF
		}

		if b == '{' {
			if err := d.reader.UnreadByte(); err != nil {
				return nil, err
			}
			break
		}

		return nil, io.ErrUnexpectedEOF
	}

	return d.readJSONObject()
}

func (d *jsonArrayDecoder) skipUntil(target byte) error {
	for {
		b, err := d.reader.ReadByte()
		if err != nil {
			return err
		}
		if b == target {
			return nil
		}
	}
}

// readJSONObject reads one complete, brace-balanced JSON object.
func (d *jsonArrayDecoder) readJSONObject() ([]byte, error) {
	var buf bytes.Buffer
	depth := 0
	inString := false
	escaped := false

	for {
		b, err := d.reader.ReadByte()
		if err != nil {
			return nil, err
		}

		buf.WriteByte(b)

		if escaped {
			escaped = false
			continue
		}
		if b == '\\' {
			escaped = true
			continue
		}
		if b == '"' {
			inString = !inString
			continue
		}

		if !inString {
			switch b {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return buf.Bytes(), nil
				}
			}
		}
	}
}
