package openaichat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"venty-hq/relay/pkg/providers"
)

// streamReader decodes the chat-completions SSE stream into deltas.
type streamReader struct {
	caller  *providers.HTTPCaller
	resp    io.ReadCloser
	scanner *bufio.Scanner
	closed  bool
}

// newStreamReader opens the streaming request and wraps its body.
func newStreamReader(ctx context.Context, caller *providers.HTTPCaller, url string, req *ChatRequest, headers map[string]string) (*streamReader, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := caller.Do(ctx, "POST", url, bodyBytes, headers)
	if err != nil {
		return nil, err
	}

	return &streamReader{
		caller:  caller,
		resp:    resp.Body,
		scanner: bufio.NewScanner(resp.Body),
	}, nil
}

// Read returns the next delta from the stream. io.EOF signals normal
// termination; a cancelled context is reported as a CancellationError.
func (s *streamReader) Read(ctx context.Context) (*providers.StreamDelta, error) {
	if s.closed {
		return nil, io.EOF
	}

	for {
		select {
		case <-ctx.Done():
			return nil, &providers.CancellationError{Provider: s.caller.Name(), Cause: ctx.Err()}
		default:
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				if ctx.Err() != nil {
					return nil, &providers.CancellationError{Provider: s.caller.Name(), Cause: ctx.Err()}
				}
				return nil, &providers.ProviderError{
					Provider: s.caller.Name(),
					Kind:     providers.KindTransport,
					Message:  "failed to read stream",
					Cause:    err,
				}
			}
			return nil, io.EOF
		}

		line := s.scanner.Text()
		if line == "" {
			continue
		}

		// Skip comments, event types and other non-data lines.
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			return nil, io.EOF
		}

		var chunk StreamResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return nil, &providers.ParseError{
				Provider:    s.caller.Name(),
				RawResponse: data,
				Cause:       fmt.Errorf("failed to parse stream chunk: %w", err),
			}
		}

		if len(chunk.Choices) == 0 {
			continue
		}

		return &providers.StreamDelta{
			Text: chunk.Choices[0].Delta.Content,
			Raw:  []byte(data),
		}, nil
	}
}

// Close closes the stream and releases the connection.
func (s *streamReader) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.resp.Close()
}
