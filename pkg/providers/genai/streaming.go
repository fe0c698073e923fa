package genai

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"venty-hq/relay/pkg/providers"
)

// streamReader decodes the streamGenerateContent SSE stream into deltas.
type streamReader struct {
	caller  *providers.HTTPCaller
	resp    io.ReadCloser
	scanner *bufio.Scanner
	closed  bool
}

// newStreamReader opens the streaming request and wraps its body.
func newStreamReader(ctx context.Context, caller *providers.HTTPCaller, url string, req *GenerateRequest) (*streamReader, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := caller.Do(ctx, "POST", url, bodyBytes, map[string]string{
		"Content-Type": "application/json",
	})
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
// termination.
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
		if line == "" || !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")

		var chunk GenerateResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return nil, &providers.ParseError{
				Provider:    s.caller.Name(),
				RawResponse: data,
				Cause:       fmt.Errorf("failed to parse stream chunk: %w", err),
			}
		}

		text, err := candidateText(&chunk)
		if err != nil {
			// Keep-alive chunks without candidates are skipped.
			continue
		}

		return &providers.StreamDelta{
			Text: text,
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
