package providers

import (
	"context"
	"encoding/json"
	"time"
)

// Message role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content part type constants.
const (
	PartText     = "text"
	PartImageURL = "image_url"
)

// ContentPart is one element of multi-part message content.
type ContentPart struct {
	// Type identifies the part: PartText or PartImageURL.
	Type string `json:"type"`

	// Text is the text content (Type == PartText).
	Text string `json:"text,omitempty"`

	// ImageURL is the image reference, either an https URL or a
	// data: URI with base64 payload (Type == PartImageURL).
	ImageURL string `json:"image_url,omitempty"`
}

// Content is a tagged union of plain text and multi-part content.
// Parts being non-nil marks multi-part content; Text is then ignored.
type Content struct {
	Text  string
	Parts []ContentPart
}

// TextContent builds plain text content.
func TextContent(text string) Content {
	return Content{Text: text}
}

// PartsContent builds multi-part content.
func PartsContent(parts ...ContentPart) Content {
	if parts == nil {
		parts = []ContentPart{}
	}
	return Content{Parts: parts}
}

// IsMultipart reports whether the content carries structured parts.
func (c Content) IsMultipart() bool {
	return c.Parts != nil
}

// PlainText returns the text of the content: the Text field for plain
// content, or all text parts joined with newlines for multi-part content.
func (c Content) PlainText() string {
	if !c.IsMultipart() {
		return c.Text
	}
	var out string
	for _, p := range c.Parts {
		if p.Type != PartText {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += p.Text
	}
	return out
}

// HasImage reports whether the content carries an image part.
func (c Content) HasImage() bool {
	for _, p := range c.Parts {
		if p.Type == PartImageURL && p.ImageURL != "" {
			return true
		}
	}
	return false
}

// Message is a provider-agnostic structured message.
type Message struct {
	// Role identifies the sender: RoleSystem, RoleUser, or RoleAssistant.
	Role string

	// Content is the message payload, plain text or multi-part.
	Content Content
}

// ChatResponse is a normalized buffered completion result.
type ChatResponse struct {
	// Content is the generated text.
	Content string

	// Provider is the name of the provider that produced the response.
	Provider string

	// Model is the model identifier that produced the response.
	Model string

	// Raw is the untouched provider payload, kept for diagnostics.
	Raw json.RawMessage
}

// StreamDelta is one decoded chunk of a streaming response.
type StreamDelta struct {
	// Text is the incremental content carried by this chunk. May be empty
	// for keep-alive or metadata frames.
	Text string

	// Raw is the provider frame the delta was decoded from.
	Raw []byte
}

// StreamReader yields stream deltas as they arrive from the provider.
// Read returns io.EOF when the stream ends normally; provider end-of-stream
// sentinels ("[DONE]") are consumed by the reader, never surfaced.
type StreamReader interface {
	Read(ctx context.Context) (*StreamDelta, error)
	Close() error
}

// Caller executes completion calls against one upstream provider.
// Implementations are safe for concurrent use.
type Caller interface {
	// Complete sends a buffered completion request and returns the
	// normalized response.
	Complete(ctx context.Context, model string, messages []Message) (*ChatResponse, error)

	// Stream opens a streaming completion request. The returned reader
	// exposes chunks as the provider emits them; the response body is
	// never buffered whole. The caller owns the reader and must close it.
	Stream(ctx context.Context, model string, messages []Message) (StreamReader, error)

	// Name returns the provider name this caller is bound to.
	Name() string

	// Close releases pooled connections. The caller must not be used
	// afterwards.
	Close() error
}

// CallerConfig is the subset of provider configuration an adapter needs.
type CallerConfig struct {
	// Name is the provider identifier.
	Name string

	// BaseURL is the API endpoint base URL.
	BaseURL string

	// APIKey is the authentication credential.
	APIKey string

	// Timeout is the per-call HTTP timeout.
	Timeout time.Duration

	// MaxIdleConns is the connection pool size.
	MaxIdleConns int

	// MaxIdleConnsPerHost is the per-host idle connection limit.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long idle connections are kept pooled.
	IdleConnTimeout time.Duration
}
