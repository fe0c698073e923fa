package proxy

import "venty-hq/relay/pkg/processing"

// ChatRequest is the inbound body of the chat endpoints.
type ChatRequest struct {
	// Messages is the full conversation so far, last message current.
	Messages []processing.RawMessage `json:"messages"`

	// ConversationID keys provider affinity, image context, and
	// transcript persistence. Optional (guest mode).
	ConversationID string `json:"conversationId,omitempty"`

	// VisionHint is the caller's explicit request for a vision-capable
	// mode.
	VisionHint bool `json:"visionHint,omitempty"`
}

// ChatResponse is the buffered completion response body.
type ChatResponse struct {
	Message        string `json:"message"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	ConversationID string `json:"conversationId,omitempty"`
}

// StreamEvent is one SSE data frame relayed to the client.
type StreamEvent struct {
	Content   string `json:"content"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

// ErrorResponse is the structured error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error type and a user-safe message.
type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Error types used in responses.
const (
	ErrorTypeInvalidRequest = "invalid_request"
	ErrorTypeCancelled      = "request_cancelled"
	ErrorTypeUnavailable    = "all_providers_failed"
	ErrorTypeInternal       = "internal_error"
)

// CancelledMarker is the transcript-visible marker relayed when a
// stream is cancelled by the caller.
const CancelledMarker = "\n\n*Cancelled by user*"
