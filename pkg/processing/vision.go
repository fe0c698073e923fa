package processing

import "strings"

// RawMessage is one inbound chat message as received from the HTTP layer,
// before shaping. FileURL and FileType describe an optional attachment.
type RawMessage struct {
	ID       string `json:"id,omitempty"`
	Role     string `json:"role"`
	Content  string `json:"content"`
	FileURL  string `json:"fileUrl,omitempty"`
	FileType string `json:"fileType,omitempty"`
}

// MessageHasImage reports whether a single message carries an image:
// an image attachment, an image data URI, or base64 image content
// embedded in the text.
func MessageHasImage(msg *RawMessage) bool {
	if msg == nil {
		return false
	}

	if msg.FileURL != "" || msg.FileType != "" {
		return strings.HasPrefix(msg.FileType, "image/") ||
			strings.HasPrefix(msg.FileURL, "data:image/") ||
			strings.Contains(msg.FileURL, "image")
	}

	return strings.Contains(msg.Content, "data:image/") ||
		strings.Contains(msg.Content, "base64,")
}

// RequestHasImage reports whether any message in the request carries an
// image indicator.
func RequestHasImage(messages []RawMessage) bool {
	for i := range messages {
		if MessageHasImage(&messages[i]) {
			return true
		}
	}
	return false
}

// ResolveVision decides whether the request must go to a vision-capable
// provider.
//
// The current (last) message carrying an image always forces vision.
// Older image turns, or an explicit caller hint, force vision only when
// no image context has been cached for the conversation yet: once an
// image has been summarized to text, text-only providers can continue
// the conversation without re-paying for vision capacity.
func ResolveVision(messages []RawMessage, visionHint, hasImageContext bool) bool {
	current := false
	if len(messages) > 0 {
		current = MessageHasImage(&messages[len(messages)-1])
	}

	requires := visionHint || RequestHasImage(messages)

	return current || (requires && !hasImageContext)
}
