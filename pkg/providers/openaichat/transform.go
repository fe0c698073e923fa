// Package openaichat implements the chat-completions wire protocol shared
// by the OpenAI-compatible provider endpoints (NVIDIA, Cerebras, Mistral
// and similar).
package openaichat

import (
	"fmt"

	"venty-hq/relay/pkg/providers"
)

// Fallback text sent in place of an image when the target provider cannot
// accept image parts.
const uploadedContentPlaceholder = "Please analyze the uploaded content."

// Wire request/response types

// ChatRequest represents a chat completion request.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream,omitempty"`
}

// ChatMessage represents a message on the wire. Content is either a plain
// string or an array of content parts, matching what the endpoint accepts.
type ChatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// ContentPart is one element of a multipart message body.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an image reference in a content part.
type ImageURL struct {
	URL string `json:"url"`
}

// ChatResponse represents a chat completion response.
type ChatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice represents a completion choice.
type ChatChoice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// ResponseMessage is the assistant message in a (non-streaming) response.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Streaming response types

// StreamResponse represents a chunk in the SSE stream.
type StreamResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []StreamChoice `json:"choices"`
}

// StreamChoice represents a choice in a stream chunk.
type StreamChoice struct {
	Index        int         `json:"index"`
	Delta        StreamDelta `json:"delta"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// StreamDelta carries the incremental content of a stream chunk.
type StreamDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// Transformation functions

// transformRequest builds the wire request from router messages. When the
// target provider does not accept images, multipart content is flattened
// to text.
func transformRequest(model string, messages []providers.Message, vision, stream bool) *ChatRequest {
	req := &ChatRequest{
		Model:    model,
		Messages: make([]ChatMessage, len(messages)),
		Stream:   stream,
	}

	for i, msg := range messages {
		req.Messages[i] = ChatMessage{
			Role:    msg.Role,
			Content: transformContent(msg.Content, vision),
		}
	}

	return req
}

// transformContent converts router content to the wire representation.
func transformContent(content providers.Content, vision bool) interface{} {
	if !content.IsMultipart() {
		return content.Text
	}

	if !vision {
		return flattenContent(content)
	}

	parts := make([]ContentPart, 0, len(content.Parts))
	for _, part := range content.Parts {
		switch part.Type {
		case providers.PartText:
			parts = append(parts, ContentPart{Type: "text", Text: part.Text})
		case providers.PartImageURL:
			parts = append(parts, ContentPart{
				Type:     "image_url",
				ImageURL: &ImageURL{URL: part.ImageURL},
			})
		}
	}
	return parts
}

// flattenContent reduces multipart content to plain text for providers
// that cannot accept image parts. If the message was only an image, a
// placeholder keeps the turn non-empty.
func flattenContent(content providers.Content) string {
	text := content.PlainText()
	if text == "" && content.HasImage() {
		return uploadedContentPlaceholder
	}
	return text
}

// transformResponse extracts the assistant text from a wire response.
func transformResponse(providerName, model string, resp *ChatResponse, raw []byte) (*providers.ChatResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &providers.ChatResponse{
		Content:  resp.Choices[0].Message.Content,
		Provider: providerName,
		Model:    model,
		Raw:      raw,
	}, nil
}
