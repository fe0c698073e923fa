// Package genai implements the generateContent wire protocol used by the
// Gemini API family.
package genai

import (
	"fmt"
	"strings"

	"venty-hq/relay/pkg/providers"
)

// Wire request/response types

// GenerateRequest represents a generateContent request.
type GenerateRequest struct {
	Contents []WireContent `json:"contents"`
}

// WireContent is one conversation turn on the wire.
type WireContent struct {
	Role  string     `json:"role"`
	Parts []WirePart `json:"parts"`
}

// WirePart is one part of a turn: text or inline image data.
type WirePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData carries base64-encoded image bytes.
type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// GenerateResponse represents a generateContent response. The streaming
// endpoint emits the same shape per chunk.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content      WireContent `json:"content"`
	FinishReason string      `json:"finishReason,omitempty"`
}

// Transformation functions

// transformRequest builds the wire request. The protocol has no system
// role, so system text is folded into the first user turn, and assistant
// turns become "model".
func transformRequest(messages []providers.Message) *GenerateRequest {
	var system []string
	contents := make([]WireContent, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == providers.RoleSystem {
			if text := msg.Content.PlainText(); text != "" {
				system = append(system, text)
			}
			continue
		}

		role := "user"
		if msg.Role == providers.RoleAssistant {
			role = "model"
		}

		contents = append(contents, WireContent{
			Role:  role,
			Parts: transformParts(msg.Content),
		})
	}

	if len(system) > 0 {
		prefix := WirePart{Text: strings.Join(system, "\n\n")}
		for i := range contents {
			if contents[i].Role == "user" {
				contents[i].Parts = append([]WirePart{prefix}, contents[i].Parts...)
				break
			}
		}
	}

	return &GenerateRequest{Contents: contents}
}

// transformParts converts router content to wire parts. Data-URI images
// become inline_data; other image URLs are referenced in text since the
// endpoint cannot fetch them.
func transformParts(content providers.Content) []WirePart {
	if !content.IsMultipart() {
		return []WirePart{{Text: content.Text}}
	}

	parts := make([]WirePart, 0, len(content.Parts))
	for _, part := range content.Parts {
		switch part.Type {
		case providers.PartText:
			parts = append(parts, WirePart{Text: part.Text})
		case providers.PartImageURL:
			if inline, ok := parseDataURI(part.ImageURL); ok {
				parts = append(parts, WirePart{InlineData: inline})
			} else {
				parts = append(parts, WirePart{Text: "[Image URL: " + part.ImageURL + "]"})
			}
		}
	}
	return parts
}

// parseDataURI splits a "data:<mime>;base64,<data>" URI into inline data.
func parseDataURI(uri string) (*InlineData, bool) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, false
	}
	meta, data, found := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !found {
		return nil, false
	}
	mime, encoding, found := strings.Cut(meta, ";")
	if !found || encoding != "base64" || mime == "" {
		return nil, false
	}
	return &InlineData{MimeType: mime, Data: data}, true
}

// transformResponse joins the candidate's text parts into the assistant
// reply.
func transformResponse(providerName, model string, resp *GenerateResponse, raw []byte) (*providers.ChatResponse, error) {
	text, err := candidateText(resp)
	if err != nil {
		return nil, err
	}

	return &providers.ChatResponse{
		Content:  text,
		Provider: providerName,
		Model:    model,
		Raw:      raw,
	}, nil
}

// candidateText extracts the concatenated text of the first candidate.
func candidateText(resp *GenerateResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
