package processing

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"venty-hq/relay/pkg/providers"
)

// Default prompts substituted when a user attaches a file without any
// accompanying text.
const (
	defaultImagePrompt = "Please describe the image."
	defaultFilePrompt  = "Please provide a response."
)

// describePrompt is sent to the vision describer alongside an uploaded
// image to obtain the cached summary.
const describePrompt = "Analyze this image and provide a detailed description " +
	"that can be used as context for future conversations. Include objects, " +
	"people, text, colors, setting, and any other relevant details. Keep it " +
	"concise but comprehensive."

// followUpPatterns match short follow-up questions (Indonesian and
// English) that should carry the cached image context forward.
var followUpPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(itu|ini|that|this)\s+(bagus|jelek|baik|buruk|good|bad|nice|ugly)`),
	regexp.MustCompile(`(?i)^(bagaimana|gimana|how)\s+(dengan|about)`),
	regexp.MustCompile(`(?i)^(apa|what)\s+(itu|ini|that|this)`),
	regexp.MustCompile(`(?i)^(kenapa|mengapa|why)`),
	regexp.MustCompile(`(?i)^(dimana|where)`),
	regexp.MustCompile(`(?i)^(kapan|when)`),
	regexp.MustCompile(`(?i)^(siapa|who)`),
	regexp.MustCompile(`(?i)^(berapa|how\s+much|how\s+many)`),
}

// ImageDescriber produces a textual summary of an image. Implemented by
// DescriberClient over the designated vision provider; nil disables
// summarization.
type ImageDescriber interface {
	DescribeImage(ctx context.Context, imageURL string) (string, error)
}

// Processor builds the provider-agnostic message list from raw inbound
// messages.
type Processor struct {
	systemPrompt    string
	store           *ImageContextStore
	describer       ImageDescriber
	describeTimeout time.Duration
}

// NewProcessor creates a processor. describer may be nil, in which case
// images pass through without summarization.
func NewProcessor(systemPrompt string, store *ImageContextStore, describer ImageDescriber, describeTimeout time.Duration) *Processor {
	if describeTimeout <= 0 {
		describeTimeout = 30 * time.Second
	}
	return &Processor{
		systemPrompt:    systemPrompt,
		store:           store,
		describer:       describer,
		describeTimeout: describeTimeout,
	}
}

// Store exposes the image-context store for vision resolution and
// maintenance sweeps.
func (p *Processor) Store() *ImageContextStore {
	return p.store
}

// Process shapes raw messages into the outbound message list:
// caller-supplied system messages are dropped, the configured persona is
// injected first, attachments become two-part text+image content, and
// short follow-up questions get the conversation's cached image context
// appended.
//
// Image summarization runs in a detached goroutine with its own timeout;
// the current request never waits on it.
func (p *Processor) Process(conversationID string, messages []RawMessage) []providers.Message {
	out := make([]providers.Message, 0, len(messages)+1)
	out = append(out, providers.Message{
		Role:    providers.RoleSystem,
		Content: providers.TextContent(p.systemPrompt),
	})

	for i := range messages {
		msg := &messages[i]
		if msg.Role == providers.RoleSystem {
			continue
		}

		if msg.Role == providers.RoleUser {
			if info, ok := extractFileInfo(msg); ok {
				out = append(out, p.processAttachment(conversationID, msg, info))
				continue
			}

			out = append(out, providers.Message{
				Role:    msg.Role,
				Content: providers.TextContent(p.withFollowUpContext(conversationID, msg.Content)),
			})
			continue
		}

		out = append(out, providers.Message{
			Role:    msg.Role,
			Content: providers.TextContent(msg.Content),
		})
	}

	return out
}

// processAttachment emits the two-part content for a message with an
// attachment and, for images, kicks off background summarization.
func (p *Processor) processAttachment(conversationID string, msg *RawMessage, info fileInfo) providers.Message {
	// Inline data URIs are carried by the image part; strip them from the
	// caption text.
	text := strings.TrimSpace(dataURIPattern.ReplaceAllString(msg.Content, ""))
	if text == "" {
		text = defaultPromptFor(info.MimeType)
	}

	if strings.HasPrefix(info.MimeType, "image/") {
		p.describeAsync(conversationID, info.URL)
	}

	return providers.Message{
		Role: msg.Role,
		Content: providers.PartsContent(
			providers.ContentPart{Type: providers.PartText, Text: text},
			providers.ContentPart{Type: providers.PartImageURL, ImageURL: info.URL},
		),
	}
}

// describeAsync summarizes the image in the background and stores the
// result. Failures are logged and otherwise ignored.
func (p *Processor) describeAsync(conversationID, imageURL string) {
	if p.describer == nil || p.store == nil || conversationID == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.describeTimeout)
		defer cancel()

		summary, err := p.describer.DescribeImage(ctx, imageURL)
		if err != nil {
			slog.Debug("image summarization failed",
				"conversation_id", conversationID,
				"error", err,
			)
			return
		}

		p.store.Put(conversationID, summary)
		slog.Debug("image context stored",
			"conversation_id", conversationID,
			"summary_length", len(summary),
		)
	}()
}

// withFollowUpContext appends the cached image summary to short
// follow-up questions.
func (p *Processor) withFollowUpContext(conversationID, content string) string {
	if p.store == nil || conversationID == "" || !isFollowUpQuestion(content) {
		return content
	}

	summary, ok := p.store.Latest(conversationID)
	if !ok {
		return content
	}

	return content + "\n\n[Context from previous image: " + summary + "]"
}

// isFollowUpQuestion reports whether the text looks like a short
// follow-up to a previous turn.
func isFollowUpQuestion(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}

	for _, pattern := range followUpPatterns {
		if pattern.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// fileInfo describes a resolved attachment.
type fileInfo struct {
	URL      string
	MimeType string
}

var dataURIPattern = regexp.MustCompile(`data:([^;]+);base64,[A-Za-z0-9+/=]+`)

// extractFileInfo resolves the attachment carried by a message, from the
// fileUrl/fileType fields or an inline data URI in the content. Malformed
// or absent attachment info returns ok=false and the message is treated
// as plain text.
func extractFileInfo(msg *RawMessage) (fileInfo, bool) {
	if msg.FileURL != "" {
		mime := msg.FileType
		if mime == "" {
			mime = mimeTypeFromURL(msg.FileURL)
		}
		return fileInfo{URL: msg.FileURL, MimeType: mime}, true
	}

	if match := dataURIPattern.FindStringSubmatch(msg.Content); match != nil {
		return fileInfo{URL: match[0], MimeType: match[1]}, true
	}

	return fileInfo{}, false
}

// mimeTypeFromURL infers a MIME type from a data URI or file extension.
func mimeTypeFromURL(url string) string {
	if strings.HasPrefix(url, "data:") {
		if meta, _, found := strings.Cut(strings.TrimPrefix(url, "data:"), ";"); found && meta != "" {
			return meta
		}
		return "unknown"
	}

	idx := strings.LastIndex(url, ".")
	if idx < 0 {
		return "unknown"
	}

	switch strings.ToLower(url[idx+1:]) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "pdf":
		return "application/pdf"
	default:
		return "unknown"
	}
}

// defaultPromptFor substitutes text when an attachment arrives without a
// caption.
func defaultPromptFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/png":
		return defaultImagePrompt
	default:
		return defaultFilePrompt
	}
}
