// Package handlers implements the gateway's HTTP endpoints.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"venty-hq/relay/pkg/config"
	"venty-hq/relay/pkg/processing"
	"venty-hq/relay/pkg/providers"
	"venty-hq/relay/pkg/routing"
	"venty-hq/relay/pkg/storage"
)

// StatusClientClosedRequest is the non-standard status reported when the
// caller cancels a request.
const StatusClientClosedRequest = 499

// maxStoredContentLength caps how much of a message body is persisted.
const maxStoredContentLength = 2000

// persistTimeout bounds transcript writes, which run on a detached
// context so a disconnecting client cannot abort them.
const persistTimeout = 5 * time.Second

// CompletionRouter is the routing surface the handlers consume.
// *routing.Router satisfies it; tests and the hot-reload wrapper provide
// their own.
type CompletionRouter interface {
	Complete(ctx context.Context, req *routing.Request) (*routing.Result, error)
	Stream(ctx context.Context, req *routing.Request) (*routing.StreamResult, error)
}

// Handler serves the chat endpoints.
type Handler struct {
	router CompletionRouter

	// store is nil when persistence is disabled (guest mode)
	store *storage.TranscriptStore

	degradeGracefully bool
	apologyMessage    string
}

// New creates the handler set.
func New(router CompletionRouter, store *storage.TranscriptStore, cfg config.GatewayConfig) *Handler {
	degrade := true
	if cfg.DegradeGracefully != nil {
		degrade = *cfg.DegradeGracefully
	}

	return &Handler{
		router:            router,
		store:             store,
		degradeGracefully: degrade,
		apologyMessage:    cfg.ApologyMessage,
	}
}

// Register mounts the chat and health endpoints on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/chat", h.Chat)
	mux.HandleFunc("POST /v1/chat/stream", h.ChatStream)
	mux.HandleFunc("GET /healthz", h.Health)
}

// persistExchange writes the final user message and the assistant reply
// to the transcript store. Best effort: failures are logged, never
// surfaced to the client.
func (h *Handler) persistExchange(conversationID string, userMsg *processing.RawMessage, assistantContent, provider, model string) {
	if h.store == nil || conversationID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if userMsg != nil {
		_, err := h.store.AppendMessage(ctx, storage.StoredMessage{
			ConversationID: conversationID,
			Role:           providers.RoleUser,
			Content:        truncateForStorage(userMsg.Content),
		})
		if err != nil {
			slog.Warn("failed to persist user message",
				"conversation_id", conversationID,
				"error", err,
			)
		}
	}

	_, err := h.store.AppendMessage(ctx, storage.StoredMessage{
		ConversationID: conversationID,
		Role:           providers.RoleAssistant,
		Content:        truncateForStorage(assistantContent),
		Provider:       provider,
		Model:          model,
	})
	if err != nil {
		slog.Warn("failed to persist assistant message",
			"conversation_id", conversationID,
			"error", err,
		)
	}
}

func truncateForStorage(s string) string {
	if len(s) <= maxStoredContentLength {
		return s
	}
	return s[:maxStoredContentLength]
}

// lastUserMessage returns the final user message of the request, if any.
func lastUserMessage(messages []processing.RawMessage) *processing.RawMessage {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == providers.RoleUser {
			return &messages[i]
		}
	}
	return nil
}
