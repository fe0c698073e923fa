package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"venty-hq/relay/pkg/providers"
	"venty-hq/relay/pkg/proxy"
	"venty-hq/relay/pkg/routing"
)

// Chat serves POST /v1/chat: a buffered completion.
//
// On full provider exhaustion the response depends on the configured
// degradation policy: HTTP 200 with a static apology message, or HTTP
// 503 with a structured error. Cancellation maps to 499.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	result, err := h.router.Complete(r.Context(), &routing.Request{
		ConversationID: req.ConversationID,
		VisionHint:     req.VisionHint,
		Messages:       req.Messages,
	})
	if err != nil {
		h.writeChatError(w, r, err)
		return
	}

	h.persistExchange(req.ConversationID, lastUserMessage(req.Messages), result.Content, result.Provider, result.Model)

	_ = proxy.WriteJSONResponse(w, http.StatusOK, &proxy.ChatResponse{
		Message:        result.Content,
		Provider:       result.Provider,
		Model:          result.Model,
		ConversationID: req.ConversationID,
	})
}

// decodeChatRequest parses and validates the request body, writing a 400
// on failure.
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (*proxy.ChatRequest, bool) {
	var req proxy.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = proxy.WriteErrorResponse(w, http.StatusBadRequest, proxy.ErrorTypeInvalidRequest, "invalid request body")
		return nil, false
	}

	if len(req.Messages) == 0 {
		_ = proxy.WriteErrorResponse(w, http.StatusBadRequest, proxy.ErrorTypeInvalidRequest, "messages cannot be empty")
		return nil, false
	}

	return &req, true
}

// writeChatError maps router errors to buffered responses. Provider
// detail never reaches the client.
func (h *Handler) writeChatError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case providers.IsCancellation(err):
		slog.InfoContext(r.Context(), "request cancelled by caller")
		_ = proxy.WriteErrorResponse(w, StatusClientClosedRequest, proxy.ErrorTypeCancelled, "request cancelled")

	case errors.Is(err, routing.ErrAllProvidersFailed) || errors.Is(err, routing.ErrNoProvidersAvailable):
		slog.ErrorContext(r.Context(), "completion exhausted all providers", "error", err)
		if h.degradeGracefully {
			_ = proxy.WriteJSONResponse(w, http.StatusOK, &proxy.ChatResponse{
				Message: h.apologyMessage,
			})
			return
		}
		_ = proxy.WriteErrorResponse(w, http.StatusServiceUnavailable, proxy.ErrorTypeUnavailable, "all AI services are currently unavailable")

	default:
		slog.ErrorContext(r.Context(), "completion failed", "error", err)
		_ = proxy.WriteErrorResponse(w, http.StatusInternalServerError, proxy.ErrorTypeInternal, "an internal error occurred")
	}
}
