package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"venty-hq/relay/pkg/providers"
	"venty-hq/relay/pkg/proxy"
	"venty-hq/relay/pkg/routing"
)

// ChatStream serves POST /v1/chat/stream: a streamed completion relayed
// as Server-Sent Events.
//
// Each decoded upstream delta is relayed as `data: {"content": ...}`.
// Provider end-of-stream sentinels are filtered, never relayed. If the
// caller cancels mid-stream, one final frame with a cancelled marker is
// sent before the stream closes. Failover happens only before the
// upstream stream opens; open-stream errors end the relay.
func (h *Handler) ChatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	result, err := h.router.Stream(r.Context(), &routing.Request{
		ConversationID: req.ConversationID,
		VisionHint:     req.VisionHint,
		Messages:       req.Messages,
	})
	if err != nil {
		h.writeStreamError(w, r, err)
		return
	}
	defer result.Reader.Close()

	proxy.SetSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	var fullMessage strings.Builder
	cancelled := false

	for {
		delta, err := result.Reader.Read(r.Context())
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if providers.IsCancellation(err) {
				cancelled = true
				_ = proxy.WriteSSEEvent(w, &proxy.StreamEvent{
					Content:   proxy.CancelledMarker,
					Cancelled: true,
				})
				break
			}
			slog.ErrorContext(r.Context(), "stream relay failed",
				"provider", result.Provider,
				"error", err,
			)
			break
		}

		if delta.Text == "" {
			continue
		}

		fullMessage.WriteString(delta.Text)
		if err := proxy.WriteSSEEvent(w, &proxy.StreamEvent{Content: delta.Text}); err != nil {
			slog.DebugContext(r.Context(), "client disconnected during stream", "error", err)
			return
		}
	}

	if !cancelled && fullMessage.Len() > 0 {
		h.persistExchange(req.ConversationID, lastUserMessage(req.Messages), fullMessage.String(), result.Provider, result.Model)
	}
}

// writeStreamError maps router errors to responses sent before the
// stream opens. Unlike the buffered endpoint, exhaustion is always a 503
// here: a client consuming SSE needs a status code, not an apology body.
func (h *Handler) writeStreamError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case providers.IsCancellation(err):
		slog.InfoContext(r.Context(), "stream request cancelled by caller")
		_ = proxy.WriteErrorResponse(w, StatusClientClosedRequest, proxy.ErrorTypeCancelled, "request cancelled")

	case errors.Is(err, routing.ErrAllProvidersFailed) || errors.Is(err, routing.ErrNoProvidersAvailable):
		slog.ErrorContext(r.Context(), "stream exhausted all providers", "error", err)
		_ = proxy.WriteErrorResponse(w, http.StatusServiceUnavailable, proxy.ErrorTypeUnavailable, "all AI services are currently unavailable")

	default:
		slog.ErrorContext(r.Context(), "stream failed", "error", err)
		_ = proxy.WriteErrorResponse(w, http.StatusInternalServerError, proxy.ErrorTypeInternal, "an internal error occurred")
	}
}
