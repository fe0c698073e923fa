package handlers

import (
	"net/http"

	"venty-hq/relay/pkg/proxy"
)

// healthResponse is the body of the health endpoint.
type healthResponse struct {
	Status string `json:"status"`
}

// Health serves GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	_ = proxy.WriteJSONResponse(w, http.StatusOK, &healthResponse{Status: "ok"})
}
