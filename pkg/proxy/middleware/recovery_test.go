package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecoveryConvertsPanicTo500(t *testing.T) {
	wrapped := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("database exploded: secret dsn")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var body struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body.Error.Type != "internal_error" {
		t.Errorf("error type = %q, want internal_error", body.Error.Type)
	}
	// The panic value must not leak to the client.
	if strings.Contains(w.Body.String(), "secret dsn") {
		t.Error("panic detail leaked into response body")
	}
}

func TestRecoveryPassesThroughNormalRequests(t *testing.T) {
	wrapped := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTeapot)
	}
}
