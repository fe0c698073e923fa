package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// maxErrorBodyBytes bounds how much of an upstream error body is kept for
// diagnostics.
const maxErrorBodyBytes = 4096

// HTTPCaller is the base implementation shared by the wire-protocol
// adapters. It owns the pooled HTTP client, performs cancellation checks
// around each call, and classifies failures. Concrete adapters embed it.
//
// Unlike a general-purpose HTTP client there is no retry here: a failed
// call is reported once and the router moves to the next candidate.
type HTTPCaller struct {
	config CallerConfig
	client *http.Client
}

// NewHTTPCaller creates the base caller with a pooled HTTP transport.
func NewHTTPCaller(config CallerConfig) *HTTPCaller {
	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPCaller{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

// Name returns the provider name this caller is bound to.
func (c *HTTPCaller) Name() string {
	return c.config.Name
}

// Config returns the caller configuration.
func (c *HTTPCaller) Config() CallerConfig {
	return c.config
}

// Do performs one HTTP request. The caller owns the response body on
// success.
//
// Cancellation handling: if ctx is already done no request is made and a
// CancellationError is returned; if ctx is cancelled mid-call the in-flight
// request is aborted and the resulting transport error is reported as a
// CancellationError, distinguishable from provider failure.
func (c *HTTPCaller) Do(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, &CancellationError{Provider: c.config.Name, Cause: err}
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("sending request to provider",
		"provider", c.config.Name,
		"method", method,
		"url", url,
	)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &CancellationError{Provider: c.config.Name, Cause: ctx.Err()}
		}
		return nil, &ProviderError{
			Provider: c.config.Name,
			Kind:     KindTransport,
			Message:  err.Error(),
			Cause:    err,
		}
	}

	// The call may have raced with cancellation; prefer reporting the
	// cancellation so the router does not fail over.
	if ctx.Err() != nil {
		resp.Body.Close()
		return nil, &CancellationError{Provider: c.config.Name, Cause: ctx.Err()}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	resp.Body.Close()

	return nil, &ProviderError{
		Provider:   c.config.Name,
		StatusCode: resp.StatusCode,
		Kind:       ClassifyStatus(resp.StatusCode),
		Message:    string(errorBody),
	}
}

// DoJSON performs one JSON request and decodes the response body into
// respBody. The raw body is returned alongside for diagnostics.
func (c *HTTPCaller) DoJSON(ctx context.Context, method, url string, reqBody, respBody interface{}, headers map[string]string) (json.RawMessage, error) {
	var bodyBytes []byte
	var err error
	if reqBody != nil {
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := c.Do(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &CancellationError{Provider: c.config.Name, Cause: ctx.Err()}
		}
		return nil, &ParseError{
			Provider: c.config.Name,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if respBody != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, respBody); err != nil {
			return nil, &ParseError{
				Provider:    c.config.Name,
				RawResponse: truncate(string(raw), maxErrorBodyBytes),
				Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
			}
		}
	}

	return raw, nil
}

// Close releases pooled connections.
func (c *HTTPCaller) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
