package genai

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"venty-hq/relay/pkg/providers"
)

// Client is a providers.Caller speaking the generateContent protocol.
// The endpoint authenticates through a key query parameter rather than
// an Authorization header.
type Client struct {
	*providers.HTTPCaller
}

// NewClient creates a generateContent client.
func NewClient(config providers.CallerConfig) *Client {
	return &Client{HTTPCaller: providers.NewHTTPCaller(config)}
}

// Complete performs a buffered generation.
func (c *Client) Complete(ctx context.Context, model string, messages []providers.Message) (*providers.ChatResponse, error) {
	req := transformRequest(messages)

	var resp GenerateResponse
	raw, err := c.DoJSON(ctx, "POST", c.endpoint(model, "generateContent", nil), req, &resp, nil)
	if err != nil {
		return nil, err
	}

	result, err := transformResponse(c.Name(), model, &resp, raw)
	if err != nil {
		return nil, &providers.ParseError{
			Provider:    c.Name(),
			RawResponse: string(raw),
			Cause:       err,
		}
	}

	return result, nil
}

// Stream performs a streaming generation via the SSE variant of the
// endpoint.
func (c *Client) Stream(ctx context.Context, model string, messages []providers.Message) (providers.StreamReader, error) {
	req := transformRequest(messages)
	endpoint := c.endpoint(model, "streamGenerateContent", url.Values{"alt": {"sse"}})
	return newStreamReader(ctx, c.HTTPCaller, endpoint, req)
}

// endpoint builds "{base}/models/{model}:{method}?key=...".
func (c *Client) endpoint(model, method string, extra url.Values) string {
	query := url.Values{}
	for k, vs := range extra {
		query[k] = vs
	}
	if key := c.Config().APIKey; key != "" {
		query.Set("key", key)
	}

	base := strings.TrimSuffix(c.Config().BaseURL, "/")
	endpoint := fmt.Sprintf("%s/models/%s:%s", base, model, method)
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	return endpoint
}
