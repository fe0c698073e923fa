package openaichat

import (
	"context"
	"fmt"
	"strings"

	"venty-hq/relay/pkg/providers"
)

// Client is a providers.Caller speaking the chat-completions protocol.
type Client struct {
	*providers.HTTPCaller
	vision bool
}

// NewClient creates a chat-completions client. vision controls whether
// multipart image content is sent through or flattened to text.
func NewClient(config providers.CallerConfig, vision bool) *Client {
	return &Client{
		HTTPCaller: providers.NewHTTPCaller(config),
		vision:     vision,
	}
}

// Complete performs a buffered chat completion.
func (c *Client) Complete(ctx context.Context, model string, messages []providers.Message) (*providers.ChatResponse, error) {
	req := transformRequest(model, messages, c.vision, false)

	var resp ChatResponse
	raw, err := c.DoJSON(ctx, "POST", c.completionsURL(), req, &resp, c.headers())
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

// Stream performs a streaming chat completion, decoding SSE chunks as
// they arrive.
func (c *Client) Stream(ctx context.Context, model string, messages []providers.Message) (providers.StreamReader, error) {
	req := transformRequest(model, messages, c.vision, true)
	return newStreamReader(ctx, c.HTTPCaller, c.completionsURL(), req, c.headers())
}

func (c *Client) completionsURL() string {
	return fmt.Sprintf("%s/chat/completions", strings.TrimSuffix(c.Config().BaseURL, "/"))
}

func (c *Client) headers() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if key := c.Config().APIKey; key != "" {
		headers["Authorization"] = "Bearer " + key
	}
	return headers
}
