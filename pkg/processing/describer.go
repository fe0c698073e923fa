package processing

import (
	"context"

	"venty-hq/relay/pkg/providers"
)

// DescriberClient implements ImageDescriber over a vision-capable
// provider caller with a fixed model.
type DescriberClient struct {
	Caller providers.Caller
	Model  string
}

// DescribeImage asks the vision provider for a reusable textual summary
// of the image.
func (d *DescriberClient) DescribeImage(ctx context.Context, imageURL string) (string, error) {
	messages := []providers.Message{
		{
			Role: providers.RoleUser,
			Content: providers.PartsContent(
				providers.ContentPart{Type: providers.PartText, Text: describePrompt},
				providers.ContentPart{Type: providers.PartImageURL, ImageURL: imageURL},
			),
		},
	}

	resp, err := d.Caller.Complete(ctx, d.Model, messages)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
