package claude

import (
	"context"
	"errors"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/promptlens/promptlens/internal/describe"
)

// DefaultModel is the Claude model used when none is configured.
const DefaultModel = "claude-3-5-haiku-latest"

// maxTokens bounds the reply; a single descriptive prompt is well under this.
const maxTokens = 1024

// Claude generates descriptive prompts with the Anthropic Messages API.
type Claude struct {
	client *anthropic.Client
	model  string
}

func New(apiKey, model string, opts ...anthropic.ClientOption) *Claude {
	if model == "" {
		model = DefaultModel
	}
	return &Claude{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

// Describe sends one vision request and returns the trimmed prompt text.
func (c *Claude) Describe(ctx context.Context, imageData []byte, mediaType string) (string, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(
						anthropic.NewMessageContentSource(
							anthropic.MessagesContentSourceTypeBase64,
							mediaType,
							imageData,
						)),
					anthropic.NewTextMessageContent(describe.InstructionPrompt),
				},
			},
		},
	})
	if err != nil {
		return "", classify(err)
	}

	text := strings.TrimSpace(resp.GetFirstContentText())
	if text == "" {
		return "", describe.NewEmptyResponseError("Empty response from Claude API")
	}
	return text, nil
}

func classify(err error) *describe.Error {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		return describe.NewServiceError("Claude API Error: "+apiErr.Message, err)
	}
	return describe.NewServiceError("Claude API Error: "+err.Error(), err)
}
