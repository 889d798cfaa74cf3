package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/promptlens/promptlens/internal/describe"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Gemini generates descriptive prompts with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// New creates a Gemini describer. The API key is validated at startup by the
// caller; an empty key still fails here when the client is constructed.
func New(ctx context.Context, apiKey, model string) (*Gemini, error) {
	return newWithConfig(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

func newWithConfig(ctx context.Context, cc *genai.ClientConfig, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{client: client, model: model}, nil
}

// Describe sends one vision request and returns the trimmed prompt text.
func (g *Gemini) Describe(ctx context.Context, imageData []byte, mediaType string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(describe.InstructionPrompt),
		{InlineData: &genai.Blob{Data: imageData, MIMEType: mediaType}},
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", classify(err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil ||
		len(result.Candidates[0].Content.Parts) == 0 {
		return "", describe.NewEmptyResponseError("Empty response from Gemini API")
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", describe.NewEmptyResponseError("Empty response from Gemini API")
	}
	return text, nil
}

// classify maps a genai failure to the shared error taxonomy. API errors
// carry the service's own message; anything else is reported with the
// transport error text.
func classify(err error) *describe.Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return describe.NewServiceError("Gemini API Error: "+apiErr.Message, err)
	}
	return describe.NewServiceError("Gemini API Error: "+err.Error(), err)
}
