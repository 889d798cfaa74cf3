package describe

import "context"

// InstructionPrompt is the shared instruction text sent by every backend.
const InstructionPrompt = `You are an expert prompt writer for AI image generation.
Look at this image and write a single descriptive prompt that captures it:
composition, dominant colors, lighting, main subject, and overall mood.
Be concise but evocative. Respond with the prompt text only, no preamble,
no quotes, no markdown.`

// Describer turns an image into a descriptive generation prompt. Exactly one
// outbound request is made per call; there are no retries and no streaming.
type Describer interface {
	// Describe returns the trimmed prompt text for the given image bytes.
	// A failure is always a *Error classifying what went wrong.
	Describe(ctx context.Context, imageData []byte, mediaType string) (string, error)
}
