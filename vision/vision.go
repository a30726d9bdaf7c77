// Package vision reads page images with a pretrained document-understanding
// model hosted on Vertex AI.
package vision

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

const systemPrompt = "You are a document parser. Your task is to read a scanned or rendered page of a document and transcribe its content as plain text. Accuracy, detail, and information preservation are of utmost importance."

const pagePrompt = `You will be provided with an image of a single document page.

Transcribe the page content following these instructions:

Text: Transcribe all text content in reading order.
Lists: Keep list structure, one item per line.
Tables: Transcribe tables row by row, cells separated by " | ".
Images and figures: Replace each with a short description of its content.
Headers and Footers: Ignore page numbers and repeated header/footer noise.

Return ONLY the transcribed content. Do not include any preamble.`

// Client sends page images to a generative model and returns transcribed
// text. Safe for concurrent use.
type Client struct {
	model *genai.GenerativeModel
	base  *genai.Client
	name  string
}

// NewClient creates a vision client for the given project, region, and
// model name.
func NewClient(ctx context.Context, projectID, region, modelName string) (*Client, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("vision: projectID and region cannot be empty")
	}

	base, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := base.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.0),
	}

	return &Client{model: model, base: base, name: modelName}, nil
}

// ModelName returns the configured model name.
func (c *Client) ModelName() string { return c.name }

// ReadPage transcribes a single PNG page image.
func (c *Client) ReadPage(ctx context.Context, image []byte) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.ImageData("png", image), genai.Text(pagePrompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := responseText(resp)
	if isRefusal(text) {
		return "", fmt.Errorf("model refused to transcribe page")
	}
	return text, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	if c.base != nil {
		return c.base.Close()
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}

// isRefusal detects the handful of phrasings the model uses when it
// declines instead of transcribing.
func isRefusal(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range []string{
		"i am unable to",
		"i cannot fulfill",
		"i cannot provide",
		"as a large language model",
	} {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
