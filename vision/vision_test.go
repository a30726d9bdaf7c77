package vision

import (
	"context"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
)

func TestNewClientRequiresProject(t *testing.T) {
	_, err := NewClient(context.Background(), "", "us-central1", "gemini-1.5-pro")
	assert.Error(t, err)

	_, err = NewClient(context.Background(), "my-project", "", "gemini-1.5-pro")
	assert.Error(t, err)
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []genai.Part{genai.Text("Hello "), genai.Text("World\n")},
				},
			},
		},
	}
	assert.Equal(t, "Hello World", responseText(resp))
}

func TestResponseTextEmpty(t *testing.T) {
	assert.Empty(t, responseText(nil))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{}))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{}},
	}))
}

func TestIsRefusal(t *testing.T) {
	assert.True(t, isRefusal("I am unable to read this page."))
	assert.True(t, isRefusal("As a large language model, I cannot..."))
	assert.False(t, isRefusal("Quarterly report, page 1 of 12"))
	assert.False(t, isRefusal(""))
}
