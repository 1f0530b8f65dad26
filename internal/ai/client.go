// Package ai wraps the two generative calls the portal makes: ranking match
// candidates for an item and drawing an illustration for reports without a photo.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var (
	// ErrInvalidModelResponse is returned when the model output fails schema validation.
	ErrInvalidModelResponse = errors.New("model response failed validation")
	// ErrNoImage is returned when the image model answers without an image part.
	ErrNoImage = errors.New("model returned no image")
	// ErrUnavailable is returned by the disabled generator when no API key is configured.
	ErrUnavailable = errors.New("generative AI is not configured")
)

// ContentGenerator is the part of *genai.Models this package needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGenerator creates a Gemini client and returns its Models service.
// An empty apiKey yields a generator that always fails with ErrUnavailable.
func NewGenerator(ctx context.Context, apiKey string) (ContentGenerator, error) {
	if apiKey == "" {
		return disabledGenerator{}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client.Models, nil
}

type disabledGenerator struct{}

func (disabledGenerator) GenerateContent(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, ErrUnavailable
}

// responseText concatenates the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

func ptr[T any](v T) *T { return &v }
