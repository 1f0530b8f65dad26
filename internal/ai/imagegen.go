package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"campustrace-backend-go/internal/imaging"
)

// ImageSynthesizer draws an illustrative photo for an item reported without one.
type ImageSynthesizer struct {
	gen   ContentGenerator
	model string
	refs  *ReferencePhotos
	log   *zap.Logger
}

// NewImageSynthesizer creates an ImageSynthesizer using the given image model.
func NewImageSynthesizer(gen ContentGenerator, model string, refs *ReferencePhotos, log *zap.Logger) *ImageSynthesizer {
	return &ImageSynthesizer{gen: gen, model: model, refs: refs, log: log}
}

// Synthesize returns a data URI of a generated image matching the item.
// The category's reference photo is sent alongside the prompt as a style
// guide; if it cannot be loaded the request goes out text-only.
func (s *ImageSynthesizer) Synthesize(ctx context.Context, title, description, category string) (string, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" || strings.TrimSpace(category) == "" {
		return "", errors.New("title, description and category are required")
	}

	parts := []*genai.Part{genai.NewPartFromText(imagePrompt(title, description, category))}
	if s.refs != nil {
		mime, data, err := s.refs.Get(ctx, category)
		if err != nil {
			s.log.Warn("Reference photo unavailable, generating without it",
				zap.String("category", category), zap.Error(err))
		} else {
			parts = append(parts, genai.NewPartFromBytes(data, mime))
		}
	}

	resp, err := s.gen.GenerateContent(ctx, s.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	blob := firstImage(resp)
	if blob == nil {
		return "", ErrNoImage
	}
	mime := blob.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	uri := imaging.EncodeDataURI(mime, blob.Data)
	if small, err := imaging.NormalizeDataURI(uri); err == nil {
		return small, nil
	}
	return uri, nil
}

func imagePrompt(title, description, category string) string {
	return fmt.Sprintf("Create a realistic photo of a single %s item for a campus lost-and-found listing. "+
		"Item: %s. Details: %s. "+
		"Use the attached reference photo only as a guide for lighting and framing. "+
		"Plain background, no people, no text or watermarks.",
		category, title, description)
}

func firstImage(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData
			}
		}
	}
	return nil
}
