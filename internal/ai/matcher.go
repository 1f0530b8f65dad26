package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"campustrace-backend-go/internal/imaging"
	"campustrace-backend-go/internal/models"
)

// MaxCandidates bounds the candidate list sent in a single request.
const MaxCandidates = 20

// Matcher asks a text model which candidates plausibly match a subject item.
type Matcher struct {
	gen      ContentGenerator
	model    string
	validate *validator.Validate
	log      *zap.Logger
}

// NewMatcher creates a Matcher using the given model name.
func NewMatcher(gen ContentGenerator, model string, log *zap.Logger) *Matcher {
	return &Matcher{
		gen:      gen,
		model:    model,
		validate: validator.New(),
		log:      log,
	}
}

type matchResponse struct {
	MatchedItems []rawMatch `json:"matchedItems" validate:"required,dive"`
}

type rawMatch struct {
	ID     string   `json:"id" validate:"required"`
	Reason string   `json:"reason" validate:"required"`
	Score  *float64 `json:"score" validate:"omitempty,gte=0,lte=1"`
}

// Match returns the candidates the model considers likely matches for subject.
// Suggestions whose id is not among candidates are dropped. An empty candidate
// list returns an empty result without calling the model.
func (m *Matcher) Match(ctx context.Context, subject models.MatchCandidate, candidates []models.MatchCandidate) ([]models.MatchSuggestion, error) {
	if err := m.validate.Struct(subject); err != nil {
		return nil, fmt.Errorf("invalid subject item: %w", err)
	}
	if len(candidates) == 0 {
		return []models.MatchSuggestion{}, nil
	}
	if len(candidates) > MaxCandidates {
		return nil, fmt.Errorf("too many candidates: %d (max %d)", len(candidates), MaxCandidates)
	}
	known := make(map[string]bool, len(candidates))
	for i := range candidates {
		if err := m.validate.Struct(candidates[i]); err != nil {
			return nil, fmt.Errorf("invalid candidate %d: %w", i, err)
		}
		known[candidates[i].ID] = true
	}

	prompt, err := buildMatchPrompt(subject, candidates)
	if err != nil {
		return nil, err
	}
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if mime, data, err := imaging.ParseDataURI(subject.PhotoURL); err == nil {
		parts = append(parts, genai.NewPartFromBytes(data, mime))
	}

	resp, err := m.gen.GenerateContent(ctx, m.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			Temperature:      ptr[float32](0.2),
			ResponseMIMEType: "application/json",
			ResponseSchema:   matchSchema(),
		})
	if err != nil {
		return nil, fmt.Errorf("match generation failed: %w", err)
	}

	parsed, err := m.parse(responseText(resp))
	if err != nil {
		return nil, err
	}

	out := make([]models.MatchSuggestion, 0, len(parsed.MatchedItems))
	seen := make(map[string]bool, len(parsed.MatchedItems))
	for _, r := range parsed.MatchedItems {
		if !known[r.ID] || seen[r.ID] {
			m.log.Debug("Dropping match suggestion", zap.String("id", r.ID))
			continue
		}
		seen[r.ID] = true
		out = append(out, models.MatchSuggestion{ID: r.ID, Reason: r.Reason, Score: r.Score})
	}
	return out, nil
}

func (m *Matcher) parse(text string) (*matchResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidModelResponse)
	}
	var parsed matchResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelResponse, err)
	}
	if err := m.validate.Struct(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelResponse, err)
	}
	return &parsed, nil
}

func buildMatchPrompt(subject models.MatchCandidate, candidates []models.MatchCandidate) (string, error) {
	// Photos travel as inline parts, never inside the JSON.
	strip := func(c models.MatchCandidate) models.MatchCandidate {
		c.PhotoURL = ""
		return c
	}
	subjectJSON, err := json.Marshal(strip(subject))
	if err != nil {
		return "", fmt.Errorf("marshal subject: %w", err)
	}
	stripped := make([]models.MatchCandidate, len(candidates))
	for i, c := range candidates {
		stripped[i] = strip(c)
	}
	candidatesJSON, err := json.Marshal(stripped)
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You help a campus lost-and-found desk reunite owners with their belongings.\n")
	fmt.Fprintf(&sb, "The subject item below was reported as %s. ", subject.Status)
	sb.WriteString("Compare it with each candidate and return only the candidates that could plausibly be the same physical object. ")
	sb.WriteString("Weigh description, category and location. For each match give a one-sentence reason and a confidence score between 0 and 1. ")
	sb.WriteString("Only use ids from the candidate list. Return an empty list if nothing matches.\n\n")
	sb.WriteString("Subject item:\n")
	sb.Write(subjectJSON)
	sb.WriteString("\n\nCandidates:\n")
	sb.Write(candidatesJSON)
	if imaging.IsDataURI(subject.PhotoURL) {
		sb.WriteString("\n\nA photo of the subject item is attached.")
	}
	return sb.String(), nil
}

func matchSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"matchedItems": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":     {Type: genai.TypeString, Description: "id of the matching candidate"},
						"reason": {Type: genai.TypeString, Description: "why the candidate matches"},
						"score":  {Type: genai.TypeNumber, Minimum: ptr(0.0), Maximum: ptr(1.0)},
					},
					Required: []string{"id", "reason"},
				},
			},
		},
		Required: []string{"matchedItems"},
	}
}
