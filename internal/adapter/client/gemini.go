package client

import (
	"context"
	"strings"

	"claims-triage/internal/domain/entity"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"google.golang.org/genai"
)

// GeminiClient asks Gemini for a triage object using structured output.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClientFromClient(c *genai.Client, model string) *GeminiClient {
	return &GeminiClient{
		client: c,
		model:  model,
	}
}

func (g *GeminiClient) Model() string { return g.model }

func (g *GeminiClient) Generate(ctx context.Context, req entity.GenerateRequest) (*entity.GenerateResult, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   triageSchema,
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(req.ThinkingBudget),
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, entity.NewProviderFailure(errors.Wrapf(err, "gemini generate content (model %s)", g.model))
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, entity.NewSchemaMismatch(errors.New("gemini returned no structured output"))
	}
	if !json.Valid([]byte(text)) {
		return nil, entity.NewSchemaMismatch(errors.Newf("gemini output is not valid JSON: %.120q", text))
	}

	return &entity.GenerateResult{
		Output: []byte(text),
		Usage:  usageFrom(result.UsageMetadata),
	}, nil
}

// usageFrom maps the provider's token counters. The SDK decodes them as
// plain int32, so an omitted counter and a reported zero look the same and
// zero is read as not reported. The exception is the candidates counter: a
// reported total means the response was metered, so a zero there is a real
// zero-token completion.
func usageFrom(meta *genai.GenerateContentResponseUsageMetadata) *entity.ProviderUsage {
	if meta == nil {
		return nil
	}
	usage := &entity.ProviderUsage{
		InputTokens:  positive(meta.PromptTokenCount),
		OutputTokens: positive(meta.CandidatesTokenCount),
		TotalTokens:  positive(meta.TotalTokenCount),
	}
	if usage.OutputTokens == nil && usage.TotalTokens != nil {
		usage.OutputTokens = new(int)
	}
	return usage
}

func positive(n int32) *int {
	if n <= 0 {
		return nil
	}
	v := int(n)
	return &v
}

var triageSchema = &genai.Schema{
	Type:        genai.TypeObject,
	Description: "Insurance claim summary, triage decision, missing info questions, and confidence score.",
	Properties: map[string]*genai.Schema{
		"summary_bullets": stringList(),
		"triage": {
			Type: genai.TypeString,
			Enum: []string{
				string(entity.TriageFastTrack),
				string(entity.TriageAdjusterReview),
				string(entity.TriageFraudReview),
			},
		},
		"rationale_bullets":      stringList(),
		"missing_info_questions": stringList(),
		"confidence": {
			Type:    genai.TypeNumber,
			Minimum: genai.Ptr(0.0),
			Maximum: genai.Ptr(1.0),
		},
	},
	Required:         []string{"summary_bullets", "triage", "rationale_bullets", "missing_info_questions", "confidence"},
	PropertyOrdering: []string{"summary_bullets", "triage", "rationale_bullets", "missing_info_questions", "confidence"},
}

func stringList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
}
