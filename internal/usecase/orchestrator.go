package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"claims-triage/internal/domain/entity"
	"claims-triage/internal/domain/repository"
	"claims-triage/internal/domain/schema"

	"github.com/cockroachdb/errors"
)

const (
	PromptVersion         = "v1"
	DefaultThinkingBudget = 512

	// One retry, and only after a schema mismatch.
	maxTriageAttempts = 2
)

type TriageOrchestrator struct {
	generator      repository.TriageGenerator
	thinkingBudget int32
	logger         *slog.Logger
}

func NewTriageOrchestrator(gen repository.TriageGenerator, thinkingBudget int32, logger *slog.Logger) *TriageOrchestrator {
	if thinkingBudget <= 0 {
		thinkingBudget = DefaultThinkingBudget
	}
	return &TriageOrchestrator{generator: gen, thinkingBudget: thinkingBudget, logger: logger}
}

// Triage turns one claim into a validated triage result. Failures come back
// as *entity.AppError with code AI_ERROR and a SCHEMA_VALIDATION_FAILED or
// PROVIDER_ERROR reason.
func (o *TriageOrchestrator) Triage(ctx context.Context, in entity.TriageInput) (*entity.TriageResult, error) {
	o.logger.InfoContext(ctx, "triage start",
		"claim_id", in.ClaimID,
		"claim_type", in.ClaimType,
		"amount", in.EstimatedAmount,
		"attachments", len(in.Attachments))

	req := entity.GenerateRequest{Prompt: BuildPrompt(in), ThinkingBudget: o.thinkingBudget}
	model := o.generator.Model()

	for attempt := 1; attempt <= maxTriageAttempts; attempt++ {
		o.logger.DebugContext(ctx, "triage attempt", "attempt", attempt, "model", model, "prompt_version", PromptVersion)

		startedAt := time.Now()
		resp, usage, err := o.attempt(ctx, req)
		latency := time.Since(startedAt).Milliseconds()

		if err == nil {
			o.logger.InfoContext(ctx, "triage ok", "claim_id", in.ClaimID, "latency_ms", latency, "triage", resp.Triage)
			tokenUsage := normalizeUsage(usage)
			if tokenUsage != nil {
				o.logger.DebugContext(ctx, "triage token usage",
					"claim_id", in.ClaimID,
					"prompt", intOrNA(tokenUsage.Prompt),
					"completion", intOrNA(tokenUsage.Completion),
					"total", intOrNA(tokenUsage.Total))
			}
			return &entity.TriageResult{
				Response:      resp,
				Model:         model,
				PromptVersion: PromptVersion,
				LatencyMs:     latency,
				TokenUsage:    tokenUsage,
			}, nil
		}

		if entity.IsSchemaMismatch(err) {
			if attempt < maxTriageAttempts {
				o.logger.WarnContext(ctx, "triage output failed schema validation, retrying once",
					"claim_id", in.ClaimID, "error", err)
				continue
			}
			o.logger.ErrorContext(ctx, "triage output failed schema validation",
				"claim_id", in.ClaimID, "attempt", attempt, "error", err)
			return nil, entity.NewAIError(entity.ReasonSchemaValidationFailed, err)
		}

		o.logger.ErrorContext(ctx, "triage provider error",
			"claim_id", in.ClaimID, "attempt", attempt, "error", fmt.Sprintf("%+v", err))
		return nil, entity.NewAIError(entity.ReasonProviderError, err)
	}

	return nil, entity.NewAIError(entity.ReasonProviderError, errors.New("triage attempts exhausted"))
}

// attempt calls the generator once and re-validates whatever it returned.
func (o *TriageOrchestrator) attempt(ctx context.Context, req entity.GenerateRequest) (entity.ClaimAiResponse, *entity.ProviderUsage, error) {
	result, err := o.generator.Generate(ctx, req)
	if err != nil {
		var failure *entity.GenerationFailure
		if !errors.As(err, &failure) {
			err = entity.NewProviderFailure(err)
		}
		return entity.ClaimAiResponse{}, nil, err
	}
	if result == nil {
		return entity.ClaimAiResponse{}, nil, entity.NewSchemaMismatch(errors.New("generator returned no result"))
	}

	resp, err := schema.ValidateAIResponse(result.Output)
	if err != nil {
		return entity.ClaimAiResponse{}, nil, entity.NewSchemaMismatch(err)
	}
	return resp, result.Usage, nil
}

func normalizeUsage(u *entity.ProviderUsage) *entity.TokenUsage {
	if u == nil || (u.InputTokens == nil && u.OutputTokens == nil && u.TotalTokens == nil) {
		return nil
	}
	return &entity.TokenUsage{Prompt: u.InputTokens, Completion: u.OutputTokens, Total: u.TotalTokens}
}

func intOrNA(v *int) string {
	if v == nil {
		return "n/a"
	}
	return strconv.Itoa(*v)
}

// BuildPrompt renders the triage instructions and claim block. The output
// depends only on its input.
func BuildPrompt(in entity.TriageInput) string {
	attachments := "None"
	if len(in.Attachments) > 0 {
		lines := make([]string, len(in.Attachments))
		for i, url := range in.Attachments {
			lines[i] = "- " + url
		}
		attachments = strings.Join(lines, "\n")
	}

	var b strings.Builder
	b.WriteString("You are an insurance claims triage assistant.\n")
	b.WriteString("Return ONLY a valid JSON object that matches this schema exactly:\n")
	b.WriteString("{\n")
	b.WriteString(`  "summary_bullets": [string],` + "\n")
	b.WriteString(`  "triage": "FAST_TRACK" | "ADJUSTER_REVIEW" | "FRAUD_REVIEW",` + "\n")
	b.WriteString(`  "rationale_bullets": [string],` + "\n")
	b.WriteString(`  "missing_info_questions": [string],` + "\n")
	b.WriteString(`  "confidence": number (0 to 1)` + "\n")
	b.WriteString("}\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Do not include markdown or extra keys.\n")
	b.WriteString("- Arrays must contain concise strings.\n")
	b.WriteString(`- If information is missing, list questions under "missing_info_questions".` + "\n")
	b.WriteString("- Confidence must be between 0 and 1.\n")
	b.WriteString("\n")
	b.WriteString("Claim:\n")
	fmt.Fprintf(&b, "- Policy Number: %s\n", in.PolicyNumber)
	fmt.Fprintf(&b, "- Claim Type: %s\n", in.ClaimType)
	fmt.Fprintf(&b, "- Incident Date: %s\n", in.IncidentDate)
	fmt.Fprintf(&b, "- Location: %s\n", in.Location)
	fmt.Fprintf(&b, "- Description: %s\n", in.Description)
	fmt.Fprintf(&b, "- Estimated Amount (USD): %s\n", strconv.FormatFloat(in.EstimatedAmount, 'f', -1, 64))
	b.WriteString("- Attachments:\n")
	b.WriteString(attachments)
	return b.String()
}
