package usecase

import (
	"time"

	"claims-triage/internal/domain/entity"
	"claims-triage/internal/domain/money"

	"github.com/goccy/go-json"
)

// Timestamps are rendered as UTC ISO-8601 with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

type ClaimDTO struct {
	ID              string             `json:"id"`
	PolicyNumber    string             `json:"policyNumber"`
	ClaimType       entity.ClaimType   `json:"claimType"`
	IncidentDate    string             `json:"incidentDate"`
	Location        string             `json:"location"`
	Description     string             `json:"description"`
	EstimatedAmount float64            `json:"estimatedAmount"`
	Status          entity.ClaimStatus `json:"status"`
	Attachments     []string           `json:"attachments"`
	CreatedAt       string             `json:"createdAt"`
	UpdatedAt       string             `json:"updatedAt"`
}

type ClaimSummaryDTO struct {
	ID              string             `json:"id"`
	PolicyNumber    string             `json:"policyNumber"`
	ClaimType       entity.ClaimType   `json:"claimType"`
	IncidentDate    string             `json:"incidentDate"`
	EstimatedAmount float64            `json:"estimatedAmount"`
	Status          entity.ClaimStatus `json:"status"`
	CreatedAt       string             `json:"createdAt"`
}

// ClaimAiVersionDTO carries the stored response and usage as raw JSON. A
// value that no longer parses is rendered as null.
type ClaimAiVersionDTO struct {
	ID            string          `json:"id"`
	ClaimID       string          `json:"claimId"`
	CreatedAt     string          `json:"createdAt"`
	Model         string          `json:"model"`
	PromptVersion string          `json:"promptVersion"`
	Response      json.RawMessage `json:"response"`
	LatencyMs     int64           `json:"latencyMs"`
	TokenUsage    json.RawMessage `json:"tokenUsage"`
}

type ListClaimsResult struct {
	Items      []ClaimSummaryDTO `json:"items"`
	NextCursor *string           `json:"nextCursor"`
}

type GetClaimResult struct {
	Claim    ClaimDTO           `json:"claim"`
	LatestAi *ClaimAiVersionDTO `json:"latestAi"`
}

type AiHistoryResult struct {
	Latest  *ClaimAiVersionDTO  `json:"latest"`
	History []ClaimAiVersionDTO `json:"history"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func toClaimDTO(c entity.Claim) ClaimDTO {
	return ClaimDTO{
		ID:              c.ID,
		PolicyNumber:    c.PolicyNumber,
		ClaimType:       c.ClaimType,
		IncidentDate:    c.IncidentDate,
		Location:        c.Location,
		Description:     c.Description,
		EstimatedAmount: money.ToMajorUnits(c.EstimatedAmount),
		Status:          c.Status,
		Attachments:     decodeAttachments(c.AttachmentsJSON),
		CreatedAt:       formatTimestamp(c.CreatedAt),
		UpdatedAt:       formatTimestamp(c.UpdatedAt),
	}
}

func toClaimSummaryDTO(c entity.Claim) ClaimSummaryDTO {
	return ClaimSummaryDTO{
		ID:              c.ID,
		PolicyNumber:    c.PolicyNumber,
		ClaimType:       c.ClaimType,
		IncidentDate:    c.IncidentDate,
		EstimatedAmount: money.ToMajorUnits(c.EstimatedAmount),
		Status:          c.Status,
		CreatedAt:       formatTimestamp(c.CreatedAt),
	}
}

func toClaimAiVersionDTO(v entity.ClaimAiVersion) ClaimAiVersionDTO {
	dto := ClaimAiVersionDTO{
		ID:            v.ID,
		ClaimID:       v.ClaimID,
		CreatedAt:     formatTimestamp(v.CreatedAt),
		Model:         v.Model,
		PromptVersion: v.PromptVersion,
		Response:      repairJSON(v.ResponseJSON),
		LatencyMs:     v.LatencyMs,
	}
	if v.TokenUsageJSON != nil && *v.TokenUsageJSON != "" {
		dto.TokenUsage = repairJSON(*v.TokenUsageJSON)
	}
	return dto
}

func toClaimAiVersionDTOs(versions []entity.ClaimAiVersion) []ClaimAiVersionDTO {
	out := make([]ClaimAiVersionDTO, 0, len(versions))
	for _, v := range versions {
		out = append(out, toClaimAiVersionDTO(v))
	}
	return out
}

// repairJSON returns nil for anything that is not well-formed JSON.
func repairJSON(raw string) json.RawMessage {
	if !json.Valid([]byte(raw)) {
		return nil
	}
	return json.RawMessage(raw)
}

// decodeAttachments reads the stored attachment column. Malformed values
// become an empty list and non-string elements are dropped.
func decodeAttachments(raw string) []string {
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
