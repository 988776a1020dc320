package store

import (
	"time"

	"claims-triage/internal/domain/entity"

	"github.com/google/uuid"
)

const (
	claimColumns     = "id, policy_number, claim_type, incident_date, location, description, estimated_amount, status, attachments, created_at, updated_at"
	aiVersionColumns = "id, claim_id, model, prompt_version, response_json, latency_ms, token_usage, created_at"
)

type dbClaim struct {
	ID              string    `db:"id"`
	PolicyNumber    string    `db:"policy_number"`
	ClaimType       string    `db:"claim_type"`
	IncidentDate    string    `db:"incident_date"`
	Location        string    `db:"location"`
	Description     string    `db:"description"`
	EstimatedAmount int64     `db:"estimated_amount"`
	Status          string    `db:"status"`
	Attachments     string    `db:"attachments"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func adaptClaim(db dbClaim) entity.Claim {
	return entity.Claim{
		ID:              db.ID,
		PolicyNumber:    db.PolicyNumber,
		ClaimType:       entity.ClaimType(db.ClaimType),
		IncidentDate:    db.IncidentDate,
		Location:        db.Location,
		Description:     db.Description,
		EstimatedAmount: db.EstimatedAmount,
		Status:          entity.ClaimStatus(db.Status),
		AttachmentsJSON: db.Attachments,
		CreatedAt:       db.CreatedAt.UTC(),
		UpdatedAt:       db.UpdatedAt.UTC(),
	}
}

type dbClaimAiVersion struct {
	ID            string    `db:"id"`
	ClaimID       string    `db:"claim_id"`
	Model         string    `db:"model"`
	PromptVersion string    `db:"prompt_version"`
	ResponseJSON  string    `db:"response_json"`
	LatencyMs     int64     `db:"latency_ms"`
	TokenUsage    *string   `db:"token_usage"`
	CreatedAt     time.Time `db:"created_at"`
}

func adaptClaimAiVersion(db dbClaimAiVersion) entity.ClaimAiVersion {
	return entity.ClaimAiVersion{
		ID:             db.ID,
		ClaimID:        db.ClaimID,
		Model:          db.Model,
		PromptVersion:  db.PromptVersion,
		ResponseJSON:   db.ResponseJSON,
		LatencyMs:      db.LatencyMs,
		TokenUsageJSON: db.TokenUsage,
		CreatedAt:      db.CreatedAt.UTC(),
	}
}

// uuid7 ids sort by creation time.
func uuid7() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// canonicalID rejects strings that can never match a uuid primary key.
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
