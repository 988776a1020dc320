package repository

import (
	"context"

	"claims-triage/internal/domain/entity"
)

// ClaimStore returns entity.ErrNotFound from Get when the id is unknown.
type ClaimStore interface {
	Create(ctx context.Context, claim entity.NewClaim) (entity.Claim, error)
	Get(ctx context.Context, id string) (entity.Claim, error)
	// List returns at most scan.Limit rows ordered by (created_at desc, id desc).
	List(ctx context.Context, scan entity.ClaimScan) ([]entity.Claim, error)
}

type AIVersionStore interface {
	Create(ctx context.Context, version entity.NewClaimAiVersion) (entity.ClaimAiVersion, error)
	// ListByClaim is ordered newest first, ties broken by id desc.
	ListByClaim(ctx context.Context, claimID string) ([]entity.ClaimAiVersion, error)
	// LatestByClaim returns nil when the claim has no versions.
	LatestByClaim(ctx context.Context, claimID string) (*entity.ClaimAiVersion, error)
}

// TriageGenerator produces a structured triage object for a prompt. Errors
// are *entity.GenerationFailure.
type TriageGenerator interface {
	Generate(ctx context.Context, req entity.GenerateRequest) (*entity.GenerateResult, error)
	Model() string
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
