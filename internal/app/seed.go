package app

import (
	"context"

	"claims-triage/internal/domain/entity"
	"claims-triage/internal/domain/repository"

	"github.com/cockroachdb/errors"
)

var demoClaims = []entity.NewClaim{
	{
		PolicyNumber:    "PN-12345",
		ClaimType:       entity.ClaimTypeAuto,
		IncidentDate:    "2026-01-20",
		Location:        "Austin, TX",
		Description:     "Rear-ended at a stop light",
		EstimatedAmount: 125050,
		Status:          entity.ClaimStatusNew,
		AttachmentsJSON: `["https://example.com/photo1.jpg"]`,
	},
	{
		PolicyNumber:    "PN-54321",
		ClaimType:       entity.ClaimTypeHome,
		IncidentDate:    "2026-01-10",
		Location:        "Denver, CO",
		Description:     "Water leak in the kitchen ceiling",
		EstimatedAmount: 342000,
		Status:          entity.ClaimStatusInReview,
		AttachmentsJSON: `["https://example.com/leak.jpg"]`,
	},
	{
		PolicyNumber:    "PN-77777",
		ClaimType:       entity.ClaimTypeTravel,
		IncidentDate:    "2025-12-28",
		Location:        "Miami, FL",
		Description:     "Lost luggage on return flight",
		EstimatedAmount: 89500,
		Status:          entity.ClaimStatusResolved,
		AttachmentsJSON: `["https://example.com/bag.jpg"]`,
	},
	{
		PolicyNumber:    "PN-99999",
		ClaimType:       entity.ClaimTypeAuto,
		IncidentDate:    "2026-01-02",
		Location:        "San Jose, CA",
		Description:     "Windshield cracked by debris on highway",
		EstimatedAmount: 42000,
		Status:          entity.ClaimStatusNew,
		AttachmentsJSON: `["https://example.com/windshield.jpg"]`,
	},
}

// SeedDemoClaims inserts the demo claims in order and returns them as stored.
func SeedDemoClaims(ctx context.Context, claims repository.ClaimStore) ([]entity.Claim, error) {
	created := make([]entity.Claim, 0, len(demoClaims))
	for _, c := range demoClaims {
		claim, err := claims.Create(ctx, c)
		if err != nil {
			return created, errors.Wrapf(err, "seed claim %s", c.PolicyNumber)
		}
		created = append(created, claim)
	}
	return created, nil
}
