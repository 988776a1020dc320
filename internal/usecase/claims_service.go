package usecase

import (
	"context"
	"log/slog"

	"claims-triage/internal/domain/entity"
	"claims-triage/internal/domain/money"
	"claims-triage/internal/domain/repository"
	"claims-triage/internal/domain/schema"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

// Triager is the orchestration step the claims service depends on.
type Triager interface {
	Triage(ctx context.Context, in entity.TriageInput) (*entity.TriageResult, error)
}

type ClaimsService struct {
	claims   repository.ClaimStore
	versions repository.AIVersionStore
	triager  Triager
	logger   *slog.Logger
}

func NewClaimsService(claims repository.ClaimStore, versions repository.AIVersionStore, triager Triager, logger *slog.Logger) *ClaimsService {
	return &ClaimsService{claims: claims, versions: versions, triager: triager, logger: logger}
}

func (s *ClaimsService) CreateClaim(ctx context.Context, req schema.CreateClaimRequest) (*ClaimDTO, error) {
	input, err := schema.ValidateCreateClaim(req)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "create claim start",
		"claim_type", input.ClaimType,
		"amount", input.EstimatedAmount,
		"attachments", len(input.Attachments))

	attachments, err := json.Marshal(input.Attachments)
	if err != nil {
		return nil, errors.Wrap(err, "encode attachments")
	}

	created, err := s.claims.Create(ctx, entity.NewClaim{
		PolicyNumber:    input.PolicyNumber,
		ClaimType:       input.ClaimType,
		IncidentDate:    input.IncidentDate,
		Location:        input.Location,
		Description:     input.Description,
		EstimatedAmount: money.ToMinorUnits(input.EstimatedAmount),
		Status:          entity.ClaimStatusNew,
		AttachmentsJSON: string(attachments),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create claim")
	}

	s.logger.InfoContext(ctx, "create claim done", "claim_id", created.ID, "status", created.Status)
	dto := toClaimDTO(created)
	return &dto, nil
}

func (s *ClaimsService) ListClaims(ctx context.Context, req schema.ListClaimsRequest) (*ListClaimsResult, error) {
	query, err := schema.ValidateListClaims(req)
	if err != nil {
		return nil, err
	}

	limit := min(query.Limit, entity.MaxListLimit)
	scan := entity.ClaimScan{
		Filter: entity.ClaimFilter{Type: query.Type, Status: query.Status, Text: query.Query},
		Limit:  limit + 1,
	}

	if query.Cursor != nil {
		anchor, err := s.claims.Get(ctx, *query.Cursor)
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.NewInvalidCursorError(*query.Cursor)
		}
		if err != nil {
			return nil, errors.Wrap(err, "resolve cursor")
		}
		scan.After = &entity.ClaimCursor{ID: anchor.ID, CreatedAt: anchor.CreatedAt}
	}

	s.logger.InfoContext(ctx, "list claims start", "limit", limit, "cursor", valueOr(query.Cursor, "none"))

	rows, err := s.claims.List(ctx, scan)
	if err != nil {
		return nil, errors.Wrap(err, "list claims")
	}

	hasNext := len(rows) > limit
	if hasNext {
		rows = rows[:limit]
	}

	result := &ListClaimsResult{Items: make([]ClaimSummaryDTO, 0, len(rows))}
	for _, c := range rows {
		result.Items = append(result.Items, toClaimSummaryDTO(c))
	}
	if hasNext && len(rows) > 0 {
		next := rows[len(rows)-1].ID
		result.NextCursor = &next
	}

	s.logger.InfoContext(ctx, "list claims done",
		"count", len(result.Items),
		"has_next", hasNext,
		"next_cursor", valueOr(result.NextCursor, "none"))
	return result, nil
}

func (s *ClaimsService) GetClaim(ctx context.Context, id string) (*GetClaimResult, error) {
	s.logger.InfoContext(ctx, "get claim start", "claim_id", id)

	claim, err := s.findClaim(ctx, id)
	if err != nil {
		return nil, err
	}

	latest, err := s.versions.LatestByClaim(ctx, claim.ID)
	if err != nil {
		return nil, errors.Wrap(err, "latest ai version")
	}

	result := &GetClaimResult{Claim: toClaimDTO(claim)}
	latestID := "none"
	if latest != nil {
		dto := toClaimAiVersionDTO(*latest)
		result.LatestAi = &dto
		latestID = latest.ID
	}

	s.logger.InfoContext(ctx, "get claim done", "claim_id", id, "latest_ai", latestID)
	return result, nil
}

// GenerateAiVersion runs triage for a claim and appends the result to its
// history. It keeps running when the caller's context is cancelled.
func (s *ClaimsService) GenerateAiVersion(ctx context.Context, id string) (*ClaimAiVersionDTO, error) {
	ctx = context.WithoutCancel(ctx)
	s.logger.InfoContext(ctx, "generate ai version start", "claim_id", id)

	claim, err := s.findClaim(ctx, id)
	if err != nil {
		return nil, err
	}

	input := entity.TriageInput{
		ClaimID:         claim.ID,
		PolicyNumber:    claim.PolicyNumber,
		ClaimType:       claim.ClaimType,
		IncidentDate:    claim.IncidentDate,
		Location:        claim.Location,
		Description:     claim.Description,
		EstimatedAmount: money.ToMajorUnits(claim.EstimatedAmount),
		Attachments:     decodeAttachments(claim.AttachmentsJSON),
	}

	result, err := s.triager.Triage(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "generate ai version triaged",
		"claim_id", claim.ID,
		"latency_ms", result.LatencyMs,
		"triage", result.Response.Triage)

	responseJSON, err := json.Marshal(result.Response)
	if err != nil {
		return nil, errors.Wrap(err, "encode ai response")
	}
	var usageJSON *string
	if result.TokenUsage != nil {
		raw, err := json.Marshal(result.TokenUsage)
		if err != nil {
			return nil, errors.Wrap(err, "encode token usage")
		}
		encoded := string(raw)
		usageJSON = &encoded
	}

	created, err := s.versions.Create(ctx, entity.NewClaimAiVersion{
		ClaimID:        claim.ID,
		Model:          result.Model,
		PromptVersion:  result.PromptVersion,
		ResponseJSON:   string(responseJSON),
		LatencyMs:      result.LatencyMs,
		TokenUsageJSON: usageJSON,
	})
	if err != nil {
		return nil, errors.Wrap(err, "save ai version")
	}

	s.logger.InfoContext(ctx, "generate ai version saved", "ai_version_id", created.ID, "claim_id", claim.ID)
	dto := toClaimAiVersionDTO(created)
	return &dto, nil
}

func (s *ClaimsService) GetAiHistory(ctx context.Context, id string) (*AiHistoryResult, error) {
	s.logger.InfoContext(ctx, "get ai history start", "claim_id", id)

	claim, err := s.findClaim(ctx, id)
	if err != nil {
		return nil, err
	}

	versions, err := s.versions.ListByClaim(ctx, claim.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list ai versions")
	}

	result := &AiHistoryResult{History: toClaimAiVersionDTOs(versions)}
	if len(result.History) > 0 {
		latest := result.History[0]
		result.Latest = &latest
	}

	s.logger.InfoContext(ctx, "get ai history done", "claim_id", id, "versions", len(result.History))
	return result, nil
}

func (s *ClaimsService) findClaim(ctx context.Context, id string) (entity.Claim, error) {
	claim, err := s.claims.Get(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		s.logger.WarnContext(ctx, "claim not found", "claim_id", id)
		return entity.Claim{}, entity.NewClaimNotFoundError()
	}
	if err != nil {
		return entity.Claim{}, errors.Wrap(err, "get claim")
	}
	return claim, nil
}

func valueOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
