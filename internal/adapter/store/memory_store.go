package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"claims-triage/internal/domain/entity"
)

// MemoryClaimStore keeps claims in process memory. Ordering and cursor
// semantics match the Postgres store.
type MemoryClaimStore struct {
	mu     sync.RWMutex
	claims map[string]entity.Claim
	clock  func() time.Time
}

func NewMemoryClaimStore(clock func() time.Time) *MemoryClaimStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryClaimStore{claims: make(map[string]entity.Claim), clock: clock}
}

func (s *MemoryClaimStore) Create(_ context.Context, c entity.NewClaim) (entity.Claim, error) {
	status := c.Status
	if status == "" {
		status = entity.ClaimStatusNew
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := now(s.clock)
	claim := entity.Claim{
		ID:              newID(),
		PolicyNumber:    c.PolicyNumber,
		ClaimType:       c.ClaimType,
		IncidentDate:    c.IncidentDate,
		Location:        c.Location,
		Description:     c.Description,
		EstimatedAmount: c.EstimatedAmount,
		Status:          status,
		AttachmentsJSON: c.AttachmentsJSON,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	s.claims[claim.ID] = claim
	return claim, nil
}

func (s *MemoryClaimStore) Get(_ context.Context, id string) (entity.Claim, error) {
	id, ok := canonicalID(id)
	if !ok {
		return entity.Claim{}, entity.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	claim, ok := s.claims[id]
	if !ok {
		return entity.Claim{}, entity.ErrNotFound
	}
	return claim, nil
}

func (s *MemoryClaimStore) List(_ context.Context, scan entity.ClaimScan) ([]entity.Claim, error) {
	s.mu.RLock()
	matched := make([]entity.Claim, 0, len(s.claims))
	for _, c := range s.claims {
		if matchesFilter(c, scan.Filter) && after(c.CreatedAt, c.ID, scan.After) {
			matched = append(matched, c)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b entity.Claim) int {
		return compareDesc(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})
	if scan.Limit > 0 && len(matched) > scan.Limit {
		matched = matched[:scan.Limit]
	}
	return matched, nil
}

func matchesFilter(c entity.Claim, f entity.ClaimFilter) bool {
	if f.Type != nil && c.ClaimType != *f.Type {
		return false
	}
	if f.Status != nil && c.Status != *f.Status {
		return false
	}
	if f.Text != nil && !strings.Contains(c.PolicyNumber, *f.Text) && !strings.Contains(c.Location, *f.Text) {
		return false
	}
	return true
}

// after reports whether (createdAt, id) sorts strictly below the cursor.
func after(createdAt time.Time, id string, cursor *entity.ClaimCursor) bool {
	if cursor == nil {
		return true
	}
	if createdAt.Equal(cursor.CreatedAt) {
		return id < cursor.ID
	}
	return createdAt.Before(cursor.CreatedAt)
}

func compareDesc(aAt time.Time, aID string, bAt time.Time, bID string) int {
	if c := bAt.Compare(aAt); c != 0 {
		return c
	}
	return strings.Compare(bID, aID)
}

type MemoryAIVersionStore struct {
	mu       sync.RWMutex
	versions map[string][]entity.ClaimAiVersion
	clock    func() time.Time
}

func NewMemoryAIVersionStore(clock func() time.Time) *MemoryAIVersionStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryAIVersionStore{versions: make(map[string][]entity.ClaimAiVersion), clock: clock}
}

func (s *MemoryAIVersionStore) Create(_ context.Context, v entity.NewClaimAiVersion) (entity.ClaimAiVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := entity.ClaimAiVersion{
		ID:             newID(),
		ClaimID:        v.ClaimID,
		Model:          v.Model,
		PromptVersion:  v.PromptVersion,
		ResponseJSON:   v.ResponseJSON,
		LatencyMs:      v.LatencyMs,
		TokenUsageJSON: v.TokenUsageJSON,
		CreatedAt:      now(s.clock),
	}
	s.versions[v.ClaimID] = append(s.versions[v.ClaimID], version)
	return version, nil
}

func (s *MemoryAIVersionStore) ListByClaim(_ context.Context, claimID string) ([]entity.ClaimAiVersion, error) {
	s.mu.RLock()
	out := slices.Clone(s.versions[claimID])
	s.mu.RUnlock()

	if out == nil {
		out = []entity.ClaimAiVersion{}
	}
	slices.SortFunc(out, func(a, b entity.ClaimAiVersion) int {
		return compareDesc(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})
	return out, nil
}

func (s *MemoryAIVersionStore) LatestByClaim(ctx context.Context, claimID string) (*entity.ClaimAiVersion, error) {
	versions, err := s.ListByClaim(ctx, claimID)
	if err != nil || len(versions) == 0 {
		return nil, err
	}
	return &versions[0], nil
}
