package store

import (
	"context"
	"time"

	"claims-triage/internal/domain/entity"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
)

type PostgresAIVersionStore struct {
	db    DBTX
	clock func() time.Time
}

func NewPostgresAIVersionStore(db DBTX, clock func() time.Time) *PostgresAIVersionStore {
	if clock == nil {
		clock = time.Now
	}
	return &PostgresAIVersionStore{db: db, clock: clock}
}

func (s *PostgresAIVersionStore) Create(ctx context.Context, v entity.NewClaimAiVersion) (entity.ClaimAiVersion, error) {
	query, args, err := NewQueryBuilder().
		Insert("claim_ai_versions").
		Columns(aiVersionColumns).
		Values(
			newID(),
			v.ClaimID,
			v.Model,
			v.PromptVersion,
			v.ResponseJSON,
			v.LatencyMs,
			v.TokenUsageJSON,
			now(s.clock),
		).
		Suffix("RETURNING " + aiVersionColumns).
		ToSql()
	if err != nil {
		return entity.ClaimAiVersion{}, errors.Wrap(err, "build insert ai version query")
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return entity.ClaimAiVersion{}, errors.Wrap(err, "insert ai version")
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[dbClaimAiVersion])
	if err != nil {
		return entity.ClaimAiVersion{}, errors.Wrap(err, "scan inserted ai version")
	}
	return adaptClaimAiVersion(created), nil
}

func (s *PostgresAIVersionStore) ListByClaim(ctx context.Context, claimID string) ([]entity.ClaimAiVersion, error) {
	return s.list(ctx, claimID, 0)
}

func (s *PostgresAIVersionStore) LatestByClaim(ctx context.Context, claimID string) (*entity.ClaimAiVersion, error) {
	versions, err := s.list(ctx, claimID, 1)
	if err != nil || len(versions) == 0 {
		return nil, err
	}
	return &versions[0], nil
}

func (s *PostgresAIVersionStore) list(ctx context.Context, claimID string, limit uint64) ([]entity.ClaimAiVersion, error) {
	claimID, ok := canonicalID(claimID)
	if !ok {
		return []entity.ClaimAiVersion{}, nil
	}

	q := NewQueryBuilder().
		Select(aiVersionColumns).
		From("claim_ai_versions").
		Where(squirrel.Eq{"claim_id": claimID}).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list ai versions query")
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list ai versions")
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByName[dbClaimAiVersion])
	if err != nil {
		return nil, errors.Wrap(err, "scan ai versions")
	}

	versions := make([]entity.ClaimAiVersion, 0, len(found))
	for _, v := range found {
		versions = append(versions, adaptClaimAiVersion(v))
	}
	return versions, nil
}
