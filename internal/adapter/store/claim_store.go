package store

import (
	"context"
	"time"

	"claims-triage/internal/domain/entity"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
)

type PostgresClaimStore struct {
	db    DBTX
	clock func() time.Time
}

func NewPostgresClaimStore(db DBTX, clock func() time.Time) *PostgresClaimStore {
	if clock == nil {
		clock = time.Now
	}
	return &PostgresClaimStore{db: db, clock: clock}
}

func (s *PostgresClaimStore) Create(ctx context.Context, c entity.NewClaim) (entity.Claim, error) {
	status := c.Status
	if status == "" {
		status = entity.ClaimStatusNew
	}
	createdAt := now(s.clock)

	query, args, err := NewQueryBuilder().
		Insert("claims").
		Columns(claimColumns).
		Values(
			newID(),
			c.PolicyNumber,
			string(c.ClaimType),
			c.IncidentDate,
			c.Location,
			c.Description,
			c.EstimatedAmount,
			string(status),
			c.AttachmentsJSON,
			createdAt,
			createdAt,
		).
		Suffix("RETURNING " + claimColumns).
		ToSql()
	if err != nil {
		return entity.Claim{}, errors.Wrap(err, "build insert claim query")
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return entity.Claim{}, errors.Wrap(err, "insert claim")
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[dbClaim])
	if err != nil {
		return entity.Claim{}, errors.Wrap(err, "scan inserted claim")
	}
	return adaptClaim(created), nil
}

func (s *PostgresClaimStore) Get(ctx context.Context, id string) (entity.Claim, error) {
	id, ok := canonicalID(id)
	if !ok {
		return entity.Claim{}, entity.ErrNotFound
	}

	query, args, err := NewQueryBuilder().
		Select(claimColumns).
		From("claims").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return entity.Claim{}, errors.Wrap(err, "build get claim query")
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return entity.Claim{}, errors.Wrap(err, "get claim")
	}
	claim, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[dbClaim])
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Claim{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.Claim{}, errors.Wrap(err, "scan claim")
	}
	return adaptClaim(claim), nil
}

func (s *PostgresClaimStore) List(ctx context.Context, scan entity.ClaimScan) ([]entity.Claim, error) {
	q := NewQueryBuilder().
		Select(claimColumns).
		From("claims").
		OrderBy("created_at DESC", "id DESC")

	if scan.Filter.Type != nil {
		q = q.Where(squirrel.Eq{"claim_type": string(*scan.Filter.Type)})
	}
	if scan.Filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*scan.Filter.Status)})
	}
	if scan.Filter.Text != nil {
		// strpos keeps the match literal and case-sensitive, unlike LIKE.
		q = q.Where(squirrel.Or{
			squirrel.Expr("strpos(policy_number, ?) > 0", *scan.Filter.Text),
			squirrel.Expr("strpos(location, ?) > 0", *scan.Filter.Text),
		})
	}
	if scan.After != nil {
		q = q.Where(squirrel.Expr("(created_at, id) < (?, ?)", scan.After.CreatedAt, scan.After.ID))
	}
	if scan.Limit > 0 {
		q = q.Limit(uint64(scan.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list claims query")
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list claims")
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByName[dbClaim])
	if err != nil {
		return nil, errors.Wrap(err, "scan claims")
	}

	claims := make([]entity.Claim, 0, len(found))
	for _, c := range found {
		claims = append(claims, adaptClaim(c))
	}
	return claims, nil
}
