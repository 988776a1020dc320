package store

import (
	"context"
	"testing"
	"time"

	"claims-triage/internal/domain/entity"

	"github.com/cockroachdb/errors"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var claimCols = []string{
	"id", "policy_number", "claim_type", "incident_date", "location", "description",
	"estimated_amount", "status", "attachments", "created_at", "updated_at",
}

const testClaimID = "0190f5d2-7c1a-7000-8000-00000000000a"

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestPostgresClaimStore_Create(t *testing.T) {
	mock := newMockPool(t)
	at := time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)
	s := NewPostgresClaimStore(mock, func() time.Time { return at })

	mock.ExpectQuery(`INSERT INTO claims \(id, policy_number, .+\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8,\$9,\$10,\$11\) RETURNING id, .+`).
		WithArgs(pgxmock.AnyArg(), "PN-12345", "auto", "2026-01-20", "Austin, TX", "Rear-ended", int64(125050), "NEW", `["https://example.com/a.jpg"]`, at, at).
		WillReturnRows(mock.NewRows(claimCols).AddRow(
			testClaimID, "PN-12345", "auto", "2026-01-20", "Austin, TX", "Rear-ended",
			int64(125050), "NEW", `["https://example.com/a.jpg"]`, at, at,
		))

	c, err := s.Create(context.Background(), entity.NewClaim{
		PolicyNumber:    "PN-12345",
		ClaimType:       entity.ClaimTypeAuto,
		IncidentDate:    "2026-01-20",
		Location:        "Austin, TX",
		Description:     "Rear-ended",
		EstimatedAmount: 125050,
		AttachmentsJSON: `["https://example.com/a.jpg"]`,
	})
	require.NoError(t, err)

	assert.Equal(t, testClaimID, c.ID)
	assert.Equal(t, entity.ClaimStatusNew, c.Status)
	assert.Equal(t, int64(125050), c.EstimatedAmount)
	assert.Equal(t, at, c.CreatedAt)
}

func TestPostgresClaimStore_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock := newMockPool(t)
		s := NewPostgresClaimStore(mock, nil)
		at := time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT id, .+ FROM claims WHERE id = \$1`).
			WithArgs(testClaimID).
			WillReturnRows(mock.NewRows(claimCols).AddRow(
				testClaimID, "PN-54321", "home", "2026-01-10", "Denver, CO", "Pipe burst",
				int64(342000), "IN_REVIEW", "[]", at, at,
			))

		c, err := s.Get(context.Background(), testClaimID)
		require.NoError(t, err)
		assert.Equal(t, entity.ClaimTypeHome, c.ClaimType)
		assert.Equal(t, entity.ClaimStatusInReview, c.Status)
	})

	t.Run("missing row", func(t *testing.T) {
		mock := newMockPool(t)
		s := NewPostgresClaimStore(mock, nil)

		mock.ExpectQuery(`SELECT id, .+ FROM claims WHERE id = \$1`).
			WithArgs(testClaimID).
			WillReturnRows(mock.NewRows(claimCols))

		_, err := s.Get(context.Background(), testClaimID)
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})

	t.Run("malformed id never queries", func(t *testing.T) {
		mock := newMockPool(t)
		s := NewPostgresClaimStore(mock, nil)

		_, err := s.Get(context.Background(), "abc")
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})

	t.Run("driver error", func(t *testing.T) {
		mock := newMockPool(t)
		s := NewPostgresClaimStore(mock, nil)

		mock.ExpectQuery(`SELECT id, .+ FROM claims`).
			WithArgs(testClaimID).
			WillReturnError(errors.New("connection reset"))

		_, err := s.Get(context.Background(), testClaimID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, entity.ErrNotFound)
	})
}

func TestPostgresClaimStore_ListBuildsKeysetQuery(t *testing.T) {
	mock := newMockPool(t)
	s := NewPostgresClaimStore(mock, nil)
	cursorAt := time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)
	typ := entity.ClaimTypeAuto
	status := entity.ClaimStatusNew
	text := "TX"

	mock.ExpectQuery(`SELECT id, .+ FROM claims WHERE claim_type = \$1 AND status = \$2 AND \(strpos\(policy_number, \$3\) > 0 OR strpos\(location, \$4\) > 0\) AND \(created_at, id\) < \(\$5, \$6\) ORDER BY created_at DESC, id DESC LIMIT 3`).
		WithArgs("auto", "NEW", "TX", "TX", cursorAt, testClaimID).
		WillReturnRows(mock.NewRows(claimCols).AddRow(
			"0190f5d2-7c1a-7000-8000-000000000009", "PN-12345", "auto", "2026-01-20", "Austin, TX", "d",
			int64(100), "NEW", "[]", cursorAt.Add(-time.Minute), cursorAt.Add(-time.Minute),
		))

	claims, err := s.List(context.Background(), entity.ClaimScan{
		Filter: entity.ClaimFilter{Type: &typ, Status: &status, Text: &text},
		After:  &entity.ClaimCursor{ID: testClaimID, CreatedAt: cursorAt},
		Limit:  3,
	})
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, "PN-12345", claims[0].PolicyNumber)
}

func TestPostgresClaimStore_ListUnfiltered(t *testing.T) {
	mock := newMockPool(t)
	s := NewPostgresClaimStore(mock, nil)

	mock.ExpectQuery(`SELECT id, .+ FROM claims ORDER BY created_at DESC, id DESC LIMIT 21`).
		WillReturnRows(mock.NewRows(claimCols))

	claims, err := s.List(context.Background(), entity.ClaimScan{Limit: 21})
	require.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Empty(t, claims)
}
