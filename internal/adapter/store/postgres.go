package store

import (
	"context"
	"embed"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func NewQueryBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Connect opens a pool and waits until the database answers a ping.
func Connect(ctx context.Context, dsn string, attempts uint, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "create pgx pool")
	}

	err = retry.Do(
		func() error { return pool.Ping(ctx) },
		retry.Context(ctx),
		retry.Attempts(max(attempts, 1)),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.WarnContext(ctx, "database not ready", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	return pool, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = goose.UpContext

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "set goose dialect")
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := gooseUpContext(ctx, db, "migrations"); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}

func now(clock func() time.Time) time.Time {
	// Postgres keeps microseconds, memory stores must agree on ordering.
	return clock().UTC().Truncate(time.Microsecond)
}

func newID() string {
	return uuid7().String()
}
