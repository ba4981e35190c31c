package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/domain"
)

// EmotionLogRepository defines operations for the append-only emotion log
type EmotionLogRepository interface {
	// EnsureInitialized prepares the backing store. Safe to call repeatedly.
	EnsureInitialized(ctx context.Context) error
	Append(ctx context.Context, record domain.EmotionRecord) error
	// ReadAll returns every record in insertion order.
	ReadAll(ctx context.Context) ([]domain.EmotionRecord, error)
}

// PgxPool is the subset of *pgxpool.Pool used by the repositories.
// pgxmock.PgxPoolIface satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}
