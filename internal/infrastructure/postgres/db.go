package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/social-feed/internal/domain/apperr"
)

// DBTX is the subset of *pgxpool.Pool the repositories use. Each call
// acquires and releases its own pooled connection.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func mapErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", apperr.ErrDuplicateIdentity, what)
		case foreignKeyViolation:
			// A dangling author_id means the proof outlived its account.
			return fmt.Errorf("%w: %s author no longer exists", apperr.ErrUnauthorized, what)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
