package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

// RevokeToken adds a token's JTI to the revocation list until expiresAt.
func RevokeToken(ctx context.Context, db *sql.DB, jti string, expiresAt time.Time) error {
	query, args, err := builder.Insert("revoked_tokens").
		Options("OR IGNORE").
		Columns("jti", "expires_at").
		Values(jti, expiresAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("building revocation insert: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	// Opportunistically clean up expired revocations.
	_, _ = PurgeExpiredTokens(ctx, db, time.Now())

	return nil
}

// IsTokenRevoked checks if a token's JTI has been revoked.
func IsTokenRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	query, args, err := builder.Select("COUNT(*)").
		From("revoked_tokens").
		Where(squirrel.Eq{"jti": jti}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building revocation query: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return count > 0, nil
}

// PurgeExpiredTokens removes revocations whose token has expired by now and
// returns how many were removed.
func PurgeExpiredTokens(ctx context.Context, db *sql.DB, now time.Time) (int64, error) {
	query, args, err := builder.Delete("revoked_tokens").
		Where(squirrel.Lt{"expires_at": now.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building revocation purge: %w", err)
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purging revoked tokens: %w", err)
	}
	return res.RowsAffected()
}
