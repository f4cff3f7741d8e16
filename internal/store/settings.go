package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/Masterminds/squirrel"
)

const jwtSecretKey = "jwt_secret"

// GetJWTSecret retrieves the JWT signing secret from the settings table.
// If none exists, it generates one, stores it, and returns it. The insert is
// OR IGNORE followed by a re-read, so concurrent first starts agree.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}

	insert, args, err := builder.Insert("settings").
		Options("OR IGNORE").
		Columns("key", "value").
		Values(jwtSecretKey, hex.EncodeToString(buf)).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building settings insert: %w", err)
	}
	if _, err := db.ExecContext(ctx, insert, args...); err != nil {
		return "", fmt.Errorf("storing jwt secret: %w", err)
	}

	query, args, err := builder.Select("value").
		From("settings").
		Where(squirrel.Eq{"key": jwtSecretKey}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building settings query: %w", err)
	}

	var secret string
	if err := db.QueryRowContext(ctx, query, args...).Scan(&secret); err != nil {
		return "", fmt.Errorf("querying jwt secret: %w", err)
	}
	return secret, nil
}
