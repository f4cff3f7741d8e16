package store

import (
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors returned (possibly wrapped) by the stores.
var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// builder produces SQLite-flavoured statements with ? placeholders.
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// now returns the timestamp stored in created_at/updated_at columns.
func now() time.Time {
	return time.Now().UTC()
}

// nullTime converts an optional timestamp into a driver value.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// isUniqueViolation reports whether err came from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// ownerScope restricts a query to one owner's rows. An empty ownerID leaves
// the query unscoped.
func ownerScope(ownerID string) squirrel.Sqlizer {
	if ownerID == "" {
		return squirrel.Expr("1 = 1")
	}
	return squirrel.Eq{"user_id": ownerID}
}
