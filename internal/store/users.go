package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/erazemk/visitorlog/internal/model"
)

var userColumns = []string{
	"id", "name", "email", "university", "address", "password_hash", "created_at", "updated_at",
}

// UserStore persists user accounts.
type UserStore struct {
	db *sql.DB
}

// NewUserStore returns a UserStore backed by db.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.University, &u.Address, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create creates a new user. Returns ErrEmailTaken if the email is in use.
func (s *UserStore) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	id := uuid.NewString()
	ts := now()

	query, args, err := builder.Insert("users").
		Columns("id", "name", "email", "password_hash", "created_at", "updated_at").
		Values(id, strings.TrimSpace(name), NormalizeEmail(email), passwordHash, ts, ts).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building user insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return s.Get(ctx, id)
}

func (s *UserStore) getBy(ctx context.Context, where squirrel.Sqlizer) (*model.User, error) {
	query, args, err := builder.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building user query: %w", err)
	}

	u, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// Get returns a user by ID.
func (s *UserStore) Get(ctx context.Context, id string) (*model.User, error) {
	return s.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByEmail returns a user by email, compared case-insensitively.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getBy(ctx, squirrel.Expr("email = ? COLLATE NOCASE", NormalizeEmail(email)))
}

// UpdateProfile applies patch to a user's profile and returns the result.
func (s *UserStore) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.User, error) {
	q := builder.Update("users").Set("updated_at", now())
	if patch.Name != nil {
		q = q.Set("name", strings.TrimSpace(*patch.Name))
	}
	if patch.Email != nil {
		q = q.Set("email", NormalizeEmail(*patch.Email))
	}
	if patch.University != nil {
		q = q.Set("university", strings.TrimSpace(*patch.University))
	}
	if patch.Address != nil {
		q = q.Set("address", strings.TrimSpace(*patch.Address))
	}

	query, args, err := q.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building profile update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, id)
}

// UpdatePassword updates a user's password hash.
func (s *UserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query, args, err := builder.Update("users").
		Set("password_hash", passwordHash).
		Set("updated_at", now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building password update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
