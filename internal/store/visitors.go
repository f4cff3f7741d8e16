package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/erazemk/visitorlog/internal/model"
)

var visitorColumns = []string{
	"id", "user_id", "name", "phone", "purpose", "host",
	"check_in", "check_out", "status", "photo IS NOT NULL",
	"created_at", "updated_at",
}

// VisitorStore persists visitor records.
type VisitorStore struct {
	db *sql.DB
}

// NewVisitorStore returns a VisitorStore backed by db.
func NewVisitorStore(db *sql.DB) *VisitorStore {
	return &VisitorStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisitor(row rowScanner) (*model.Visitor, error) {
	v := &model.Visitor{}
	var userID sql.NullString
	var status string
	err := row.Scan(&v.ID, &userID, &v.Name, &v.Phone, &v.Purpose, &v.Host,
		&v.CheckIn, &v.CheckOut, &status, &v.HasPhoto, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.UserID = userID.String
	v.Status = model.Status(status)
	return v, nil
}

// Create inserts a new visitor, assigning its identifier and timestamps.
func (s *VisitorStore) Create(ctx context.Context, v *model.Visitor) (*model.Visitor, error) {
	rec := *v
	rec.Normalize()
	rec.ID = uuid.NewString()
	rec.CreatedAt = now()
	rec.UpdatedAt = rec.CreatedAt

	var userID any
	if rec.UserID != "" {
		userID = rec.UserID
	}

	query, args, err := builder.Insert("visitors").
		Columns("id", "user_id", "name", "phone", "purpose", "host", "check_in", "check_out", "status", "created_at", "updated_at").
		Values(rec.ID, userID, rec.Name, rec.Phone, rec.Purpose, rec.Host, nullTime(rec.CheckIn), nullTime(rec.CheckOut), string(rec.Status), rec.CreatedAt, rec.UpdatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building visitor insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("creating visitor: %w", err)
	}

	return s.Get(ctx, rec.ID, "")
}

// Get returns a visitor by ID, scoped to ownerID when it is not empty.
func (s *VisitorStore) Get(ctx context.Context, id, ownerID string) (*model.Visitor, error) {
	query, args, err := builder.Select(visitorColumns...).
		From("visitors").
		Where(squirrel.Eq{"id": id}).
		Where(ownerScope(ownerID)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building visitor query: %w", err)
	}

	v, err := scanVisitor(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting visitor: %w", err)
	}
	return v, nil
}

// ListByOwner returns the owner's visitors, newest first.
func (s *VisitorStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Visitor, error) {
	q := builder.Select(visitorColumns...).From("visitors")
	if ownerID == "" {
		q = q.Where(squirrel.Eq{"user_id": nil})
	} else {
		q = q.Where(squirrel.Eq{"user_id": ownerID})
	}

	query, args, err := q.OrderBy("created_at DESC", "rowid DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building visitor list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing visitors: %w", err)
	}
	defer rows.Close()

	visitors := []model.Visitor{}
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		visitors = append(visitors, *v)
	}
	return visitors, rows.Err()
}

// Update applies patch to a visitor. Only fields set in the patch are
// written. Returns ErrNotFound if no visitor matches id and ownerID.
func (s *VisitorStore) Update(ctx context.Context, id, ownerID string, patch *model.VisitorPatch) (*model.Visitor, error) {
	p := *patch
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("updating visitor: %w", err)
	}

	q := builder.Update("visitors").Set("updated_at", now())
	if p.Name != nil {
		q = q.Set("name", *p.Name)
	}
	if p.Phone != nil {
		q = q.Set("phone", *p.Phone)
	}
	if p.Purpose != nil {
		q = q.Set("purpose", *p.Purpose)
	}
	if p.Host != nil {
		q = q.Set("host", *p.Host)
	}
	if p.CheckIn != nil {
		q = q.Set("check_in", nullTime(p.CheckIn.Value))
	}
	if p.CheckOut != nil {
		q = q.Set("check_out", nullTime(p.CheckOut.Value))
	}
	if p.Status != nil {
		q = q.Set("status", string(*p.Status))
	}

	query, args, err := q.Where(squirrel.Eq{"id": id}).Where(ownerScope(ownerID)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building visitor update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating visitor: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("updating visitor: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, id, "")
}

// Delete removes a visitor, scoped to ownerID when it is not empty.
func (s *VisitorStore) Delete(ctx context.Context, id, ownerID string) error {
	query, args, err := builder.Delete("visitors").
		Where(squirrel.Eq{"id": id}).
		Where(ownerScope(ownerID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building visitor delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting visitor: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting visitor: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPhoto stores a visitor's photo (JPEG bytes).
func (s *VisitorStore) SetPhoto(ctx context.Context, id, ownerID string, photo []byte) error {
	query, args, err := builder.Update("visitors").
		Set("photo", photo).
		Set("updated_at", now()).
		Where(squirrel.Eq{"id": id}).
		Where(ownerScope(ownerID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building photo update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("setting visitor photo: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("setting visitor photo: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Photo returns a visitor's photo. ErrNotFound covers both a missing
// visitor and a visitor without a photo.
func (s *VisitorStore) Photo(ctx context.Context, id, ownerID string) ([]byte, error) {
	query, args, err := builder.Select("photo").
		From("visitors").
		Where(squirrel.Eq{"id": id}).
		Where(ownerScope(ownerID)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building photo query: %w", err)
	}

	var photo []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&photo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting visitor photo: %w", err)
	}
	if photo == nil {
		return nil, ErrNotFound
	}
	return photo, nil
}
