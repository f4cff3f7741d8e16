package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/visitorlog/internal/db"
	"github.com/erazemk/visitorlog/internal/model"
)

func ptr[T any](v T) *T { return &v }

func newVisitorStore(t *testing.T) (*VisitorStore, *UserStore) {
	t.Helper()
	database := db.NewTestDB(t)
	return NewVisitorStore(database), NewUserStore(database)
}

func createOwner(t *testing.T, users *UserStore, email string) *model.User {
	t.Helper()
	u, err := users.Create(context.Background(), "Owner", email, "hash")
	require.NoError(t, err)
	return u
}

func TestVisitorStore_CreateAndGet(t *testing.T) {
	visitors, users := newVisitorStore(t)
	ctx := context.Background()
	owner := createOwner(t, users, "owner@example.com")

	checkIn := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	created, err := visitors.Create(ctx, &model.Visitor{
		UserID:  owner.ID,
		Name:    "  Ana Novak ",
		Phone:   "0401234567",
		Purpose: "Interview",
		Host:    "Marko",
		CheckIn: &checkIn,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, owner.ID, created.UserID)
	assert.Equal(t, "Ana Novak", created.Name)
	assert.Equal(t, model.StatusIn, created.Status)
	require.NotNil(t, created.CheckIn)
	assert.True(t, checkIn.Equal(*created.CheckIn))
	assert.Nil(t, created.CheckOut)
	assert.False(t, created.HasPhoto)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := visitors.Get(ctx, created.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	_, err = visitors.Get(ctx, created.ID, "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = visitors.Get(ctx, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVisitorStore_CreateRejectsBlankName(t *testing.T) {
	visitors, _ := newVisitorStore(t)

	_, err := visitors.Create(context.Background(), &model.Visitor{Name: "   "})
	assert.Error(t, err)
}

func TestVisitorStore_ListByOwner(t *testing.T) {
	visitors, users := newVisitorStore(t)
	ctx := context.Background()
	alice := createOwner(t, users, "alice@example.com")
	bob := createOwner(t, users, "bob@example.com")

	for _, name := range []string{"First", "Second", "Third"} {
		_, err := visitors.Create(ctx, &model.Visitor{UserID: alice.ID, Name: name})
		require.NoError(t, err)
	}
	_, err := visitors.Create(ctx, &model.Visitor{UserID: bob.ID, Name: "Other"})
	require.NoError(t, err)
	_, err = visitors.Create(ctx, &model.Visitor{Name: "Anonymous"})
	require.NoError(t, err)

	list, err := visitors.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Third", list[0].Name)
	assert.Equal(t, "Second", list[1].Name)
	assert.Equal(t, "First", list[2].Name)

	list, err = visitors.ListByOwner(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Anonymous", list[0].Name)

	none := createOwner(t, users, "none@example.com")
	list, err = visitors.ListByOwner(ctx, none.ID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestVisitorStore_UpdatePartial(t *testing.T) {
	visitors, users := newVisitorStore(t)
	ctx := context.Background()
	owner := createOwner(t, users, "owner@example.com")

	checkIn := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	created, err := visitors.Create(ctx, &model.Visitor{
		UserID: owner.ID, Name: "Ana", Phone: "0401234567", Host: "Marko", CheckIn: &checkIn,
	})
	require.NoError(t, err)

	updated, err := visitors.Update(ctx, created.ID, owner.ID, &model.VisitorPatch{Name: ptr("Ana Kovač")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Kovač", updated.Name)
	assert.Equal(t, "0401234567", updated.Phone)
	assert.Equal(t, "Marko", updated.Host)
	require.NotNil(t, updated.CheckIn)
	assert.True(t, checkIn.Equal(*updated.CheckIn))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	checkOut := checkIn.Add(2 * time.Hour)
	updated, err = visitors.Update(ctx, created.ID, owner.ID, &model.VisitorPatch{
		CheckIn:  &model.TimeUpdate{},
		CheckOut: &model.TimeUpdate{Value: &checkOut},
		Status:   ptr(model.StatusOut),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CheckIn)
	require.NotNil(t, updated.CheckOut)
	assert.True(t, checkOut.Equal(*updated.CheckOut))
	assert.Equal(t, model.StatusOut, updated.Status)
}

func TestVisitorStore_UpdateErrors(t *testing.T) {
	visitors, users := newVisitorStore(t)
	ctx := context.Background()
	owner := createOwner(t, users, "owner@example.com")
	created, err := visitors.Create(ctx, &model.Visitor{UserID: owner.ID, Name: "Ana"})
	require.NoError(t, err)

	_, err = visitors.Update(ctx, "missing", "", &model.VisitorPatch{Name: ptr("X")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = visitors.Update(ctx, created.ID, "someone-else", &model.VisitorPatch{Name: ptr("X")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = visitors.Update(ctx, created.ID, owner.ID, &model.VisitorPatch{Name: ptr("  ")})
	assert.Error(t, err)

	bad := model.Status("Maybe")
	_, err = visitors.Update(ctx, created.ID, owner.ID, &model.VisitorPatch{Status: &bad})
	assert.Error(t, err)

	got, err := visitors.Get(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, model.StatusIn, got.Status)
}

func TestVisitorStore_Delete(t *testing.T) {
	visitors, users := newVisitorStore(t)
	ctx := context.Background()
	owner := createOwner(t, users, "owner@example.com")
	created, err := visitors.Create(ctx, &model.Visitor{UserID: owner.ID, Name: "Ana"})
	require.NoError(t, err)

	assert.ErrorIs(t, visitors.Delete(ctx, created.ID, "someone-else"), ErrNotFound)
	require.NoError(t, visitors.Delete(ctx, created.ID, owner.ID))
	assert.ErrorIs(t, visitors.Delete(ctx, created.ID, owner.ID), ErrNotFound)

	_, err = visitors.Get(ctx, created.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVisitorStore_Photo(t *testing.T) {
	visitors, _ := newVisitorStore(t)
	ctx := context.Background()
	created, err := visitors.Create(ctx, &model.Visitor{Name: "Ana"})
	require.NoError(t, err)

	_, err = visitors.Photo(ctx, created.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)

	photo := []byte{0xff, 0xd8, 0xff, 0xe0}
	require.NoError(t, visitors.SetPhoto(ctx, created.ID, "", photo))

	got, err := visitors.Photo(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, photo, got)

	v, err := visitors.Get(ctx, created.ID, "")
	require.NoError(t, err)
	assert.True(t, v.HasPhoto)

	assert.ErrorIs(t, visitors.SetPhoto(ctx, "missing", "", photo), ErrNotFound)
}

func TestVisitorStore_OwnerDeletedKeepsVisitor(t *testing.T) {
	visitors, users := newVisitorStore(t)
	ctx := context.Background()
	owner := createOwner(t, users, "owner@example.com")
	created, err := visitors.Create(ctx, &model.Visitor{UserID: owner.ID, Name: "Ana"})
	require.NoError(t, err)

	_, err = users.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", owner.ID)
	require.NoError(t, err)

	got, err := visitors.Get(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Empty(t, got.UserID)
}

var errRowsAffected = errors.New("rows affected unavailable")

// rowsAffectedErrConnector opens connections whose exec results cannot
// report a row count.
type rowsAffectedErrConnector struct{}

func (rowsAffectedErrConnector) Connect(context.Context) (driver.Conn, error) {
	return rowsAffectedErrConn{}, nil
}
func (c rowsAffectedErrConnector) Driver() driver.Driver { return c }
func (rowsAffectedErrConnector) Open(string) (driver.Conn, error) {
	return rowsAffectedErrConn{}, nil
}

type rowsAffectedErrConn struct{}

func (rowsAffectedErrConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (rowsAffectedErrConn) Close() error { return nil }
func (rowsAffectedErrConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}
func (rowsAffectedErrConn) ExecContext(context.Context, string, []driver.NamedValue) (driver.Result, error) {
	return rowsAffectedErrResult{}, nil
}

type rowsAffectedErrResult struct{}

func (rowsAffectedErrResult) LastInsertId() (int64, error) { return 0, errRowsAffected }
func (rowsAffectedErrResult) RowsAffected() (int64, error) { return 0, errRowsAffected }

func TestVisitorStore_RowsAffectedError(t *testing.T) {
	database := sql.OpenDB(rowsAffectedErrConnector{})
	t.Cleanup(func() { database.Close() })
	visitors := NewVisitorStore(database)
	ctx := context.Background()

	err := visitors.SetPhoto(ctx, "some-id", "", []byte{0xff, 0xd8})
	assert.ErrorIs(t, err, errRowsAffected)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = visitors.Update(ctx, "some-id", "", &model.VisitorPatch{Name: ptr("Ana")})
	assert.ErrorIs(t, err, errRowsAffected)

	err = visitors.Delete(ctx, "some-id", "")
	assert.ErrorIs(t, err, errRowsAffected)
}
