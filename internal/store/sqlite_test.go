package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/logger"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

func newMockStore(t *testing.T) (*sqliteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &sqliteStore{db: db, log: logger.Nop()}, mock
}

func itemRows() *sqlmock.Rows {
	return sqlmock.NewRows(itemColumns)
}

func TestGetAllItems(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT .+ FROM clipboard_items").
		WillReturnRows(itemRows().
			AddRow("a", "text", "text", "hello", "hello", false, "", 100, 100, "dev-1", "ca", 5, false).
			AddRow("b", "image", "image", `{"path":"/tmp/x.png"}`, "", true, "", 200, 250, "dev-2", "cb", 1024, true))

	items, err := s.GetAllItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, models.TypeText, items[0].Type)
	assert.Equal(t, int64(100), items[0].LastModified)

	assert.Equal(t, models.TypeImage, items[1].Type)
	assert.True(t, items[1].Favorite)
	assert.True(t, items[1].Deleted)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetItem_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT .+ FROM clipboard_items WHERE").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetItem(context.Background(), "missing")
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpsertItem(t *testing.T) {
	s, mock := newMockStore(t)

	item := models.SyncItem{
		ID: "a", Type: models.TypeText, Group: models.GroupText,
		Value: "hello", CreateTime: 100, LastModified: 100,
		DeviceID: "dev-1", Checksum: "ca", Size: 5,
	}

	mock.ExpectExec("INSERT INTO clipboard_items").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.UpsertItem(context.Background(), item))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteItem(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM clipboard_items").
		WithArgs("a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.DeleteItem(context.Background(), "a"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertItem_ExecFails(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO clipboard_items").
		WillReturnError(assert.AnError)

	err := s.UpsertItem(context.Background(), models.SyncItem{ID: "a"})
	require.ErrorIs(t, err, ErrExecutingQuery)
}
