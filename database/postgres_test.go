package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster-server/models"
)

const testUUID = "0b9f7c3e-5d2a-4b61-8f4e-2c7a9d1e6f30"

func newMockStore(t *testing.T) (*PostgresTaskStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresTaskStore(db), mock
}

func TestPostgresTaskStore_FindAll(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow(testUUID, []byte(`{"title":"buy milk","qty":3,"price":1.5,"_id":"spoofed"}`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM tasks ORDER BY created_at, id`)).
		WillReturnRows(rows)

	tasks, err := store.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.Task{
		"_id":   testUUID,
		"title": "buy milk",
		"qty":   int32(3),
		"price": 1.5,
	}, tasks[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_FindAllEmpty(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT id, doc FROM tasks`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))

	tasks, err := store.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestPostgresTaskStore_FindByStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE doc @> $1::jsonb`)).
		WithArgs(`{"status":"archive"}`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow(testUUID, []byte(`{"status":"archive"}`)))

	tasks, err := store.FindByStatus(context.Background(), models.StatusArchive)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "archive", tasks[0]["status"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_FindByID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM tasks WHERE id = $1`)).
		WithArgs(testUUID).
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow([]byte(`{"title":"buy milk"}`)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM tasks WHERE id = $1`)).
		WithArgs(testUUID).
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))

	task, err := store.FindByID(context.Background(), testUUID)
	require.NoError(t, err)
	assert.Equal(t, models.Task{"_id": testUUID, "title": "buy milk"}, task)

	task, err = store.FindByID(context.Background(), testUUID)
	require.NoError(t, err)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_Insert(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO tasks`).
		WithArgs(sqlmock.AnyArg(), `{"title":"buy milk"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := store.Insert(context.Background(), models.Task{"title": "buy milk"})
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	assert.NoError(t, parseUUID(res.InsertedID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_DeleteByID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1`)).
		WithArgs(testUUID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1`)).
		WithArgs(testUUID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := store.DeleteByID(context.Background(), testUUID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.DeleteByID(context.Background(), testUUID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_UpdateFields(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks SET doc = doc || $2::jsonb WHERE id = $1`)).
		WithArgs(testUUID, `{"status":"archive"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := store.UpdateFields(context.Background(), testUUID, models.Task{"status": "archive"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_Errors(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	_, err := store.FindByID(ctx, "not-a-uuid")
	assert.True(t, errors.Is(err, models.ErrInvalidID))
	_, err = store.DeleteByID(ctx, "not-a-uuid")
	assert.True(t, errors.Is(err, models.ErrInvalidID))
	_, err = store.UpdateFields(ctx, "not-a-uuid", models.Task{})
	assert.True(t, errors.Is(err, models.ErrInvalidID))

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT id, doc FROM tasks`).WillReturnError(boom)
	_, err = store.FindAll(ctx)
	assert.ErrorIs(t, err, boom)

	mock.ExpectExec(`INSERT INTO tasks`).WillReturnError(boom)
	_, err = store.Insert(ctx, models.Task{})
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_NonCanonicalIDsAreInvalid(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	for _, id := range nonCanonicalSpellings(testUUID) {
		_, err := store.FindByID(ctx, id)
		assert.ErrorIs(t, err, models.ErrInvalidID, id)

		_, err = store.DeleteByID(ctx, id)
		assert.ErrorIs(t, err, models.ErrInvalidID, id)

		_, err = store.UpdateFields(ctx, id, models.Task{"status": "archive"})
		assert.ErrorIs(t, err, models.ErrInvalidID, id)
	}

	// nenhuma query chega ao banco
	assert.NoError(t, mock.ExpectationsWereMet())
}
