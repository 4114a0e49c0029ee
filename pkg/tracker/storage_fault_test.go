package tracker

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB opens a gorm handle over a sqlmock connection so tests can
// inject faults that an in-memory sqlite cannot produce.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func projectRows(id int64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "description", "board_id", "status", "created_at", "updated_at"}).
		AddRow(id, "P", "d", int64(1), status, now, now)
}

func TestGetSurfacesStorageError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewProjectStore(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "projects"`).WillReturnError(errors.New("connection reset"))

	_, err := store.Get(1)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.ErrorContains(t, se.Err, "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListSurfacesStorageError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewTicketStore(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "tickets"`).WillReturnError(sql.ErrConnDone)

	_, err := store.List(0, 10)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The transition transaction must roll back when the history insert fails
// after the status update already went through.
func TestTransitionRollsBackOnHistoryInsertFault(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewTransitionService(db, NewHistoryStore(db, nil), nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "projects"`).WillReturnRows(projectRows(5, "New"))
	mock.ExpectExec(`UPDATE "projects" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "projects"`).WillReturnRows(projectRows(5, "Done"))
	mock.ExpectQuery(`INSERT INTO "history"`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := svc.TransitionProject(5, "Done", 7)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.ErrorContains(t, se.Err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

// A fault during the status update itself must also roll back before any
// history write is attempted.
func TestTransitionRollsBackOnStatusUpdateFault(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewTransitionService(db, NewHistoryStore(db, nil), nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "projects"`).WillReturnRows(projectRows(5, "New"))
	mock.ExpectExec(`UPDATE "projects" SET`).WillReturnError(errors.New("serialization failure"))
	mock.ExpectRollback()

	_, err := svc.TransitionProject(5, "Done", 7)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	require.NoError(t, mock.ExpectationsWereMet())
}
