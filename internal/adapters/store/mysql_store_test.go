package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMySQLStore(t *testing.T) (*MySQLStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS disposable_domains").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := NewMySQLStoreFromDB(context.Background(), db, zap.NewNop())
	require.NoError(t, err)
	return s, mock
}

func TestMySQLStoreIsMember(t *testing.T) {
	s, mock := setupMySQLStore(t)
	query := regexp.QuoteMeta("SELECT 1 FROM disposable_domains WHERE domain = ?")

	mock.ExpectQuery(query).
		WithArgs("mailinator.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(query).
		WithArgs("example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	ok, err := s.IsMember(context.Background(), "mailinator.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.IsMember(context.Background(), "example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStoreIsMemberError(t *testing.T) {
	s, mock := setupMySQLStore(t)

	mock.ExpectQuery("SELECT 1 FROM disposable_domains").
		WillReturnError(errors.New("server has gone away"))

	_, err := s.IsMember(context.Background(), "mailinator.com")
	assert.ErrorContains(t, err, "server has gone away")
}

func TestMySQLStoreReplaceAll(t *testing.T) {
	s, mock := setupMySQLStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM disposable_domains").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO disposable_domains (domain) VALUES (?),(?)")).
		WithArgs("mailinator.com", "yopmail.com").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, s.ReplaceAll(context.Background(), []string{"mailinator.com", "yopmail.com"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStoreReplaceAllBatches(t *testing.T) {
	s, mock := setupMySQLStore(t)

	domains := make([]string, mysqlBatchSize+1)
	for i := range domains {
		domains[i] = "d.test"
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM disposable_domains").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT IGNORE INTO disposable_domains").
		WillReturnResult(sqlmock.NewResult(0, mysqlBatchSize))
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO disposable_domains (domain) VALUES (?)")).
		WithArgs("d.test").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.ReplaceAll(context.Background(), domains))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStoreReplaceAllRollsBack(t *testing.T) {
	s, mock := setupMySQLStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM disposable_domains").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT IGNORE INTO disposable_domains").
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := s.ReplaceAll(context.Background(), []string{"mailinator.com"})
	assert.ErrorContains(t, err, "lock wait timeout")
	assert.NoError(t, mock.ExpectationsWereMet())
}
