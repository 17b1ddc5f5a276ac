package articles

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/apponta/apponta-server/internal/common"
	"github.com/apponta/apponta-server/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

func errNoRows() error { return sql.ErrNoRows }

func now() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

func newServiceWithMock(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewService(db, repomanager.NewPostgresRepositoryManager()), mock
}

func TestCreate_RequiresTitle(t *testing.T) {
	s, _ := newServiceWithMock(t)

	_, err := s.Create(context.Background(), "  ", "body", false, 10)
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestCreate_MissingCategory(t *testing.T) {
	s, mock := newServiceWithMock(t)

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+categories\s+WHERE\s+id`).
		WithArgs(int64(99)).
		WillReturnError(errNoRows())

	_, err := s.Create(context.Background(), "Note A", "body", false, 99)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate_InheritsOwnerFromCategory(t *testing.T) {
	s, mock := newServiceWithMock(t)

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+categories\s+WHERE\s+id`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "icon", "color", "user_id"}).
			AddRow(int64(10), "Work", "b", "blue", int64(7)))

	mock.ExpectQuery(`INSERT\s+INTO\s+articles`).
		WithArgs("Note A", "body", false, int64(10), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(100), now(), now()))

	a, err := s.Create(context.Background(), "Note A", "body", false, 10)
	require.NoError(t, err)
	require.Equal(t, int64(100), a.ID)
	require.Equal(t, int64(7), a.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByDate_InvalidDate(t *testing.T) {
	s, _ := newServiceWithMock(t)

	_, err := s.ListByDate(context.Background(), 1, "not-a-date")
	require.ErrorIs(t, err, common.ErrorValidation)
}
