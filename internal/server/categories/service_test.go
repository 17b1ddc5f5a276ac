package categories

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/apponta/apponta-server/internal/common"
	"github.com/apponta/apponta-server/internal/logging"
	"github.com/apponta/apponta-server/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

func newServiceWithMock(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(db, repomanager.NewPostgresRepositoryManager(), logger), mock
}

const (
	qDeleteArticles = `(?s)^DELETE\s+FROM\s+articles\s+WHERE\s+category_id\s*=\s*\$1$`
	qDeleteCategory = `(?s)^DELETE\s+FROM\s+categories\s+WHERE\s+id\s*=\s*\$1$`
)

func TestDelete_CascadesInsideOneTransaction(t *testing.T) {
	s, mock := newServiceWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(qDeleteArticles).WithArgs(int64(10)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(qDeleteCategory).WithArgs(int64(10)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Delete(context.Background(), 10))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_MissingCategory_RollsBackArticleDeletes(t *testing.T) {
	s, mock := newServiceWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(qDeleteArticles).WithArgs(int64(99)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(qDeleteCategory).WithArgs(int64(99)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.Delete(context.Background(), 99)
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet(), "article deletes must not be committed")
}

func TestDelete_StatementFailure_RollsBack(t *testing.T) {
	s, mock := newServiceWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(qDeleteArticles).WithArgs(int64(5)).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	err := s.Delete(context.Background(), 5)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Validation(t *testing.T) {
	s, _ := newServiceWithMock(t)

	_, err := s.Create(context.Background(), "  ", "icon", "blue", 1)
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Create(context.Background(), "Work", "icon", "blue", 0)
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestSearch_RequiresQuery(t *testing.T) {
	s, _ := newServiceWithMock(t)

	_, err := s.Search(context.Background(), 1, "   ")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestSearch_CombinesCategoriesAndArticles(t *testing.T) {
	s, mock := newServiceWithMock(t)

	mock.ExpectQuery(`(?s)SELECT\s+id,\s*name,\s*icon,\s*color,\s*user_id\s+FROM\s+categories`).
		WithArgs(int64(1), "note").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "icon", "color", "user_id"}).
			AddRow(int64(10), "Notes", "n", "blue", int64(1)))

	mock.ExpectQuery(`(?s)SELECT\s+.*\s+FROM\s+articles`).
		WithArgs(int64(1), "note").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body", "priority", "category_id", "user_id", "created_at", "updated_at"}))

	result, err := s.Search(context.Background(), 1, "note")
	require.NoError(t, err)
	require.Len(t, result.Categories, 1)
	require.Empty(t, result.Articles)
	require.NoError(t, mock.ExpectationsWereMet())
}
