package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/apponta/apponta-server/internal/logging"
	"github.com/apponta/apponta-server/internal/server/accounts"
	"github.com/apponta/apponta-server/internal/server/articles"
	"github.com/apponta/apponta-server/internal/server/auth"
	"github.com/apponta/apponta-server/internal/server/categories"
	"github.com/apponta/apponta-server/internal/server/config"
	"github.com/apponta/apponta-server/internal/server/identity"
	"github.com/apponta/apponta-server/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

// newRouter wires real services over a mocked database. Tests here only
// exercise paths that fail before any statement runs, so no expectations are
// registered on the mock.
func newRouter(t *testing.T) (http.Handler, *Server) {
	t.Helper()

	db, _, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Hour}
	rm := repomanager.NewPostgresRepositoryManager()

	s := NewServer(":0", "http://localhost:3000", logger,
		accounts.NewService(db, rm, identity.NewInMemoryProvider(), logger, cfg),
		categories.NewService(db, rm, logger),
		articles.NewService(db, rm),
		cfg.SecretKey)

	return s.Routes(), s
}

func do(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h, _ := newRouter(t)

	rec := do(h, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegister_InvalidBody(t *testing.T) {
	h, _ := newRouter(t)

	rec := do(h, http.MethodPost, "/register", "{not json", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_TermsNotAccepted(t *testing.T) {
	h, _ := newRouter(t)

	rec := do(h, http.MethodPost, "/register",
		`{"name":"Ana","email":"ana@x.com","password":"pw1234","terms_accepted":false}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "terms")
}

func TestLogin_UnknownAccount(t *testing.T) {
	h, _ := newRouter(t)

	rec := do(h, http.MethodPost, "/login",
		`{"email":"ghost@x.com","password":"pw1234"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutes_RejectWithoutToken(t *testing.T) {
	h, _ := newRouter(t)

	for _, path := range []string{"/user/1", "/categories/1", "/articles/category/1"} {
		rec := do(h, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}
}

func TestGetUser_InvalidID(t *testing.T) {
	h, s := newRouter(t)

	token, err := auth.GenerateToken(1, s.jwtSecret, time.Hour)
	require.NoError(t, err)

	rec := do(h, http.MethodGet, "/user/abc", "", token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArticlesByDate_MissingDate(t *testing.T) {
	h, s := newRouter(t)

	token, err := auth.GenerateToken(1, s.jwtSecret, time.Hour)
	require.NoError(t, err)

	rec := do(h, http.MethodGet, "/articles/date/1", "", token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetArticlePriority_RequiresFlag(t *testing.T) {
	h, s := newRouter(t)

	token, err := auth.GenerateToken(1, s.jwtSecret, time.Hour)
	require.NoError(t, err)

	rec := do(h, http.MethodPut, "/articles/5/priority", `{}`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
