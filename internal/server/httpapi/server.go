// Package httpapi is the thin REST boundary: routing, status-code mapping
// and CORS. All domain logic lives in the services it delegates to.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/apponta/apponta-server/internal/logging"
	"github.com/apponta/apponta-server/internal/server/accounts"
	"github.com/apponta/apponta-server/internal/server/articles"
	"github.com/apponta/apponta-server/internal/server/categories"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Server struct {
	address    string
	corsOrigin string
	logger     logging.Logger
	accounts   *accounts.Service
	categories *categories.Service
	articles   *articles.Service
	jwtSecret  []byte
}

func NewServer(address, corsOrigin string, l logging.Logger, as *accounts.Service, cs *categories.Service, ars *articles.Service, secretKey string) *Server {
	return &Server{
		address:    address,
		corsOrigin: corsOrigin,
		logger:     l.With("module", "http_server"),
		accounts:   as,
		categories: cs,
		articles:   ars,
		jwtSecret:  []byte(secretKey),
	}
}

// Routes builds the router. Split out from Run so tests can drive the
// handler directly.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	var origins []string
	for _, p := range strings.Split(s.corsOrigin, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/user/{id}", s.handleGetUser)
		r.Put("/user/{id}/name", s.handleUpdateUserName)
		r.Put("/user/{id}/email", s.handleUpdateUserEmail)
		r.Put("/user/{id}/password", s.handleChangePassword)
		r.Delete("/user/{id}", s.handleDeleteUser)

		r.Post("/categories", s.handleCreateCategory)
		r.Put("/categories/{id}", s.handleUpdateCategory)
		r.Delete("/categories/{id}", s.handleDeleteCategory)
		r.Get("/categories/{userID}", s.handleListCategories)
		r.Get("/categories/article-count/{userID}", s.handleListCategories)
		r.Get("/search/{userID}", s.handleSearch)

		r.Post("/articles", s.handleCreateArticle)
		r.Get("/articles/priority", s.handleArticlesByPriority)
		r.Get("/articles/category/{categoryID}", s.handleArticlesByCategory)
		r.Get("/articles/date/{userID}", s.handleArticlesByDate)
		r.Put("/articles/{id}", s.handleUpdateArticle)
		r.Put("/articles/{id}/priority", s.handleSetArticlePriority)
		r.Delete("/articles/{id}", s.handleDeleteArticle)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
