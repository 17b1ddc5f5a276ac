// Package server initializes and runs the application server: it opens the
// database pool, runs migrations, picks the identity provider and starts the
// HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/apponta/apponta-server/internal/logging"
	"github.com/apponta/apponta-server/internal/server/accounts"
	"github.com/apponta/apponta-server/internal/server/articles"
	"github.com/apponta/apponta-server/internal/server/categories"
	"github.com/apponta/apponta-server/internal/server/config"
	"github.com/apponta/apponta-server/internal/server/httpapi"
	"github.com/apponta/apponta-server/internal/server/identity"
	"github.com/apponta/apponta-server/internal/server/repositories/repomanager"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	accountService  *accounts.Service
	categoryService *categories.Service
	articleService  *articles.Service
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var provider identity.Provider
	if c.IdentityAPIKey != "" {
		provider = identity.NewFirebaseProvider(c.IdentityEndpoint, c.IdentityAPIKey, c.IdentityTimeout)
	} else {
		logger.Warn(context.Background(), "no identity API key configured, using in-memory provider")
		provider = identity.NewInMemoryProvider()
	}

	as := accounts.NewService(db, rm, provider, logger, c)
	cs := categories.NewService(db, rm, logger)
	ars := articles.NewService(db, rm)

	return &App{
		config:          c,
		logger:          logger,
		db:              db,
		accountService:  as,
		categoryService: cs,
		articleService:  ars,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(
		app.config.EndpointAddrHTTP,
		app.config.CORSOrigin,
		app.logger,
		app.accountService,
		app.categoryService,
		app.articleService,
		app.config.SecretKey,
	)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
