package repomanager

import (
	"context"
	"database/sql"

	"github.com/apponta/apponta-server/internal/dbx"
	"github.com/apponta/apponta-server/internal/server/repositories/articles"
	"github.com/apponta/apponta-server/internal/server/repositories/categories"
	"github.com/apponta/apponta-server/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// repository code runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Categories(db dbx.DBTX) categories.Repository
	Articles(db dbx.DBTX) articles.Repository
}
