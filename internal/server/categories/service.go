// Package categories implements category operations, including the atomic
// cascading delete (articles first, then the category, one transaction).
package categories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/apponta/apponta-server/internal/common"
	"github.com/apponta/apponta-server/internal/dbx"
	"github.com/apponta/apponta-server/internal/logging"
	"github.com/apponta/apponta-server/internal/server/models"
	"github.com/apponta/apponta-server/internal/server/repositories/repomanager"
)

// SearchResult is the combined outcome of a category/article text search.
type SearchResult struct {
	Categories []*models.Category
	Articles   []*models.Article
}

type Service struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	logger logging.Logger
}

func NewService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *Service {
	return &Service{db: db, rm: rm, logger: logger.With("module", "categories")}
}

func (s *Service) Create(ctx context.Context, name, icon, color string, userID int64) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", common.ErrorValidation)
	}

	category := &models.Category{Name: name, Icon: icon, Color: color, UserID: userID}
	return s.rm.Categories(s.db).Create(ctx, category)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Category, error) {
	return s.rm.Categories(s.db).GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, name, icon, color string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	return s.rm.Categories(s.db).Update(ctx, id, name, icon, color)
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*models.Category, error) {
	return s.rm.Categories(s.db).ListByUser(ctx, userID)
}

// Delete removes the category and every article inside it as one
// transaction. Deleting a missing category fails with ErrorNotFound and
// retains nothing, even though articles are deleted first inside the
// transaction.
func (s *Service) Delete(ctx context.Context, id int64) error {

	var removed int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.rm.Articles(tx).DeleteByCategory(ctx, id)
		if err != nil {
			return err
		}
		removed = n

		affected, err := s.rm.Categories(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			// rolls back the article deletes above
			return common.ErrorNotFound
		}
		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info(ctx, "category deleted", "category_id", id, "articles_removed", removed)
	return nil
}

// Search runs the combined name/title/body text search over the user's
// categories and articles.
func (s *Service) Search(ctx context.Context, userID int64, query string) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", common.ErrorValidation)
	}

	cats, err := s.rm.Categories(s.db).SearchByName(ctx, userID, query)
	if err != nil {
		return nil, err
	}

	arts, err := s.rm.Articles(s.db).SearchByText(ctx, userID, query)
	if err != nil {
		return nil, err
	}

	return &SearchResult{Categories: cats, Articles: arts}, nil
}
