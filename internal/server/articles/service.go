// Package articles implements article operations. Everything here is
// single-statement glue over the repository; the only coordination is the
// existence check on the owning category at creation time.
package articles

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/apponta/apponta-server/internal/common"
	"github.com/apponta/apponta-server/internal/server/models"
	"github.com/apponta/apponta-server/internal/server/repositories/repomanager"
)

type Service struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewService(db *sql.DB, rm repomanager.RepositoryManager) *Service {
	return &Service{db: db, rm: rm}
}

func (s *Service) Create(ctx context.Context, title, body string, priority bool, categoryID int64) (*models.Article, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}

	category, err := s.rm.Categories(s.db).GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:      title,
		Body:       body,
		Priority:   priority,
		CategoryID: category.ID,
		UserID:     category.UserID,
	}
	return s.rm.Articles(s.db).Create(ctx, article)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Article, error) {
	return s.rm.Articles(s.db).GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, title, body string, priority bool, categoryID int64) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	return s.rm.Articles(s.db).Update(ctx, id, title, body, priority, categoryID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.rm.Articles(s.db).Delete(ctx, id)
}

func (s *Service) ListByCategory(ctx context.Context, categoryID int64) ([]*models.Article, error) {
	return s.rm.Articles(s.db).ListByCategory(ctx, categoryID)
}

func (s *Service) ListByPriority(ctx context.Context, userID int64) ([]*models.Article, error) {
	return s.rm.Articles(s.db).ListByPriority(ctx, userID)
}

func (s *Service) SetPriority(ctx context.Context, id int64, priority bool) error {
	return s.rm.Articles(s.db).SetPriority(ctx, id, priority)
}

// ListByDate returns the user's articles created on the given day
// ("2006-01-02").
func (s *Service) ListByDate(ctx context.Context, userID int64, date string) ([]*models.Article, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", common.ErrorValidation, date)
	}
	return s.rm.Articles(s.db).ListByDate(ctx, userID, day)
}
