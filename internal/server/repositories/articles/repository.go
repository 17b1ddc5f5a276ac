package articles

import (
	"context"
	"time"

	"github.com/apponta/apponta-server/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, article *models.Article) (*models.Article, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	Update(ctx context.Context, id int64, title, body string, priority bool, categoryID int64) error
	Delete(ctx context.Context, id int64) error
	// DeleteByCategory removes every article in the category and reports how
	// many rows were affected.
	DeleteByCategory(ctx context.Context, categoryID int64) (int64, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*models.Article, error)
	ListByPriority(ctx context.Context, userID int64) ([]*models.Article, error)
	SetPriority(ctx context.Context, id int64, priority bool) error
	ListByDate(ctx context.Context, userID int64, day time.Time) ([]*models.Article, error)
	SearchByText(ctx context.Context, userID int64, query string) ([]*models.Article, error)
}
