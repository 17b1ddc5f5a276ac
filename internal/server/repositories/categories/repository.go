package categories

import (
	"context"

	"github.com/apponta/apponta-server/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	Update(ctx context.Context, id int64, name, icon, color string) error
	// Delete removes the category row and reports how many rows were
	// affected; it does not touch dependent articles.
	Delete(ctx context.Context, id int64) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Category, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	SearchByName(ctx context.Context, userID int64, query string) ([]*models.Category, error)
}
