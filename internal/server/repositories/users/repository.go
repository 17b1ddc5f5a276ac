package users

import (
	"context"

	"github.com/apponta/apponta-server/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmailAndExternalID(ctx context.Context, email, externalID string) (*models.User, error)
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateEmail(ctx context.Context, id int64, email string) error
	Delete(ctx context.Context, id int64) error
}
