package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/apponta/apponta-server/internal/common"
	"github.com/apponta/apponta-server/internal/dbx"
	"github.com/apponta/apponta-server/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (name, email, terms_accepted, external_id)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.TermsAccepted, user.ExternalID).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, name, email, terms_accepted, external_id, created_at FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Name, &user.Email, &user.TermsAccepted, &user.ExternalID, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmailAndExternalID(ctx context.Context, email, externalID string) (*models.User, error) {
	query :=
		`SELECT id, name, email, terms_accepted, external_id, created_at FROM users
		 WHERE email = $1 AND external_id = $2
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email, externalID).
		Scan(&user.ID, &user.Name, &user.Email, &user.TermsAccepted, &user.ExternalID, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdateName(ctx context.Context, id int64, name string) error {
	return r.exec(ctx, `UPDATE users SET name = $1 WHERE id = $2`, name, id)
}

func (r *PostgresRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	return r.exec(ctx, `UPDATE users SET email = $1 WHERE id = $2`, email, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = $1`, id)
}

// exec runs a statement that must affect exactly one existing row.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
