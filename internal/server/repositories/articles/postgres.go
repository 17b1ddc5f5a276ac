package articles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/apponta/apponta-server/internal/common"
	"github.com/apponta/apponta-server/internal/dbx"
	"github.com/apponta/apponta-server/internal/server/models"
)

const articleColumns = `id, title, body, priority, category_id, user_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, article *models.Article) (*models.Article, error) {

	query :=
		`INSERT INTO articles (title, body, priority, category_id, user_id)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		article.Title, article.Body, article.Priority, article.CategoryID, article.UserID).
		Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return article, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	a := &models.Article{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.Title, &a.Body, &a.Priority, &a.CategoryID, &a.UserID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, title, body string, priority bool, categoryID int64) error {
	query :=
		`UPDATE articles SET title = $1, body = $2, priority = $3, category_id = $4, updated_at = now()
		 WHERE id = $5
		 `
	return r.exec(ctx, query, title, body, priority, categoryID, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
}

func (r *PostgresRepository) DeleteByCategory(ctx context.Context, categoryID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, categoryID int64) ([]*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE category_id = $1 ORDER BY id`
	return r.list(ctx, query, categoryID)
}

// ListByPriority returns the user's flagged articles, newest first.
func (r *PostgresRepository) ListByPriority(ctx context.Context, userID int64) ([]*models.Article, error) {
	query :=
		`SELECT ` + articleColumns + ` FROM articles
		 WHERE user_id = $1 AND priority
		 ORDER BY updated_at DESC
		 `
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) SetPriority(ctx context.Context, id int64, priority bool) error {
	return r.exec(ctx, `UPDATE articles SET priority = $1, updated_at = now() WHERE id = $2`, priority, id)
}

// ListByDate returns the user's articles created on the given calendar day.
func (r *PostgresRepository) ListByDate(ctx context.Context, userID int64, day time.Time) ([]*models.Article, error) {
	query :=
		`SELECT ` + articleColumns + ` FROM articles
		 WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		 ORDER BY created_at
		 `

	start := day.Truncate(24 * time.Hour)
	return r.list(ctx, query, userID, start, start.Add(24*time.Hour))
}

func (r *PostgresRepository) SearchByText(ctx context.Context, userID int64, query string) ([]*models.Article, error) {
	q :=
		`SELECT ` + articleColumns + ` FROM articles
		 WHERE user_id = $1 AND (title ILIKE '%' || $2 || '%' OR body ILIKE '%' || $2 || '%')
		 ORDER BY id
		 `
	return r.list(ctx, q, userID, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Article
	for rows.Next() {
		a := &models.Article{}
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.Priority, &a.CategoryID, &a.UserID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

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
