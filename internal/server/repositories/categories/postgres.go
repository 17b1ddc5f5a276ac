package categories

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

func (r *PostgresRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {

	query :=
		`INSERT INTO categories (name, icon, color, user_id)
         VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		category.Name, category.Icon, category.Color, category.UserID).Scan(&category.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return category, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query :=
		`SELECT id, name, icon, color, user_id FROM categories
		 WHERE id = $1
		 `

	c := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.UserID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, name, icon, color string) error {
	query := `UPDATE categories SET name = $1, icon = $2, color = $3 WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, name, icon, color, id)
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

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}

// ListByUser returns the user's categories together with the number of
// articles in each one.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Category, error) {
	query :=
		`SELECT c.id, c.name, c.icon, c.color, c.user_id, COUNT(a.id) AS article_count
		 FROM categories c
		 LEFT JOIN articles a ON a.category_id = c.id
		 WHERE c.user_id = $1
		 GROUP BY c.id
		 ORDER BY c.id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.UserID, &c.ArticleCount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) SearchByName(ctx context.Context, userID int64, query string) ([]*models.Category, error) {
	q :=
		`SELECT id, name, icon, color, user_id FROM categories
		 WHERE user_id = $1 AND name ILIKE '%' || $2 || '%'
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, q, userID, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.UserID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
