package repositories

import (
	"context"

	"shop-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository struct {
	DB *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

const categoryColumns = `id, name, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// List returns all categories, newest first
func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Get(ctx context.Context, id int) (*models.Category, error) {
	return scanCategory(r.DB.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return scanCategory(r.DB.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name))
}

func (r *CategoryRepository) Create(ctx context.Context, name string) (*models.Category, error) {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING ` + categoryColumns
	return scanCategory(r.DB.QueryRow(ctx, query, name))
}

func (r *CategoryRepository) Rename(ctx context.Context, id int, name string) (*models.Category, error) {
	query := `UPDATE categories SET name = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + categoryColumns
	return scanCategory(r.DB.QueryRow(ctx, query, id, name))
}

// Delete removes the category and every item in it
func (r *CategoryRepository) Delete(ctx context.Context, id int) (int64, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	items, err := tx.Exec(ctx, `DELETE FROM items WHERE category_id = $1`, id)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, models.ErrNotFound
	}
	return items.RowsAffected(), tx.Commit(ctx)
}
