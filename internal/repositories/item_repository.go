package repositories

import (
	"context"
	"time"

	"shop-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ItemRepository struct {
	DB *pgxpool.Pool
}

func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{DB: db}
}

const itemSelect = `
	SELECT i.id, i.category_id, COALESCE(c.name, ''), i.name, i.quantity,
	       i.quantity_updated_at, i.created_at, i.updated_at
	FROM items i
	LEFT JOIN categories c ON c.id = i.category_id
`

func scanItem(row pgx.Row) (*models.Item, error) {
	var it models.Item
	err := row.Scan(
		&it.ID, &it.CategoryID, &it.CategoryName, &it.Name, &it.Quantity,
		&it.QuantityUpdatedAt, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r *ItemRepository) queryItems(ctx context.Context, query string, args ...any) ([]*models.Item, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List returns items, optionally limited to one category
func (r *ItemRepository) List(ctx context.Context, categoryID *int) ([]*models.Item, error) {
	if categoryID != nil {
		return r.queryItems(ctx, itemSelect+` WHERE i.category_id = $1 ORDER BY i.name`, *categoryID)
	}
	return r.queryItems(ctx, itemSelect+` ORDER BY c.name, i.name`)
}

// ListOrdered returns items with a pending quantity, sorted by category
// name then item name
func (r *ItemRepository) ListOrdered(ctx context.Context) ([]*models.Item, error) {
	return r.queryItems(ctx, itemSelect+` WHERE i.quantity > 0 ORDER BY c.name, i.name`)
}

func (r *ItemRepository) Get(ctx context.Context, id int) (*models.Item, error) {
	return scanItem(r.DB.QueryRow(ctx, itemSelect+` WHERE i.id = $1`, id))
}

func (r *ItemRepository) FindByNameAndCategory(ctx context.Context, name string, categoryID int) (*models.Item, error) {
	query := itemSelect + ` WHERE i.name = $1 AND i.category_id = $2 ORDER BY i.id LIMIT 1`
	return scanItem(r.DB.QueryRow(ctx, query, name, categoryID))
}

func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (category_id, name, quantity, quantity_updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query, item.CategoryID, item.Name, item.Quantity, item.QuantityUpdatedAt).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	return translate(err)
}

func (r *ItemRepository) Rename(ctx context.Context, id int, name string) (*models.Item, error) {
	if _, err := r.DB.Exec(ctx, `UPDATE items SET name = $2, updated_at = NOW() WHERE id = $1`, id, name); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// SetQuantity stores a new pending quantity and stamps when it changed
func (r *ItemRepository) SetQuantity(ctx context.Context, id, quantity int, at time.Time) (*models.Item, error) {
	query := `UPDATE items SET quantity = $2, quantity_updated_at = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.DB.Exec(ctx, query, id, quantity, at); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *ItemRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ResetQuantities zeroes the given items, or every item when ids is nil
func (r *ItemRepository) ResetQuantities(ctx context.Context, ids []int) (int64, error) {
	query := `UPDATE items SET quantity = 0, quantity_updated_at = NULL, updated_at = NOW() WHERE quantity > 0`
	var args []any
	if ids != nil {
		query += ` AND id = ANY($1)`
		args = append(args, ids)
	}
	tag, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ResetOrdered zeroes the items captured by an order, skipping any whose
// quantity changed after the snapshot (snapshot maps item id to quantity).
func (r *ItemRepository) ResetOrdered(ctx context.Context, snapshot map[int]int) (int64, error) {
	if len(snapshot) == 0 {
		return 0, nil
	}
	ids := make([]int32, 0, len(snapshot))
	qtys := make([]int32, 0, len(snapshot))
	for id, qty := range snapshot {
		ids = append(ids, int32(id))
		qtys = append(qtys, int32(qty))
	}
	query := `
		UPDATE items i SET quantity = 0, quantity_updated_at = NULL, updated_at = NOW()
		FROM unnest($1::int[], $2::int[]) AS s(id, quantity)
		WHERE i.id = s.id AND i.quantity = s.quantity AND i.quantity > 0
	`
	tag, err := r.DB.Exec(ctx, query, ids, qtys)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ResetStale zeroes pending quantities last changed before cutoff
func (r *ItemRepository) ResetStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE items SET quantity = 0, quantity_updated_at = NULL, updated_at = NOW()
		WHERE quantity > 0 AND (quantity_updated_at IS NULL OR quantity_updated_at < $1)
	`
	tag, err := r.DB.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
