package repositories

import (
	"context"

	"shop-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PayListRepository struct {
	DB *pgxpool.Pool
}

func NewPayListRepository(db *pgxpool.Pool) *PayListRepository {
	return &PayListRepository{DB: db}
}

const payListColumns = `id, date, check_no, paid_to, amount::float8, is_deleted, created_at, updated_at`

func scanPayListEntry(row pgx.Row) (*models.PayListEntry, error) {
	var e models.PayListEntry
	err := row.Scan(&e.ID, &e.Date, &e.CheckNo, &e.PaidTo, &e.Amount, &e.IsDeleted, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// List returns entries that are not soft-deleted, latest date first
func (r *PayListRepository) List(ctx context.Context) ([]*models.PayListEntry, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+payListColumns+` FROM pay_list WHERE NOT is_deleted ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*models.PayListEntry{}
	for rows.Next() {
		e, err := scanPayListEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Total sums the amounts of entries that are not soft-deleted
func (r *PayListRepository) Total(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)::float8 FROM pay_list WHERE NOT is_deleted`).Scan(&total)
	return total, err
}

func (r *PayListRepository) Create(ctx context.Context, e *models.PayListEntry) error {
	query := `
		INSERT INTO pay_list (date, check_no, paid_to, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_deleted, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query, e.Date, e.CheckNo, e.PaidTo, e.Amount).
		Scan(&e.ID, &e.IsDeleted, &e.CreatedAt, &e.UpdatedAt)
	return translate(err)
}

// ToggleDeleted flips the soft-delete flag
func (r *PayListRepository) ToggleDeleted(ctx context.Context, id int) (*models.PayListEntry, error) {
	query := `UPDATE pay_list SET is_deleted = NOT is_deleted, updated_at = NOW() WHERE id = $1 RETURNING ` + payListColumns
	return scanPayListEntry(r.DB.QueryRow(ctx, query, id))
}

// Delete removes the entry permanently
func (r *PayListRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM pay_list WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
