package repositories

import (
	"context"
	"errors"
	"time"

	"shop-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `id, email, message, items, status, verified_by, sent_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.Email, &o.Message, &o.Items, &o.Status,
		&o.VerifiedBy, &o.SentAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	if o.Items == nil {
		o.Items = []models.OrderLine{}
	}
	return &o, nil
}

// Create stores a new order; items are kept as a JSONB snapshot
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	query := `
		INSERT INTO orders (email, message, items, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query, o.Email, o.Message, o.Items, o.Status).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return translate(err)
}

// List returns the order history, newest first
func (r *OrderRepository) List(ctx context.Context) ([]*models.Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) Get(ctx context.Context, id int) (*models.Order, error) {
	return scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

// Claim moves a pending order to verified. Only one caller can win the claim.
func (r *OrderRepository) Claim(ctx context.Context, id int, verifiedBy string) (*models.Order, error) {
	query := `
		UPDATE orders SET status = 'verified', verified_by = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + orderColumns
	return r.transition(ctx, id, query, id, verifiedBy)
}

// transition runs a status update guarded by a WHERE on the current status.
// No row back means either a missing order or one in another status.
func (r *OrderRepository) transition(ctx context.Context, id int, query string, args ...any) (*models.Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, query, args...))
	if errors.Is(err, models.ErrNotFound) {
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, models.ErrOrderAlreadySent
	}
	return o, err
}

// MarkSent completes a verified order
func (r *OrderRepository) MarkSent(ctx context.Context, id int, at time.Time) (*models.Order, error) {
	query := `
		UPDATE orders SET status = 'sent', sent_at = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'verified'
		RETURNING ` + orderColumns
	return r.transition(ctx, id, query, id, at)
}

// Release returns a verified order to pending after a failed send
func (r *OrderRepository) Release(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE orders SET status = 'pending', verified_by = '', updated_at = NOW() WHERE id = $1 AND status = 'verified'`, id)
	return err
}
