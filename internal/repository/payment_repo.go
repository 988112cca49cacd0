package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"coursehub/internal/domain"
)

// PaymentOrderRepository persiste las sesiones de checkout emitidas.
type PaymentOrderRepository interface {
	Create(ctx context.Context, order domain.PaymentOrder) error
	GetByID(ctx context.Context, id string) (domain.PaymentOrder, error)
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
}

type PgPaymentOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPgPaymentOrderRepository(pool *pgxpool.Pool) *PgPaymentOrderRepository {
	return &PgPaymentOrderRepository{pool: pool}
}

func (r *PgPaymentOrderRepository) Create(ctx context.Context, order domain.PaymentOrder) error {
	const query = `
		INSERT INTO payment_orders (id, user_id, course_id, amount, status, snap_token, redirect_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.CourseID,
		order.Amount,
		order.Status,
		order.SnapToken,
		order.RedirectURL,
		order.CreatedAt,
		order.UpdatedAt,
	)
	return err
}

func (r *PgPaymentOrderRepository) GetByID(ctx context.Context, id string) (domain.PaymentOrder, error) {
	const query = `
		SELECT id, user_id, course_id, amount, status, snap_token, redirect_url, created_at, updated_at
		FROM payment_orders
		WHERE id = $1
	`
	var o domain.PaymentOrder
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.UserID, &o.CourseID, &o.Amount, &o.Status, &o.SnapToken, &o.RedirectURL, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return domain.PaymentOrder{}, err
	}
	return o, nil
}

func (r *PgPaymentOrderRepository) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	const query = `UPDATE payment_orders SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, status, updatedAt)
	return err
}
