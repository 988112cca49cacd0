package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursehub/internal/domain"
)

// PurchaseRepository registra cursos comprados por usuario.
type PurchaseRepository interface {
	// Add inserta la compra y devuelve false si el curso ya estaba
	// comprado. La condicion se resuelve en el store en una sola
	// escritura atomica, no con un check previo.
	Add(ctx context.Context, p domain.Purchase) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Purchase, error)
	ListCoursesByUser(ctx context.Context, userID string) ([]domain.Course, error)
}

type PgPurchaseRepository struct {
	pool *pgxpool.Pool
}

func NewPgPurchaseRepository(pool *pgxpool.Pool) *PgPurchaseRepository {
	return &PgPurchaseRepository{pool: pool}
}

func (r *PgPurchaseRepository) Add(ctx context.Context, p domain.Purchase) (bool, error) {
	const query = `
		INSERT INTO purchases (user_id, course_id, purchased_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, p.UserID, p.CourseID, p.PurchasedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgPurchaseRepository) ListByUser(ctx context.Context, userID string) ([]domain.Purchase, error) {
	const query = `
		SELECT user_id, course_id, purchased_at
		FROM purchases
		WHERE user_id = $1
		ORDER BY purchased_at, course_id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.UserID, &p.CourseID, &p.PurchasedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// ListCoursesByUser resuelve las compras contra el catalogo. Los
// cursos eliminados del catalogo simplemente no aparecen (inner join).
func (r *PgPurchaseRepository) ListCoursesByUser(ctx context.Context, userID string) ([]domain.Course, error) {
	const query = `
		SELECT c.id, c.title, c.description, c.duration, c.price, c.level, c.image_url, c.created_at
		FROM purchases p
		JOIN courses c ON c.id = p.course_id
		WHERE p.user_id = $1
		ORDER BY p.purchased_at, p.course_id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCourses(rows)
}

func scanCourses(rows pgx.Rows) ([]domain.Course, error) {
	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Duration, &c.Price, &c.Level, &c.ImageURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
