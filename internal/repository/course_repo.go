package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursehub/internal/domain"
)

// CourseRepository define el contrato de persistencia del catalogo de cursos.
type CourseRepository interface {
	Create(ctx context.Context, course domain.Course) error
	GetByID(ctx context.Context, id string) (domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	Update(ctx context.Context, course domain.Course) error
	// Delete devuelve el curso eliminado para que el caller pueda
	// limpiar su imagen en el storage de medios.
	Delete(ctx context.Context, id string) (domain.Course, error)
}

type PgCourseRepository struct {
	pool *pgxpool.Pool
}

func NewPgCourseRepository(pool *pgxpool.Pool) *PgCourseRepository {
	return &PgCourseRepository{pool: pool}
}

func (r *PgCourseRepository) Create(ctx context.Context, course domain.Course) error {
	const query = `
		INSERT INTO courses (id, title, description, duration, price, level, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Duration,
		course.Price,
		course.Level,
		course.ImageURL,
		course.CreatedAt,
	)
	return err
}

func (r *PgCourseRepository) GetByID(ctx context.Context, id string) (domain.Course, error) {
	const query = `
		SELECT id, title, description, duration, price, level, image_url, created_at
		FROM courses
		WHERE id = $1
	`
	var c domain.Course
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Description, &c.Duration, &c.Price, &c.Level, &c.ImageURL, &c.CreatedAt,
	)
	if err != nil {
		return domain.Course{}, err
	}
	return c, nil
}

func (r *PgCourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	const query = `
		SELECT id, title, description, duration, price, level, image_url, created_at
		FROM courses
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (r *PgCourseRepository) Update(ctx context.Context, course domain.Course) error {
	const query = `
		UPDATE courses
		SET title = $2, description = $3, duration = $4, price = $5, level = $6, image_url = $7
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Duration,
		course.Price,
		course.Level,
		course.ImageURL,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgCourseRepository) Delete(ctx context.Context, id string) (domain.Course, error) {
	const query = `
		DELETE FROM courses WHERE id = $1
		RETURNING id, title, description, duration, price, level, image_url, created_at
	`
	var c domain.Course
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Description, &c.Duration, &c.Price, &c.Level, &c.ImageURL, &c.CreatedAt,
	)
	if err != nil {
		return domain.Course{}, err
	}
	return c, nil
}
