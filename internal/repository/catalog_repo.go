package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"coursehub/internal/domain"
)

// Repos de contenido del catalogo: wrappers CRUD sin logica propia.
// Delete devuelve la fila eliminada para limpiar la imagen asociada.

type TestimonialRepository interface {
	Create(ctx context.Context, t domain.Testimonial) error
	List(ctx context.Context) ([]domain.Testimonial, error)
	Delete(ctx context.Context, id string) (domain.Testimonial, error)
}

type CurriculumRepository interface {
	Create(ctx context.Context, c domain.Curriculum) error
	List(ctx context.Context) ([]domain.Curriculum, error)
	Delete(ctx context.Context, id string) (domain.Curriculum, error)
}

type BlogRepository interface {
	Create(ctx context.Context, b domain.Blog) error
	List(ctx context.Context) ([]domain.Blog, error)
	Delete(ctx context.Context, id string) (domain.Blog, error)
}

type BannerRepository interface {
	Create(ctx context.Context, b domain.Banner) error
	List(ctx context.Context) ([]domain.Banner, error)
	Delete(ctx context.Context, id string) (domain.Banner, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p domain.Product) error
	List(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id string) (domain.Product, error)
}

type PgTestimonialRepository struct {
	pool *pgxpool.Pool
}

func NewPgTestimonialRepository(pool *pgxpool.Pool) *PgTestimonialRepository {
	return &PgTestimonialRepository{pool: pool}
}

func (r *PgTestimonialRepository) Create(ctx context.Context, t domain.Testimonial) error {
	const query = `
		INSERT INTO testimonials (id, name, achievement, description, course, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query, t.ID, t.Name, t.Achievement, t.Description, t.Course, t.ImageURL, t.CreatedAt)
	return err
}

func (r *PgTestimonialRepository) List(ctx context.Context) ([]domain.Testimonial, error) {
	const query = `
		SELECT id, name, achievement, description, course, image_url, created_at
		FROM testimonials
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Testimonial
	for rows.Next() {
		var t domain.Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Achievement, &t.Description, &t.Course, &t.ImageURL, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *PgTestimonialRepository) Delete(ctx context.Context, id string) (domain.Testimonial, error) {
	const query = `
		DELETE FROM testimonials WHERE id = $1
		RETURNING id, name, achievement, description, course, image_url, created_at
	`
	var t domain.Testimonial
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Achievement, &t.Description, &t.Course, &t.ImageURL, &t.CreatedAt)
	if err != nil {
		return domain.Testimonial{}, err
	}
	return t, nil
}

type PgCurriculumRepository struct {
	pool *pgxpool.Pool
}

func NewPgCurriculumRepository(pool *pgxpool.Pool) *PgCurriculumRepository {
	return &PgCurriculumRepository{pool: pool}
}

func (r *PgCurriculumRepository) Create(ctx context.Context, c domain.Curriculum) error {
	const query = `
		INSERT INTO curricula (id, heading, sub_heading, key_points, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query, c.ID, c.Heading, c.SubHeading, c.KeyPoints, c.CreatedAt)
	return err
}

func (r *PgCurriculumRepository) List(ctx context.Context) ([]domain.Curriculum, error) {
	const query = `
		SELECT id, heading, sub_heading, key_points, created_at
		FROM curricula
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Curriculum
	for rows.Next() {
		var c domain.Curriculum
		if err := rows.Scan(&c.ID, &c.Heading, &c.SubHeading, &c.KeyPoints, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *PgCurriculumRepository) Delete(ctx context.Context, id string) (domain.Curriculum, error) {
	const query = `
		DELETE FROM curricula WHERE id = $1
		RETURNING id, heading, sub_heading, key_points, created_at
	`
	var c domain.Curriculum
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Heading, &c.SubHeading, &c.KeyPoints, &c.CreatedAt)
	if err != nil {
		return domain.Curriculum{}, err
	}
	return c, nil
}

type PgBlogRepository struct {
	pool *pgxpool.Pool
}

func NewPgBlogRepository(pool *pgxpool.Pool) *PgBlogRepository {
	return &PgBlogRepository{pool: pool}
}

func (r *PgBlogRepository) Create(ctx context.Context, b domain.Blog) error {
	const query = `
		INSERT INTO blogs (id, heading, description, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query, b.ID, b.Heading, b.Description, b.ImageURL, b.CreatedAt)
	return err
}

func (r *PgBlogRepository) List(ctx context.Context) ([]domain.Blog, error) {
	const query = `
		SELECT id, heading, description, image_url, created_at
		FROM blogs
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Blog
	for rows.Next() {
		var b domain.Blog
		if err := rows.Scan(&b.ID, &b.Heading, &b.Description, &b.ImageURL, &b.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *PgBlogRepository) Delete(ctx context.Context, id string) (domain.Blog, error) {
	const query = `
		DELETE FROM blogs WHERE id = $1
		RETURNING id, heading, description, image_url, created_at
	`
	var b domain.Blog
	err := r.pool.QueryRow(ctx, query, id).Scan(&b.ID, &b.Heading, &b.Description, &b.ImageURL, &b.CreatedAt)
	if err != nil {
		return domain.Blog{}, err
	}
	return b, nil
}

type PgBannerRepository struct {
	pool *pgxpool.Pool
}

func NewPgBannerRepository(pool *pgxpool.Pool) *PgBannerRepository {
	return &PgBannerRepository{pool: pool}
}

func (r *PgBannerRepository) Create(ctx context.Context, b domain.Banner) error {
	const query = `
		INSERT INTO banners (id, title, image_url, link_url, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query, b.ID, b.Title, b.ImageURL, b.LinkURL, b.Active, b.CreatedAt)
	return err
}

func (r *PgBannerRepository) List(ctx context.Context) ([]domain.Banner, error) {
	const query = `
		SELECT id, title, image_url, link_url, active, created_at
		FROM banners
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Banner
	for rows.Next() {
		var b domain.Banner
		if err := rows.Scan(&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.Active, &b.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *PgBannerRepository) Delete(ctx context.Context, id string) (domain.Banner, error) {
	const query = `
		DELETE FROM banners WHERE id = $1
		RETURNING id, title, image_url, link_url, active, created_at
	`
	var b domain.Banner
	err := r.pool.QueryRow(ctx, query, id).Scan(&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.Active, &b.CreatedAt)
	if err != nil {
		return domain.Banner{}, err
	}
	return b, nil
}

type PgProductRepository struct {
	pool *pgxpool.Pool
}

func NewPgProductRepository(pool *pgxpool.Pool) *PgProductRepository {
	return &PgProductRepository{pool: pool}
}

func (r *PgProductRepository) Create(ctx context.Context, p domain.Product) error {
	const query = `
		INSERT INTO products (id, name, description, price, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.CreatedAt)
	return err
}

func (r *PgProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	const query = `
		SELECT id, name, description, price, image_url, created_at
		FROM products
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *PgProductRepository) Delete(ctx context.Context, id string) (domain.Product, error) {
	const query = `
		DELETE FROM products WHERE id = $1
		RETURNING id, name, description, price, image_url, created_at
	`
	var p domain.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
