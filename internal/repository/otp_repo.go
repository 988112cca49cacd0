package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"coursehub/internal/domain"
)

// OTPRepository persiste los codigos de recuperacion de contraseña.
// Un solo codigo vigente por email: Upsert reemplaza al anterior.
type OTPRepository interface {
	Upsert(ctx context.Context, email, codeHash string, createdAt time.Time) error
	Get(ctx context.Context, email string) (domain.PasswordOTP, error)
	Delete(ctx context.Context, email string) error
}

type PgOTPRepository struct {
	pool *pgxpool.Pool
}

func NewPgOTPRepository(pool *pgxpool.Pool) *PgOTPRepository {
	return &PgOTPRepository{pool: pool}
}

func (r *PgOTPRepository) Upsert(ctx context.Context, email, codeHash string, createdAt time.Time) error {
	const query = `
		INSERT INTO password_otps (email, code_hash, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET code_hash = $2, created_at = $3
	`
	_, err := r.pool.Exec(ctx, query, email, codeHash, createdAt)
	return err
}

func (r *PgOTPRepository) Get(ctx context.Context, email string) (domain.PasswordOTP, error) {
	const query = `
		SELECT email, code_hash, created_at
		FROM password_otps
		WHERE email = $1
	`
	var otp domain.PasswordOTP
	err := r.pool.QueryRow(ctx, query, email).Scan(&otp.Email, &otp.CodeHash, &otp.CreatedAt)
	if err != nil {
		return domain.PasswordOTP{}, err
	}
	return otp, nil
}

func (r *PgOTPRepository) Delete(ctx context.Context, email string) error {
	const query = `DELETE FROM password_otps WHERE email = $1`
	_, err := r.pool.Exec(ctx, query, email)
	return err
}
