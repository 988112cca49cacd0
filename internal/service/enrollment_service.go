package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"coursehub/internal/domain"
	"coursehub/internal/repository"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrAlreadyEnrolled = errors.New("course already purchased")
	ErrPaymentRequired = errors.New("course requires payment")
)

// EnrollmentService registra cursos comprados y los resuelve contra el
// catalogo.
type EnrollmentService struct {
	logger    *zap.Logger
	users     repository.UserRepository
	courses   repository.CourseRepository
	purchases repository.PurchaseRepository
	now       func() time.Time
}

func NewEnrollmentService(
	logger *zap.Logger,
	users repository.UserRepository,
	courses repository.CourseRepository,
	purchases repository.PurchaseRepository,
) *EnrollmentService {
	return &EnrollmentService{
		logger:    logger,
		users:     users,
		courses:   courses,
		purchases: purchases,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Enroll agrega el curso a las compras del usuario. La condicion de
// no-duplicado la resuelve el store en una sola escritura condicional,
// asi dos Enroll concurrentes para el mismo par nunca insertan dos
// veces. allowPaid habilita cursos con precio (webhook de pago o admin).
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID string, allowPaid bool) ([]domain.Purchase, error) {
	if userID == "" || courseID == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.Price > 0 && !allowPaid {
		return nil, ErrPaymentRequired
	}

	inserted, err := s.purchases.Add(ctx, domain.Purchase{
		UserID:      userID,
		CourseID:    courseID,
		PurchasedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, ErrAlreadyEnrolled
	}

	return s.purchases.ListByUser(ctx, userID)
}

// ListPurchasedCourses devuelve los cursos comprados en orden de
// compra, materializados contra el catalogo. Las referencias a cursos
// ya eliminados se descartan en silencio.
func (s *EnrollmentService) ListPurchasedCourses(ctx context.Context, userID string) ([]domain.Course, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.purchases.ListCoursesByUser(ctx, userID)
}
