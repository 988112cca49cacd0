package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"go.uber.org/zap"

	"coursehub/internal/domain"
	"coursehub/internal/repository"
)

var (
	ErrCourseFree       = errors.New("course is free, enroll directly")
	ErrPaymentGateway   = errors.New("payment gateway failure")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrOrderUnknown     = errors.New("payment order unknown")
)

// SnapAPI abstrae el cliente snap de Midtrans para poder mockearlo.
type SnapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// NewSnapClient inicializa el cliente snap una sola vez en bootstrap.
func NewSnapClient(serverKey string, production bool) *snap.Client {
	client := &snap.Client{}
	if production {
		client.New(serverKey, midtrans.Production)
	} else {
		client.New(serverKey, midtrans.Sandbox)
	}
	return client
}

// PaymentService crea sesiones de checkout hospedadas y procesa las
// notificaciones firmadas del gateway. La matricula de un curso pago
// sale unicamente de una notificacion verificada.
type PaymentService struct {
	logger     *zap.Logger
	orders     repository.PaymentOrderRepository
	courses    repository.CourseRepository
	users      repository.UserRepository
	snapClient SnapAPI
	serverKey  string
	enrollment *EnrollmentService
	now        func() time.Time
}

func NewPaymentService(
	logger *zap.Logger,
	orders repository.PaymentOrderRepository,
	courses repository.CourseRepository,
	users repository.UserRepository,
	snapClient SnapAPI,
	serverKey string,
	enrollment *EnrollmentService,
) *PaymentService {
	return &PaymentService{
		logger:     logger,
		orders:     orders,
		courses:    courses,
		users:      users,
		snapClient: snapClient,
		serverKey:  serverKey,
		enrollment: enrollment,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *PaymentService) CreateCheckout(ctx context.Context, userID, courseID string) (domain.PaymentOrder, error) {
	if userID == "" || courseID == "" {
		return domain.PaymentOrder{}, ErrInvalidInput
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PaymentOrder{}, ErrUserNotFound
		}
		return domain.PaymentOrder{}, err
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PaymentOrder{}, ErrCourseNotFound
		}
		return domain.PaymentOrder{}, err
	}
	if course.Price <= 0 {
		return domain.PaymentOrder{}, ErrCourseFree
	}
	if s.snapClient == nil {
		return domain.PaymentOrder{}, ErrPaymentGateway
	}

	orderID := "course-" + uuid.NewString()
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: course.Price,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.Name,
			Email: user.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    course.ID,
				Price: course.Price,
				Qty:   1,
				Name:  truncate(course.Title, 50),
			},
		},
	}

	resp, mErr := s.snapClient.CreateTransaction(req)
	if mErr != nil {
		if s.logger != nil {
			s.logger.Error("snap create transaction failed", zap.Error(mErr), zap.String("order_id", orderID))
		}
		return domain.PaymentOrder{}, ErrPaymentGateway
	}

	now := s.now()
	order := domain.PaymentOrder{
		ID:          orderID,
		UserID:      userID,
		CourseID:    courseID,
		Amount:      course.Price,
		Status:      domain.PaymentPending,
		SnapToken:   resp.Token,
		RedirectURL: resp.RedirectURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return domain.PaymentOrder{}, err
	}
	return order, nil
}

// GatewayNotification es el payload de la notificacion HTTP de Midtrans.
type GatewayNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

// VerifySignature valida la firma sha512(order_id+status_code+
// gross_amount+server_key) que acompaña cada notificacion.
func (s *PaymentService) VerifySignature(notif GatewayNotification) bool {
	want := strings.ToLower(strings.TrimSpace(notif.SignatureKey))
	if want == "" || s.serverKey == "" {
		return false
	}
	sum := sha512.Sum512([]byte(notif.OrderID + notif.StatusCode + notif.GrossAmount + s.serverKey))
	got := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// HandleNotification procesa una notificacion ya recibida: verifica la
// firma, resuelve la orden y, si el pago quedo liquidado, matricula.
// Reentregas del gateway son inofensivas: la matricula duplicada se
// ignora.
func (s *PaymentService) HandleNotification(ctx context.Context, notif GatewayNotification) error {
	if !s.VerifySignature(notif) {
		return ErrInvalidSignature
	}

	order, err := s.orders.GetByID(ctx, notif.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if s.logger != nil {
				s.logger.Warn("notification for unknown order", zap.String("order_id", notif.OrderID))
			}
			return ErrOrderUnknown
		}
		return err
	}

	switch notif.TransactionStatus {
	case "settlement":
		return s.settle(ctx, order)
	case "capture":
		if notif.FraudStatus == "accept" {
			return s.settle(ctx, order)
		}
		return s.orders.UpdateStatus(ctx, order.ID, domain.PaymentFailed, s.now())
	case "deny", "cancel", "failure":
		return s.orders.UpdateStatus(ctx, order.ID, domain.PaymentFailed, s.now())
	case "expire":
		return s.orders.UpdateStatus(ctx, order.ID, domain.PaymentExpired, s.now())
	default:
		// pending y estados intermedios: sin cambios.
		return nil
	}
}

func (s *PaymentService) settle(ctx context.Context, order domain.PaymentOrder) error {
	if err := s.orders.UpdateStatus(ctx, order.ID, domain.PaymentSettled, s.now()); err != nil {
		return err
	}
	_, err := s.enrollment.Enroll(ctx, order.UserID, order.CourseID, true)
	if err != nil && !errors.Is(err, ErrAlreadyEnrolled) {
		return err
	}
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
