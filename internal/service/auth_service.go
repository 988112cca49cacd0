package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"coursehub/internal/domain"
	"coursehub/internal/email"
	"coursehub/internal/repository"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("missing or invalid input")
	ErrOTPExpired         = errors.New("otp expired or not requested")
	ErrOTPInvalid         = errors.New("otp invalid")
	ErrResetNotVerified   = errors.New("password reset not verified")
	ErrEmailSendFailure   = errors.New("email send failed")
	ErrRateLimited        = errors.New("rate limited")
)

const (
	otpTTL         = 5 * time.Minute
	resetTicketTTL = 10 * time.Minute
)

// Hash valido de un valor aleatorio descartado. Se compara contra el
// password recibido cuando el email no existe, para que el login no
// delate por timing si la cuenta esta registrada.
var loginDummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// AuthService coordina registro, login y recuperacion de contraseña.
type AuthService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	otps        repository.OTPRepository
	emailSender email.Sender
	otpLimiter  OTPRateLimiter
	tickets     ResetTicketStore
	now         func() time.Time
}

func NewAuthService(
	logger *zap.Logger,
	users repository.UserRepository,
	otps repository.OTPRepository,
	emailSender email.Sender,
	otpLimiter OTPRateLimiter,
	tickets ResetTicketStore,
) *AuthService {
	if otpLimiter == nil {
		otpLimiter = NewOTPRateLimiter(otpTTL, 3)
	}
	if tickets == nil {
		tickets = NewMemoryResetTicketStore()
	}
	return &AuthService{
		logger:      logger,
		users:       users,
		otps:        otps,
		emailSender: emailSender,
		otpLimiter:  otpLimiter,
		tickets:     tickets,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	emailAddr := normalizeEmail(input.Email)
	password := strings.TrimSpace(input.Password)
	name := strings.TrimSpace(input.Name)
	if emailAddr == "" || password == "" || name == "" {
		return domain.User{}, ErrInvalidInput
	}

	role := input.Role
	if role != domain.RoleAdmin {
		role = domain.RoleUser
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		Name:         name,
		Role:         role,
		PasswordHash: string(hashBytes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return user, nil
}

// Login valida credenciales. Email inexistente y password incorrecto
// devuelven el mismo error, con una comparacion bcrypt en ambos casos.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = bcrypt.CompareHashAndPassword(loginDummyHash, []byte(password))
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// RequestPasswordReset genera un OTP de 6 digitos, lo persiste
// (reemplazando cualquier codigo previo del email) y recien despues lo
// despacha por correo. Si el envio falla el codigo guardado sigue
// siendo valido.
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return ErrInvalidInput
	}

	if _, err := s.users.GetByEmail(ctx, emailAddr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	if s.otpLimiter != nil && !s.otpLimiter.Allow(emailAddr) {
		return ErrRateLimited
	}

	code, hash, err := generateOTP()
	if err != nil {
		return err
	}

	now := s.now()
	if err := s.otps.Upsert(ctx, emailAddr, hash, now); err != nil {
		return err
	}

	if s.emailSender == nil {
		return ErrEmailSendFailure
	}
	if err := s.emailSender.SendPasswordResetOTP(ctx, emailAddr, code, now.Add(otpTTL)); err != nil {
		if s.logger != nil {
			s.logger.Warn("send password reset otp failed", zap.Error(err), zap.String("email", emailAddr))
		}
		return ErrEmailSendFailure
	}
	return nil
}

// VerifyOTP consume el codigo (un solo uso) y emite un reset ticket
// ligado al email. ResetPassword exige ese ticket.
func (s *AuthService) VerifyOTP(ctx context.Context, emailAddr, code string) (string, error) {
	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	if emailAddr == "" {
		return "", ErrInvalidInput
	}
	if !isValidOTPCode(code) {
		return "", ErrOTPInvalid
	}

	otp, err := s.otps.Get(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrOTPExpired
		}
		return "", err
	}

	if s.now().After(otp.CreatedAt.Add(otpTTL)) {
		_ = s.otps.Delete(ctx, emailAddr)
		return "", ErrOTPExpired
	}
	if !verifyOTP(code, otp.CodeHash) {
		return "", ErrOTPInvalid
	}

	if err := s.otps.Delete(ctx, emailAddr); err != nil {
		return "", err
	}

	ticket, err := s.tickets.Issue(emailAddr, resetTicketTTL)
	if err != nil {
		return "", err
	}
	return ticket, nil
}

// ResetPassword requiere y consume el ticket emitido por VerifyOTP.
func (s *AuthService) ResetPassword(ctx context.Context, emailAddr, newPassword, ticket string) error {
	emailAddr = normalizeEmail(emailAddr)
	newPassword = strings.TrimSpace(newPassword)
	if emailAddr == "" || newPassword == "" {
		return ErrInvalidInput
	}

	ok, err := s.tickets.Consume(emailAddr, ticket)
	if err != nil {
		return err
	}
	if !ok {
		return ErrResetNotVerified
	}

	if _, err := s.users.GetByEmail(ctx, emailAddr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, emailAddr, string(hashBytes), s.now())
}

func generateOTP() (string, string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", "", err
	}
	saltStr := base64.StdEncoding.EncodeToString(salt)
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + code))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])

	return code, saltStr + ":" + hash, nil
}

func verifyOTP(code, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		return false
	}
	saltStr := parts[0]
	expectedHash := parts[1]
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + code))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])
	return subtle.ConstantTimeCompare([]byte(hash), []byte(expectedHash)) == 1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidOTPCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// OTPRateLimiter limita la frecuencia de solicitudes de OTP por clave.
type OTPRateLimiter interface {
	Allow(key string) bool
}

type otpRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
}

// NewOTPRateLimiter crea un rate limiter en memoria.
func NewOTPRateLimiter(window time.Duration, max int) OTPRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &otpRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *otpRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return true
}
