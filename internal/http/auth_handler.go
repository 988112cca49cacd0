package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursehub/internal/domain"
	"coursehub/internal/service"
)

// AuthHandler mantiene dependencias para endpoints de autenticacion.
type AuthHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
	jwtServ  *service.JWTService
}

func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, jwtServ *service.JWTService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		authServ: authServ,
		jwtServ:  jwtServ,
	}
}

// Register maneja POST /register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "email, password and name are required")
		return
	}

	user, err := h.authServ.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     domain.RoleUser,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			fail(c, http.StatusConflict, KindConflict, "email already registered")
		case errors.Is(err, service.ErrInvalidInput):
			fail(c, http.StatusBadRequest, KindValidation, "email, password and name are required")
		default:
			h.logger.Error("register failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, KindInternal, "could not register user")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login maneja POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "email and password are required")
		return
	}

	user, err := h.authServ.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, KindUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not login")
		return
	}

	tokens, err := h.jwtServ.GeneratePair(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not issue tokens")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "tokens": tokens})
}

// ForgotPassword maneja POST /forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid forgot password request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "email is required")
		return
	}

	err := h.authServ.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			fail(c, http.StatusNotFound, KindNotFound, "user not found")
		case errors.Is(err, service.ErrRateLimited):
			fail(c, http.StatusTooManyRequests, KindRateLimited, "too many requests")
		case errors.Is(err, service.ErrEmailSendFailure):
			fail(c, http.StatusServiceUnavailable, KindUpstream, "email delivery unavailable")
		default:
			h.logger.Error("request password reset failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, KindInternal, "could not request password reset")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "otp_sent"})
}

// VerifyOTP maneja POST /verify-otp.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify otp request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "email and otp are required")
		return
	}

	ticket, err := h.authServ.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOTPExpired):
			fail(c, http.StatusBadRequest, KindValidation, "otp expired or not requested")
		case errors.Is(err, service.ErrOTPInvalid):
			fail(c, http.StatusBadRequest, KindValidation, "otp invalid")
		default:
			h.logger.Error("verify otp failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, KindInternal, "could not verify otp")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "otp_verified", "reset_ticket": ticket})
}

// ResetPassword maneja POST /reset-password. Exige el ticket que
// devolvio VerifyOTP.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		NewPassword string `json:"newPassword" binding:"required"`
		ResetTicket string `json:"resetTicket" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid reset password request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "email, newPassword and resetTicket are required")
		return
	}

	err := h.authServ.ResetPassword(c.Request.Context(), req.Email, req.NewPassword, req.ResetTicket)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResetNotVerified):
			fail(c, http.StatusUnauthorized, KindUnauthorized, "password reset not verified")
		case errors.Is(err, service.ErrUserNotFound):
			fail(c, http.StatusNotFound, KindNotFound, "user not found")
		case errors.Is(err, service.ErrInvalidInput):
			fail(c, http.StatusBadRequest, KindValidation, "missing fields")
		default:
			h.logger.Error("reset password failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, KindInternal, "could not reset password")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "password_reset"})
}

// RefreshToken maneja POST /auth/refresh.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid refresh request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "refresh_token is required")
		return
	}
	tokens, err := h.jwtServ.RefreshPair(req.RefreshToken)
	if err != nil {
		fail(c, http.StatusUnauthorized, KindUnauthorized, "invalid token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout maneja POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid logout request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "refresh_token is required")
		return
	}
	_ = h.jwtServ.RevokeRefresh(req.RefreshToken)
	c.Status(http.StatusNoContent)
}
