package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursehub/internal/service"
)

// PaymentHandler mantiene dependencias para endpoints de pago.
type PaymentHandler struct {
	logger  *zap.Logger
	payServ *service.PaymentService
}

func NewPaymentHandler(logger *zap.Logger, payServ *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		logger:  logger,
		payServ: payServ,
	}
}

// CreateCheckout maneja POST /payments/checkout.
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	var req struct {
		CourseID string `json:"course_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid checkout request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "course_id is required")
		return
	}

	claims, ok := GetAuthClaims(c)
	if !ok {
		fail(c, http.StatusUnauthorized, KindUnauthorized, "missing token")
		return
	}

	order, err := h.payServ.CreateCheckout(c.Request.Context(), claims.UserID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			fail(c, http.StatusNotFound, KindNotFound, "user not found")
		case errors.Is(err, service.ErrCourseNotFound):
			fail(c, http.StatusNotFound, KindNotFound, "course not found")
		case errors.Is(err, service.ErrCourseFree):
			fail(c, http.StatusBadRequest, KindValidation, "course is free, enroll directly")
		case errors.Is(err, service.ErrPaymentGateway):
			fail(c, http.StatusServiceUnavailable, KindUpstream, "payment gateway unavailable")
		default:
			h.logger.Error("create checkout failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, KindInternal, "could not create checkout")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// Webhook maneja POST /payments/webhook. El gateway reintenta mientras
// no reciba 200, por eso una orden desconocida igual responde ok.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var notif service.GatewayNotification
	if err := c.ShouldBindJSON(&notif); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "invalid payload")
		return
	}

	err := h.payServ.HandleNotification(c.Request.Context(), notif)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignature):
			fail(c, http.StatusUnauthorized, KindUnauthorized, "invalid signature")
		case errors.Is(err, service.ErrOrderUnknown):
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		default:
			h.logger.Error("handle payment notification failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, KindInternal, "could not process notification")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}
