package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursehub/internal/domain"
	"coursehub/internal/service"
)

// EnrollmentHandler mantiene dependencias para endpoints de matricula.
type EnrollmentHandler struct {
	logger     *zap.Logger
	enrollServ *service.EnrollmentService
}

func NewEnrollmentHandler(logger *zap.Logger, enrollServ *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		logger:     logger,
		enrollServ: enrollServ,
	}
}

// Enroll maneja POST /enroll. Un usuario comun solo se matricula a si
// mismo y solo en cursos gratis; un admin puede matricular a cualquiera
// en cualquier curso. Los cursos pagos entran por el webhook de pago.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req struct {
		UserID   string `json:"user_id"`
		CourseID string `json:"course_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid enroll request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "course_id is required")
		return
	}

	claims, ok := GetAuthClaims(c)
	if !ok {
		fail(c, http.StatusUnauthorized, KindUnauthorized, "missing token")
		return
	}

	isAdmin := claims.Role == domain.RoleAdmin
	userID := claims.UserID
	if isAdmin && req.UserID != "" {
		userID = req.UserID
	}

	purchases, err := h.enrollServ.Enroll(c.Request.Context(), userID, req.CourseID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			fail(c, http.StatusNotFound, KindNotFound, "user not found")
		case errors.Is(err, service.ErrCourseNotFound):
			fail(c, http.StatusNotFound, KindNotFound, "course not found")
		case errors.Is(err, service.ErrAlreadyEnrolled):
			fail(c, http.StatusBadRequest, KindAlreadyEnrolled, "course already purchased")
		case errors.Is(err, service.ErrPaymentRequired):
			fail(c, http.StatusForbidden, KindForbidden, "course requires payment")
		case errors.Is(err, service.ErrInvalidInput):
			fail(c, http.StatusBadRequest, KindValidation, "user_id and course_id are required")
		default:
			h.logger.Error("enroll failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, KindInternal, "could not enroll")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

// MyCourses maneja GET /me/courses.
func (h *EnrollmentHandler) MyCourses(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		fail(c, http.StatusUnauthorized, KindUnauthorized, "missing token")
		return
	}
	h.listCourses(c, claims.UserID)
}

// PurchasedCourses maneja GET /admin/users/:id/purchased-courses.
func (h *EnrollmentHandler) PurchasedCourses(c *gin.Context) {
	h.listCourses(c, c.Param("id"))
}

func (h *EnrollmentHandler) listCourses(c *gin.Context, userID string) {
	courses, err := h.enrollServ.ListPurchasedCourses(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			fail(c, http.StatusNotFound, KindNotFound, "user not found")
		case errors.Is(err, service.ErrInvalidInput):
			fail(c, http.StatusBadRequest, KindValidation, "user id is required")
		default:
			h.logger.Error("list purchased courses failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, KindInternal, "could not list courses")
		}
		return
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}
