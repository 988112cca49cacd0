package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursehub/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	enrollH *EnrollmentHandler,
	catalogH *CatalogHandler,
	adminH *AdminHandler,
	payH *PaymentHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	v1 := r.Group("/api/v1")

	v1.POST("/register", authH.Register)
	v1.POST("/login", authH.Login)
	v1.POST("/forgot-password", authH.ForgotPassword)
	v1.POST("/verify-otp", authH.VerifyOTP)
	v1.POST("/reset-password", authH.ResetPassword)
	v1.POST("/auth/refresh", authH.RefreshToken)
	v1.POST("/auth/logout", authH.Logout)

	v1.GET("/courses", catalogH.ListCourses)
	v1.GET("/testimonials", catalogH.ListTestimonials)
	v1.GET("/curriculum", catalogH.ListCurricula)
	v1.GET("/blogs", catalogH.ListBlogs)
	v1.GET("/banners", catalogH.ListBanners)
	v1.GET("/products", catalogH.ListProducts)

	// El gateway firma cada notificacion; la firma se valida adentro.
	v1.POST("/payments/webhook", payH.Webhook)

	authed := v1.Group("", JWTAuthMiddleware(jwtSvc))
	authed.POST("/enroll", enrollH.Enroll)
	authed.GET("/me/courses", enrollH.MyCourses)
	authed.POST("/payments/checkout", payH.CreateCheckout)

	admin := v1.Group("/admin", JWTAuthMiddleware(jwtSvc), RequireAdmin())
	admin.GET("/users", adminH.ListUsers)
	admin.DELETE("/users/:id", adminH.DeleteUser)
	admin.GET("/users/:id/purchased-courses", enrollH.PurchasedCourses)
	admin.POST("/courses", adminH.CreateCourse)
	admin.PUT("/courses/:id", adminH.UpdateCourse)
	admin.DELETE("/courses/:id", adminH.DeleteCourse)
	admin.POST("/testimonials", adminH.CreateTestimonial)
	admin.DELETE("/testimonials/:id", adminH.DeleteTestimonial)
	admin.POST("/curriculum", adminH.CreateCurriculum)
	admin.DELETE("/curriculum/:id", adminH.DeleteCurriculum)
	admin.POST("/blogs", adminH.CreateBlog)
	admin.DELETE("/blogs/:id", adminH.DeleteBlog)
	admin.POST("/banners", adminH.CreateBanner)
	admin.DELETE("/banners/:id", adminH.DeleteBanner)
	admin.POST("/products", adminH.CreateProduct)
	admin.DELETE("/products/:id", adminH.DeleteProduct)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
