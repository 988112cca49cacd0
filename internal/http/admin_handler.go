package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"coursehub/internal/domain"
	"coursehub/internal/media"
	"coursehub/internal/repository"
)

// AdminHandler agrupa la administracion de usuarios y catalogo. Todas
// las rutas que atiende pasan por RequireAdmin.
type AdminHandler struct {
	logger       *zap.Logger
	users        repository.UserRepository
	courses      repository.CourseRepository
	testimonials repository.TestimonialRepository
	curricula    repository.CurriculumRepository
	blogs        repository.BlogRepository
	banners      repository.BannerRepository
	products     repository.ProductRepository
	mediaStore   media.Store
}

func NewAdminHandler(
	logger *zap.Logger,
	users repository.UserRepository,
	courses repository.CourseRepository,
	testimonials repository.TestimonialRepository,
	curricula repository.CurriculumRepository,
	blogs repository.BlogRepository,
	banners repository.BannerRepository,
	products repository.ProductRepository,
	mediaStore media.Store,
) *AdminHandler {
	return &AdminHandler{
		logger:       logger,
		users:        users,
		courses:      courses,
		testimonials: testimonials,
		curricula:    curricula,
		blogs:        blogs,
		banners:      banners,
		products:     products,
		mediaStore:   mediaStore,
	}
}

// ListUsers maneja GET /admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// DeleteUser maneja DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	err := h.users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fail(c, http.StatusNotFound, KindNotFound, "user not found")
			return
		}
		h.logger.Error("delete user failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CreateCourse maneja POST /admin/courses.
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
		Duration    string `json:"duration"`
		Price       int64  `json:"price"`
		Level       string `json:"level"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create course request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "title and description are required")
		return
	}

	course := domain.Course{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
		Level:       req.Level,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.courses.Create(c.Request.Context(), course); err != nil {
		h.logger.Error("create course failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not create course")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"course": course})
}

// UpdateCourse maneja PUT /admin/courses/:id.
func (h *AdminHandler) UpdateCourse(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
		Duration    string `json:"duration"`
		Price       int64  `json:"price"`
		Level       string `json:"level"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update course request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "title and description are required")
		return
	}

	course := domain.Course{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
		Level:       req.Level,
		ImageURL:    req.ImageURL,
	}
	if err := h.courses.Update(c.Request.Context(), course); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fail(c, http.StatusNotFound, KindNotFound, "course not found")
			return
		}
		h.logger.Error("update course failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not update course")
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

// DeleteCourse maneja DELETE /admin/courses/:id.
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	course, err := h.courses.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fail(c, http.StatusNotFound, KindNotFound, "course not found")
			return
		}
		h.logger.Error("delete course failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not delete course")
		return
	}
	h.removeImage(c, course.ImageURL)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CreateTestimonial maneja POST /admin/testimonials.
func (h *AdminHandler) CreateTestimonial(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Achievement string `json:"achievement" binding:"required"`
		Description string `json:"description" binding:"required"`
		Course      string `json:"course" binding:"required"`
		ImageURL    string `json:"image_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create testimonial request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "all testimonial fields are required")
		return
	}

	t := domain.Testimonial{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Achievement: req.Achievement,
		Description: req.Description,
		Course:      req.Course,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.testimonials.Create(c.Request.Context(), t); err != nil {
		h.logger.Error("create testimonial failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not create testimonial")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"testimonial": t})
}

// DeleteTestimonial maneja DELETE /admin/testimonials/:id.
func (h *AdminHandler) DeleteTestimonial(c *gin.Context) {
	t, err := h.testimonials.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fail(c, http.StatusNotFound, KindNotFound, "testimonial not found")
			return
		}
		h.logger.Error("delete testimonial failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not delete testimonial")
		return
	}
	h.removeImage(c, t.ImageURL)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CreateCurriculum maneja POST /admin/curriculum.
func (h *AdminHandler) CreateCurriculum(c *gin.Context) {
	var req struct {
		Heading    string   `json:"heading" binding:"required"`
		SubHeading string   `json:"subHeading" binding:"required"`
		KeyPoints  []string `json:"keyPoints" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create curriculum request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "heading, subHeading and keyPoints are required")
		return
	}

	cur := domain.Curriculum{
		ID:         uuid.NewString(),
		Heading:    req.Heading,
		SubHeading: req.SubHeading,
		KeyPoints:  req.KeyPoints,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.curricula.Create(c.Request.Context(), cur); err != nil {
		h.logger.Error("create curriculum failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not create curriculum")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"curriculum": cur})
}

// DeleteCurriculum maneja DELETE /admin/curriculum/:id.
func (h *AdminHandler) DeleteCurriculum(c *gin.Context) {
	if _, err := h.curricula.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fail(c, http.StatusNotFound, KindNotFound, "curriculum not found")
			return
		}
		h.logger.Error("delete curriculum failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not delete curriculum")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CreateBlog maneja POST /admin/blogs.
func (h *AdminHandler) CreateBlog(c *gin.Context) {
	var req struct {
		Heading     string `json:"heading" binding:"required"`
		Description string `json:"description" binding:"required"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create blog request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "heading and description are required")
		return
	}

	b := domain.Blog{
		ID:          uuid.NewString(),
		Heading:     req.Heading,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.blogs.Create(c.Request.Context(), b); err != nil {
		h.logger.Error("create blog failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not create blog")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"blog": b})
}

// DeleteBlog maneja DELETE /admin/blogs/:id.
func (h *AdminHandler) DeleteBlog(c *gin.Context) {
	b, err := h.blogs.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fail(c, http.StatusNotFound, KindNotFound, "blog not found")
			return
		}
		h.logger.Error("delete blog failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not delete blog")
		return
	}
	h.removeImage(c, b.ImageURL)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CreateBanner maneja POST /admin/banners.
func (h *AdminHandler) CreateBanner(c *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required"`
		ImageURL string `json:"image_url" binding:"required"`
		LinkURL  string `json:"link_url"`
		Active   *bool  `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create banner request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "title and image_url are required")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	b := domain.Banner{
		ID:        uuid.NewString(),
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		LinkURL:   req.LinkURL,
		Active:    active,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.banners.Create(c.Request.Context(), b); err != nil {
		h.logger.Error("create banner failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not create banner")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"banner": b})
}

// DeleteBanner maneja DELETE /admin/banners/:id.
func (h *AdminHandler) DeleteBanner(c *gin.Context) {
	b, err := h.banners.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fail(c, http.StatusNotFound, KindNotFound, "banner not found")
			return
		}
		h.logger.Error("delete banner failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not delete banner")
		return
	}
	h.removeImage(c, b.ImageURL)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CreateProduct maneja POST /admin/products.
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description" binding:"required"`
		Price       int64  `json:"price"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create product request", zap.Error(err))
		fail(c, http.StatusBadRequest, KindValidation, "name and description are required")
		return
	}

	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.products.Create(c.Request.Context(), p); err != nil {
		h.logger.Error("create product failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not create product")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

// DeleteProduct maneja DELETE /admin/products/:id.
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	p, err := h.products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fail(c, http.StatusNotFound, KindNotFound, "product not found")
			return
		}
		h.logger.Error("delete product failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not delete product")
		return
	}
	h.removeImage(c, p.ImageURL)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// removeImage limpia el objeto de medios asociado. La falla no voltea
// el request: el registro ya fue eliminado.
func (h *AdminHandler) removeImage(c *gin.Context, imageURL string) {
	if h.mediaStore == nil || imageURL == "" {
		return
	}
	if err := h.mediaStore.RemoveByURL(c.Request.Context(), imageURL); err != nil {
		h.logger.Warn("remove media object failed", zap.Error(err), zap.String("image_url", imageURL))
	}
}
