package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursehub/internal/repository"
)

// CatalogHandler expone las lecturas publicas del catalogo. Son
// wrappers directos sobre los repos, sin logica propia.
type CatalogHandler struct {
	logger       *zap.Logger
	courses      repository.CourseRepository
	testimonials repository.TestimonialRepository
	curricula    repository.CurriculumRepository
	blogs        repository.BlogRepository
	banners      repository.BannerRepository
	products     repository.ProductRepository
}

func NewCatalogHandler(
	logger *zap.Logger,
	courses repository.CourseRepository,
	testimonials repository.TestimonialRepository,
	curricula repository.CurriculumRepository,
	blogs repository.BlogRepository,
	banners repository.BannerRepository,
	products repository.ProductRepository,
) *CatalogHandler {
	return &CatalogHandler{
		logger:       logger,
		courses:      courses,
		testimonials: testimonials,
		curricula:    curricula,
		blogs:        blogs,
		banners:      banners,
		products:     products,
	}
}

// ListCourses maneja GET /courses.
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	items, err := h.courses.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list courses failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not list courses")
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": items})
}

// ListTestimonials maneja GET /testimonials.
func (h *CatalogHandler) ListTestimonials(c *gin.Context) {
	items, err := h.testimonials.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list testimonials failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not list testimonials")
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": items})
}

// ListCurricula maneja GET /curriculum.
func (h *CatalogHandler) ListCurricula(c *gin.Context) {
	items, err := h.curricula.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list curricula failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not list curriculum")
		return
	}
	c.JSON(http.StatusOK, gin.H{"curriculum": items})
}

// ListBlogs maneja GET /blogs.
func (h *CatalogHandler) ListBlogs(c *gin.Context) {
	items, err := h.blogs.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list blogs failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not list blogs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": items})
}

// ListBanners maneja GET /banners.
func (h *CatalogHandler) ListBanners(c *gin.Context) {
	items, err := h.banners.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list banners failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not list banners")
		return
	}
	c.JSON(http.StatusOK, gin.H{"banners": items})
}

// ListProducts maneja GET /products.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	items, err := h.products.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list products failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, KindInternal, "could not list products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": items})
}
