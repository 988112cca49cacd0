package http

import "github.com/gin-gonic/gin"

// Kinds del envelope de error. Toda falla sale como {kind, message};
// el detalle interno se loguea y nunca cruza el boundary.
const (
	KindValidation      = "validation"
	KindConflict        = "conflict"
	KindNotFound        = "not_found"
	KindUnauthorized    = "unauthorized"
	KindForbidden       = "forbidden"
	KindAlreadyEnrolled = "already_enrolled"
	KindRateLimited     = "rate_limited"
	KindUpstream        = "upstream"
	KindInternal        = "internal"
)

func fail(c *gin.Context, status int, kind, message string) {
	c.JSON(status, gin.H{"kind": kind, "message": message})
}
