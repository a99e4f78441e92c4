package handler

import (
	"errors"
	"net/http"

	"team-pdca/internal/logger"
	"team-pdca/internal/policy"

	"github.com/gin-gonic/gin"
)

// respondErr maps decision errors onto status codes. Anything outside
// the taxonomy is a dependency failure: logged in full, reported to
// the client as a bare 500.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, policy.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, policy.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, policy.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, policy.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, policy.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Err("request failed", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
