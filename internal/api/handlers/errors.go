package handlers

import (
	"errors"
	"net/http"

	"github.com/darshan-stack/Muncipal-Fund/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto the API's status taxonomy. Anything
// outside the taxonomy is an internal fault surfaced with its message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrMilestoneNotFound),
		errors.Is(err, services.ErrApprovalNotFound),
		errors.Is(err, services.ErrDocumentNotFound),
		errors.Is(err, services.ErrAuthorityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoAuthorities):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrApprovalDecided),
		errors.Is(err, services.ErrAuthorityExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidDecision):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		logger.Error("Unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
