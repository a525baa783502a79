package handlers

import (
	"net/http"

	"github.com/darshan-stack/Muncipal-Fund/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ApprovalHandler struct {
	approvalService *services.ApprovalService
	logger          *zap.Logger
}

func NewApprovalHandler(approvalService *services.ApprovalService, logger *zap.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		approvalService: approvalService,
		logger:          logger.With(zap.String("handler", "approval")),
	}
}

// ListPending returns the caller's open approval requests with redacted
// project snapshots.
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	authorityID := c.Param("authorityId")

	if _, err := h.approvalService.GetAuthority(c.Request.Context(), authorityID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	pending, err := h.approvalService.ListPending(c.Request.Context(), authorityID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

func (h *ApprovalHandler) Decide(c *gin.Context) {
	var input services.DecisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.approvalService.Decide(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
