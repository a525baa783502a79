package handlers

import (
	"net/http"

	"github.com/darshan-stack/Muncipal-Fund/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	fundService     *services.FundService
	approvalService *services.ApprovalService
	logger          *zap.Logger
}

func NewProjectHandler(fundService *services.FundService, approvalService *services.ApprovalService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		fundService:     fundService,
		approvalService: approvalService,
		logger:          logger.With(zap.String("handler", "project")),
	}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var input services.ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	project, err := h.fundService.CreateProject(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.fundService.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.fundService.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// SubmitForApproval routes the project into the approval workflow.
func (h *ProjectHandler) SubmitForApproval(c *gin.Context) {
	approval, err := h.approvalService.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"approval_id": approval.ID,
		"reviewer_id": approval.AuthorityID,
		"tx_hash":     approval.TxHash,
	})
}
