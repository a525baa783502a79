package handlers

import (
	"net/http"

	"github.com/darshan-stack/Muncipal-Fund/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FundHandler serves the allocation, milestone and expenditure surface plus
// the derived statistics endpoint.
type FundHandler struct {
	fundService *services.FundService
	logger      *zap.Logger
}

func NewFundHandler(fundService *services.FundService, logger *zap.Logger) *FundHandler {
	return &FundHandler{
		fundService: fundService,
		logger:      logger.With(zap.String("handler", "fund")),
	}
}

func (h *FundHandler) AllocateFunds(c *gin.Context) {
	var input services.AllocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	allocation, err := h.fundService.Allocate(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, allocation)
}

func (h *FundHandler) ListAllocations(c *gin.Context) {
	allocations, err := h.fundService.ListAllocations(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, allocations)
}

func (h *FundHandler) CreateMilestone(c *gin.Context) {
	var input services.MilestoneInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	milestone, err := h.fundService.CreateMilestone(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, milestone)
}

func (h *FundHandler) ListMilestones(c *gin.Context) {
	milestones, err := h.fundService.ListMilestones(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, milestones)
}

func (h *FundHandler) UpdateMilestone(c *gin.Context) {
	var input services.MilestoneUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	milestone, err := h.fundService.UpdateMilestone(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, milestone)
}

func (h *FundHandler) CreateExpenditure(c *gin.Context) {
	var input services.ExpenditureInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	expenditure, err := h.fundService.CreateExpenditure(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, expenditure)
}

func (h *FundHandler) ListExpenditures(c *gin.Context) {
	expenditures, err := h.fundService.ListExpenditures(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, expenditures)
}

func (h *FundHandler) GetStats(c *gin.Context) {
	stats, err := h.fundService.ComputeStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
