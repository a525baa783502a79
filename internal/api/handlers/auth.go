package handlers

import (
	"net/http"

	"github.com/darshan-stack/Muncipal-Fund/internal/api/middleware"
	"github.com/darshan-stack/Muncipal-Fund/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	approvalService *services.ApprovalService
	authMiddleware  *middleware.AuthMiddleware
	logger          *zap.Logger
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func NewAuthHandler(approvalService *services.ApprovalService, authMiddleware *middleware.AuthMiddleware, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		approvalService: approvalService,
		authMiddleware:  authMiddleware,
		logger:          logger.With(zap.String("handler", "auth")),
	}
}

func (ah *AuthHandler) RegisterAuthority(c *gin.Context) {
	var input services.AuthorityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	authority, err := ah.approvalService.RegisterAuthority(c.Request.Context(), input)
	if err != nil {
		respondError(c, ah.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"authority_id": authority.ID,
	})
}

func (ah *AuthHandler) LoginAuthority(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	authority, err := ah.approvalService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, ah.logger, err)
		return
	}

	token, err := ah.authMiddleware.IssueToken(authority.ID)
	if err != nil {
		respondError(c, ah.logger, err)
		return
	}

	ah.logger.Info("Authority logged in", zap.String("authority_id", authority.ID))
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     token,
		"authority": authority,
	})
}
