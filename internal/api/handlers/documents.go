package handlers

import (
	"io"
	"net/http"

	"github.com/darshan-stack/Muncipal-Fund/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxUploadBytes caps a single document upload.
const maxUploadBytes = 25 << 20

type DocumentHandler struct {
	documentService *services.DocumentService
	logger          *zap.Logger
}

func NewDocumentHandler(documentService *services.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger.With(zap.String("handler", "document")),
	}
}

func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required", "details": err.Error()})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}

	documentType := c.PostForm("document_type")
	if documentType == "" {
		documentType = "general"
	}

	doc, err := h.documentService.Upload(c.Request.Context(), services.UploadInput{
		ProjectID:    c.Param("id"),
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		DocumentType: documentType,
		UploadedBy:   c.PostForm("uploaded_by"),
		Content:      content,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"document_id":  doc.ID,
		"ipfs_hash":    doc.IPFSHash,
		"gateway_url":  doc.GatewayURL,
		"gps_verified": doc.Verified,
	})
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	docs, err := h.documentService.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	err := h.documentService.Delete(c.Request.Context(), c.Param("id"), c.Param("docId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
