package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/darshan-stack/Muncipal-Fund/internal/db/models"
	"github.com/darshan-stack/Muncipal-Fund/internal/docproc"
	"github.com/darshan-stack/Muncipal-Fund/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Pinner stores a blob in the content-addressed store and returns its
// identifier. The bool reports whether the content was pinned upstream or the
// identifier is a local fallback.
type Pinner interface {
	Pin(ctx context.Context, fileName string, content []byte) (string, bool)
	GatewayURL(hash string) string
}

// DocumentService handles document intake: integrity hashing, geolocation
// extraction for photographic records, pinning, and the document ledger.
type DocumentService struct {
	db      *gorm.DB
	txs     *TransactionService
	pinner  Pinner
	logger  *zap.Logger
	metrics *metrics.Collector
}

type UploadInput struct {
	ProjectID    string
	FileName     string
	ContentType  string
	DocumentType string
	UploadedBy   string
	Content      []byte
}

func NewDocumentService(db *gorm.DB, txs *TransactionService, pinner Pinner, logger *zap.Logger, collector *metrics.Collector) *DocumentService {
	return &DocumentService{
		db:      db,
		txs:     txs,
		pinner:  pinner,
		logger:  logger.With(zap.String("service", "document_service")),
		metrics: collector,
	}
}

// Upload hashes the payload, extracts geolocation metadata when the document
// is a photographic record, pins the bytes, and persists the document entry.
// Pinning failures degrade to a fallback identifier; the upload itself never
// fails on an unreachable store.
func (ds *DocumentService) Upload(ctx context.Context, input UploadInput) (*models.Document, error) {
	start := time.Now()

	if err := ds.db.WithContext(ctx).First(&models.Project{}, "id = ?", input.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	contentHash := docproc.FileHash(input.Content)

	var gpsJSON datatypes.JSON
	verified := false
	if isPhotoRecord(input.DocumentType, input.ContentType) {
		if gps := docproc.ExtractGPS(input.Content); gps != nil {
			if payload, err := json.Marshal(gps); err == nil {
				gpsJSON = datatypes.JSON(payload)
				verified = true
			}
		}
	}

	ipfsHash, pinned := ds.pinner.Pin(ctx, input.FileName, input.Content)

	doc := &models.Document{
		ID:           uuid.New().String(),
		ProjectID:    input.ProjectID,
		FileName:     input.FileName,
		FileSize:     int64(len(input.Content)),
		ContentType:  input.ContentType,
		DocumentType: input.DocumentType,
		ContentHash:  contentHash,
		IPFSHash:     ipfsHash,
		GatewayURL:   ds.pinner.GatewayURL(ipfsHash),
		GPSData:      gpsJSON,
		Verified:     verified,
		UploadedBy:   input.UploadedBy,
	}

	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		return ds.txs.Record(tx, models.TxDocumentUpload, input.ProjectID, ipfsHash, map[string]any{
			"file_name":     input.FileName,
			"document_type": input.DocumentType,
			"content_hash":  contentHash,
			"gps_verified":  verified,
			"pinned":        pinned,
		})
	})
	if err != nil {
		return nil, err
	}

	ds.metrics.IncrementCounter("documents_uploaded")
	ds.metrics.ObserveSize("document_size", float64(len(input.Content)))
	ds.metrics.ObserveLatency("document_upload", time.Since(start))

	ds.logger.Info("Document uploaded",
		zap.String("document_id", doc.ID),
		zap.String("project_id", input.ProjectID),
		zap.String("ipfs_hash", ipfsHash),
		zap.Bool("pinned", pinned),
		zap.Bool("gps_verified", verified))
	return doc, nil
}

func (ds *DocumentService) List(ctx context.Context, projectID string) ([]models.Document, error) {
	var docs []models.Document
	if err := ds.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes a document by (project, document) pair.
func (ds *DocumentService) Delete(ctx context.Context, projectID, documentID string) error {
	result := ds.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", documentID, projectID).
		Delete(&models.Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	ds.logger.Info("Document deleted",
		zap.String("document_id", documentID),
		zap.String("project_id", projectID))
	return nil
}

// isPhotoRecord reports whether the upload should go through geolocation
// extraction.
func isPhotoRecord(documentType, contentType string) bool {
	switch documentType {
	case "gps_photos", "site_photos", "photo":
		return true
	}
	return strings.HasPrefix(contentType, "image/")
}
