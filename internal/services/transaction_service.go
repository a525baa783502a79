package services

import (
	"context"
	"encoding/json"

	"github.com/darshan-stack/Muncipal-Fund/internal/db/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionService maintains the append-only audit journal. Every mutating
// action in the system records exactly one Transaction row.
type TransactionService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewTransactionService(db *gorm.DB, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		db:     db,
		logger: logger.With(zap.String("service", "transaction_service")),
	}
}

// Record appends a journal entry using the caller's transaction handle so the
// entry commits or rolls back together with the mutation it describes.
func (ts *TransactionService) Record(tx *gorm.DB, txType models.TransactionType, projectID, txHash string, details any) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}

	record := &models.Transaction{
		ID:        uuid.New().String(),
		TxHash:    txHash,
		Type:      txType,
		ProjectID: projectID,
		Details:   datatypes.JSON(payload),
	}
	return tx.Create(record).Error
}

func (ts *TransactionService) List(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := ts.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (ts *TransactionService) ListByProject(ctx context.Context, projectID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := ts.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}
