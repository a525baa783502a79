package models

import (
	"time"

	"gorm.io/datatypes"
)

type TransactionType string

const (
	TxProjectCreate      TransactionType = "project_create"
	TxMilestoneCreate    TransactionType = "milestone_create"
	TxExpenditure        TransactionType = "expenditure"
	TxFundAllocation     TransactionType = "fund_allocation"
	TxApprovalSubmission TransactionType = "approval_submission"
	TxProjectApproval    TransactionType = "project_approval"
	TxProjectRejection   TransactionType = "project_rejection"
	TxDocumentUpload     TransactionType = "document_upload"
)

// Transaction is an immutable audit record of one mutating action. Rows are
// append-only and retrieved in timestamp-descending order.
type Transaction struct {
	ID          string          `gorm:"primaryKey" json:"id"`
	TxHash      string          `gorm:"index" json:"tx_hash"`
	Type        TransactionType `gorm:"not null" json:"type"`
	ProjectID   string          `gorm:"index" json:"project_id,omitempty"`
	Details     datatypes.JSON  `json:"details"`
	BlockNumber *uint64         `json:"block_number,omitempty"`
	Verified    bool            `gorm:"not null;default:false" json:"verified"`
	CreatedAt   time.Time       `gorm:"index" json:"timestamp"`
}
