package models

import (
	"time"
)

type FundAllocation struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	ProjectID   string    `gorm:"index;not null" json:"project_id"`
	Amount      float64   `gorm:"not null" json:"amount"`
	AllocatedBy string    `json:"allocated_by"`
	Purpose     string    `json:"purpose"`
	TxHash      string    `json:"tx_hash"`
	CreatedAt   time.Time `json:"timestamp"`
}
