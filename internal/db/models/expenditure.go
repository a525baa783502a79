package models

import (
	"time"
)

type Expenditure struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	ProjectID   string    `gorm:"index;not null" json:"project_id"`
	MilestoneID string    `gorm:"index" json:"milestone_id,omitempty"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Category    string    `gorm:"not null;default:'General'" json:"category"`
	Description string    `json:"description"`
	Recipient   string    `json:"recipient"`
	TxHash      string    `json:"tx_hash"`
	Verified    bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt   time.Time `json:"timestamp"`
}
