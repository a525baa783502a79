package models

import (
	"time"
)

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "Pending"
	MilestoneInProgress MilestoneStatus = "InProgress"
	MilestoneCompleted  MilestoneStatus = "Completed"
)

type Milestone struct {
	ID             string          `gorm:"primaryKey" json:"id"`
	ProjectID      string          `gorm:"index;not null" json:"project_id"`
	Name           string          `gorm:"not null" json:"name"`
	Description    string          `json:"description"`
	TargetAmount   float64         `gorm:"not null" json:"target_amount"`
	SpentAmount    float64         `gorm:"not null;default:0" json:"spent_amount"`
	Status         MilestoneStatus `gorm:"not null;default:'Pending'" json:"status"`
	CompletionDate *time.Time      `json:"completion_date,omitempty"`
	TxHash         string          `json:"tx_hash,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"-"`
}
