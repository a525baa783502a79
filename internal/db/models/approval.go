package models

import (
	"time"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

// ApprovalRequest links a submitted project to its assigned reviewer. Requests
// are closed when decided but never deleted; they form part of the audit trail.
type ApprovalRequest struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	ProjectID   string         `gorm:"index;not null" json:"project_id"`
	AuthorityID string         `gorm:"index;not null" json:"authority_id"`
	Status      ApprovalStatus `gorm:"not null;default:'Pending'" json:"status"`
	Comments    string         `json:"comments,omitempty"`
	TxHash      string         `json:"tx_hash,omitempty"`
	ReviewedAt  *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"-"`
}
