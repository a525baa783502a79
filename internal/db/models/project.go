package models

import (
	"time"
)

type ProjectStatus string

const (
	ProjectDraft           ProjectStatus = "Draft"
	ProjectPendingApproval ProjectStatus = "PendingApproval"
	ProjectApproved        ProjectStatus = "Approved"
	ProjectRejected        ProjectStatus = "Rejected"
	ProjectActive          ProjectStatus = "Active"
	ProjectCompleted       ProjectStatus = "Completed"
	ProjectPaused          ProjectStatus = "Paused"
)

// Project is a municipal fund project. The allocated_funds and spent_funds
// columns are running counters maintained by increment-on-write; they are
// never re-derived from the allocation/expenditure rows.
type Project struct {
	ID                string        `gorm:"primaryKey" json:"id"`
	Name              string        `gorm:"not null" json:"name"`
	Description       string        `json:"description"`
	Category          string        `gorm:"not null;default:'Infrastructure'" json:"category"`
	Budget            float64       `gorm:"not null" json:"budget"`
	AllocatedFunds    float64       `gorm:"not null;default:0" json:"allocated_funds"`
	SpentFunds        float64       `gorm:"not null;default:0" json:"spent_funds"`
	ManagerAddress    string        `json:"manager_address"`
	ContractorName    string        `json:"contractor_name"`
	ContractorWallet  string        `json:"contractor_wallet"`
	Status            ProjectStatus `gorm:"not null;default:'Draft'" json:"status"`
	IsAnonymous       bool          `gorm:"not null;default:false" json:"is_anonymous"`
	ReviewerID        string        `gorm:"index" json:"reviewer_id,omitempty"`
	RejectionReason   string        `json:"rejection_reason,omitempty"`
	TxHash            string        `json:"tx_hash,omitempty"`
	ContractProjectID *int          `json:"contract_project_id,omitempty"`
	SubmittedAt       *time.Time    `json:"submitted_at,omitempty"`
	ApprovedAt        *time.Time    `json:"approved_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"-"`
}
