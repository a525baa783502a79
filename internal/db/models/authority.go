package models

import (
	"time"
)

// Authority is a reviewer account empowered to approve or reject submitted
// projects. ActiveReviews counts approvals currently assigned and pending;
// TotalReviewed is cumulative. Both are mutated by the approval workflow only.
type Authority struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"unique;not null" json:"username"`
	PasswordHash  string    `gorm:"not null" json:"-"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Department    string    `json:"department"`
	ActiveReviews int       `gorm:"not null;default:0" json:"active_reviews"`
	TotalReviewed int       `gorm:"not null;default:0" json:"total_reviewed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"-"`
}
