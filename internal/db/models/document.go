package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document is an uploaded file pinned to the content-addressed store and
// linked to a project. ContentHash is a hex sha256 of the raw bytes; Verified
// is true iff geolocation metadata was extracted from the file.
type Document struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	ProjectID    string         `gorm:"index;not null" json:"project_id"`
	FileName     string         `gorm:"not null" json:"file_name"`
	FileSize     int64          `json:"file_size"`
	ContentType  string         `json:"content_type"`
	DocumentType string         `gorm:"not null" json:"document_type"`
	ContentHash  string         `gorm:"not null" json:"content_hash"`
	IPFSHash     string         `gorm:"not null" json:"ipfs_hash"`
	GatewayURL   string         `json:"gateway_url"`
	GPSData      datatypes.JSON `json:"gps_data,omitempty"`
	Verified     bool           `gorm:"not null;default:false" json:"verified"`
	UploadedBy   string         `json:"uploaded_by"`
	CreatedAt    time.Time      `json:"uploaded_at"`
}
