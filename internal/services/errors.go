package services

import "errors"

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrMilestoneNotFound  = errors.New("milestone not found")
	ErrApprovalNotFound   = errors.New("approval request not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrAuthorityNotFound  = errors.New("authority not found")
	ErrNoAuthorities      = errors.New("no authority registered to review submissions")
	ErrApprovalDecided    = errors.New("approval request already decided")
	ErrInvalidDecision    = errors.New("decision must be Approved or Rejected")
	ErrAuthorityExists    = errors.New("authority username already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
