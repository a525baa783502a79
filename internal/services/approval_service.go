package services

import (
	"context"
	"errors"
	"time"

	"github.com/darshan-stack/Muncipal-Fund/internal/db/models"
	"github.com/darshan-stack/Muncipal-Fund/internal/utils"
	"github.com/darshan-stack/Muncipal-Fund/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Redaction sentinels substituted for contractor identity in the reviewer's
// listing view. The stored project keeps its true values throughout.
const (
	RedactedContractorName   = "[REDACTED]"
	RedactedContractorWallet = "[HIDDEN]"
)

// ApprovalService routes submitted projects to the least-loaded authority,
// serves the anonymized review listing, and applies decisions back onto the
// project and fund state.
type ApprovalService struct {
	db      *gorm.DB
	txs     *TransactionService
	pool    *reviewerPool
	logger  *zap.Logger
	metrics *metrics.Collector
}

type AuthorityInput struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

type DecisionInput struct {
	Decision models.ApprovalStatus `json:"decision" binding:"required"`
	Comments string                `json:"comments"`
}

// PendingApproval is an approval request annotated with a redacted snapshot
// of the linked project.
type PendingApproval struct {
	models.ApprovalRequest
	Project models.Project `json:"project"`
}

type DecisionResult struct {
	Success   bool                  `json:"success"`
	Decision  models.ApprovalStatus `json:"decision"`
	ProjectID string                `json:"project_id"`
	TxHash    string                `json:"tx_hash"`
}

func NewApprovalService(db *gorm.DB, txs *TransactionService, logger *zap.Logger, collector *metrics.Collector) (*ApprovalService, error) {
	as := &ApprovalService{
		db:      db,
		txs:     txs,
		pool:    newReviewerPool(),
		logger:  logger.With(zap.String("service", "approval_service")),
		metrics: collector,
	}

	var authorities []models.Authority
	if err := db.Order("created_at ASC").Find(&authorities).Error; err != nil {
		return nil, err
	}
	for _, a := range authorities {
		as.pool.Add(a.ID, a.ActiveReviews)
	}
	as.logger.Info("Reviewer pool initialized", zap.Int("authorities", len(authorities)))

	return as, nil
}

func (as *ApprovalService) RegisterAuthority(ctx context.Context, input AuthorityInput) (*models.Authority, error) {
	var count int64
	if err := as.db.WithContext(ctx).Model(&models.Authority{}).
		Where("username = ?", input.Username).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAuthorityExists
	}

	hash, err := utils.EncryptPassword(input.Password)
	if err != nil {
		return nil, err
	}

	authority := &models.Authority{
		ID:           uuid.New().String(),
		Username:     input.Username,
		PasswordHash: hash,
		Name:         input.Name,
		Email:        input.Email,
		Department:   input.Department,
	}
	if err := as.db.WithContext(ctx).Create(authority).Error; err != nil {
		return nil, err
	}

	as.pool.Add(authority.ID, 0)
	as.logger.Info("Authority registered",
		zap.String("authority_id", authority.ID),
		zap.String("username", authority.Username))
	return authority, nil
}

func (as *ApprovalService) Authenticate(ctx context.Context, username, password string) (*models.Authority, error) {
	var authority models.Authority
	if err := as.db.WithContext(ctx).First(&authority, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.VerifyPassword(authority.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &authority, nil
}

func (as *ApprovalService) GetAuthority(ctx context.Context, authorityID string) (*models.Authority, error) {
	var authority models.Authority
	if err := as.db.WithContext(ctx).First(&authority, "id = ?", authorityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorityNotFound
		}
		return nil, err
	}
	return &authority, nil
}

// Submit routes a project to the least-loaded reviewer, marks it
// PendingApproval and anonymous, and opens an approval request. The project
// and authority writes commit atomically; the pool assignment is rolled back
// if the store transaction fails.
func (as *ApprovalService) Submit(ctx context.Context, projectID string) (*models.ApprovalRequest, error) {
	project, err := as.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	reviewerID, ok := as.pool.Acquire()
	if !ok {
		return nil, ErrNoAuthorities
	}

	now := time.Now().UTC()
	approval := &models.ApprovalRequest{
		ID:          uuid.New().String(),
		ProjectID:   project.ID,
		AuthorityID: reviewerID,
		Status:      models.ApprovalPending,
		TxHash:      utils.NewTxRef(),
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).
			Where("id = ?", project.ID).
			Updates(map[string]any{
				"status":       models.ProjectPendingApproval,
				"submitted_at": now,
				"reviewer_id":  reviewerID,
				"is_anonymous": true,
			}).Error; err != nil {
			return err
		}
		if err := tx.Create(approval).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Authority{}).
			Where("id = ?", reviewerID).
			Update("active_reviews", gorm.Expr("active_reviews + 1")).Error; err != nil {
			return err
		}
		return as.txs.Record(tx, models.TxApprovalSubmission, project.ID, approval.TxHash, map[string]any{
			"project_name": project.Name,
			"budget":       project.Budget,
			"reviewer_id":  reviewerID,
		})
	})
	if err != nil {
		as.pool.Release(reviewerID)
		return nil, err
	}

	as.metrics.IncrementCounter("projects_submitted")
	as.logger.Info("Project submitted for approval",
		zap.String("project_id", project.ID),
		zap.String("reviewer_id", reviewerID))
	return approval, nil
}

// ListPending returns every open approval request assigned to the authority,
// each with a view-time redacted snapshot of the project.
func (as *ApprovalService) ListPending(ctx context.Context, authorityID string) ([]PendingApproval, error) {
	var approvals []models.ApprovalRequest
	if err := as.db.WithContext(ctx).
		Where("authority_id = ? AND status = ?", authorityID, models.ApprovalPending).
		Order("created_at ASC").
		Find(&approvals).Error; err != nil {
		return nil, err
	}

	pending := make([]PendingApproval, 0, len(approvals))
	for _, approval := range approvals {
		var project models.Project
		if err := as.db.WithContext(ctx).First(&project, "id = ?", approval.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				as.logger.Warn("Approval references missing project",
					zap.String("approval_id", approval.ID),
					zap.String("project_id", approval.ProjectID))
				continue
			}
			return nil, err
		}
		pending = append(pending, PendingApproval{
			ApprovalRequest: approval,
			Project:         redactProject(project),
		})
	}
	return pending, nil
}

// Decide applies a binary decision to a pending approval request. A request
// that is no longer Pending was already decided; a second decision is a
// conflict, not a replay.
func (as *ApprovalService) Decide(ctx context.Context, approvalID string, input DecisionInput) (*DecisionResult, error) {
	if input.Decision != models.ApprovalApproved && input.Decision != models.ApprovalRejected {
		return nil, ErrInvalidDecision
	}

	txRef := utils.NewTxRef()
	now := time.Now().UTC()
	var reviewerID, projectID string

	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var approval models.ApprovalRequest
		if err := tx.First(&approval, "id = ?", approvalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApprovalNotFound
			}
			return err
		}
		if approval.Status != models.ApprovalPending {
			return ErrApprovalDecided
		}
		reviewerID = approval.AuthorityID
		projectID = approval.ProjectID

		var project models.Project
		if err := tx.First(&project, "id = ?", approval.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}

		if err := tx.Model(&approval).Updates(map[string]any{
			"status":      input.Decision,
			"comments":    input.Comments,
			"tx_hash":     txRef,
			"reviewed_at": now,
		}).Error; err != nil {
			return err
		}

		var projectUpdates map[string]any
		txType := models.TxProjectRejection
		if input.Decision == models.ApprovalApproved {
			txType = models.TxProjectApproval
			projectUpdates = map[string]any{
				"status":          models.ProjectApproved,
				"is_anonymous":    false,
				"approved_at":     now,
				"allocated_funds": project.Budget,
			}
		} else {
			projectUpdates = map[string]any{
				"status":           models.ProjectRejected,
				"rejection_reason": input.Comments,
			}
		}
		if err := tx.Model(&models.Project{}).
			Where("id = ?", project.ID).
			Updates(projectUpdates).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Authority{}).
			Where("id = ?", reviewerID).
			Updates(map[string]any{
				"active_reviews": gorm.Expr("active_reviews - 1"),
				"total_reviewed": gorm.Expr("total_reviewed + 1"),
			}).Error; err != nil {
			return err
		}

		return as.txs.Record(tx, txType, project.ID, txRef, map[string]any{
			"decision": input.Decision,
			"comments": input.Comments,
		})
	})
	if err != nil {
		return nil, err
	}

	as.pool.Release(reviewerID)
	as.metrics.IncrementCounter("approvals_decided")
	as.logger.Info("Approval decided",
		zap.String("approval_id", approvalID),
		zap.String("project_id", projectID),
		zap.String("decision", string(input.Decision)))

	return &DecisionResult{
		Success:   true,
		Decision:  input.Decision,
		ProjectID: projectID,
		TxHash:    txRef,
	}, nil
}

func (as *ApprovalService) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	var project models.Project
	if err := as.db.WithContext(ctx).First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// redactProject copies the project with contractor identity replaced by the
// redaction sentinels. The redaction never crosses into persistent storage.
func redactProject(project models.Project) models.Project {
	project.ContractorName = RedactedContractorName
	project.ContractorWallet = RedactedContractorWallet
	return project
}
