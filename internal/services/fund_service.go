package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/darshan-stack/Muncipal-Fund/internal/db/models"
	"github.com/darshan-stack/Muncipal-Fund/internal/utils"
	"github.com/darshan-stack/Muncipal-Fund/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FundService owns the project/milestone/expenditure/allocation ledger. The
// denormalized counters (project.allocated_funds, project.spent_funds,
// milestone.spent_amount) are maintained incrementally with store-side atomic
// increments; each multi-row mutation runs inside one store transaction.
type FundService struct {
	db      *gorm.DB
	txs     *TransactionService
	logger  *zap.Logger
	metrics *metrics.Collector
}

type ProjectInput struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	Budget            float64 `json:"budget" binding:"required"`
	ManagerAddress    string  `json:"manager_address"`
	ContractorName    string  `json:"contractor_name"`
	ContractorWallet  string  `json:"contractor_wallet"`
	TxHash            string  `json:"tx_hash"`
	ContractProjectID *int    `json:"contract_project_id"`
}

type AllocationInput struct {
	ProjectID   string  `json:"project_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	AllocatedBy string  `json:"allocated_by"`
	Purpose     string  `json:"purpose"`
	TxHash      string  `json:"tx_hash"`
}

type MilestoneInput struct {
	ProjectID    string  `json:"project_id" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	TargetAmount float64 `json:"target_amount" binding:"required"`
	TxHash       string  `json:"tx_hash"`
}

type MilestoneUpdateInput struct {
	SpentAmount *float64                `json:"spent_amount"`
	Status      *models.MilestoneStatus `json:"status"`
	TxHash      *string                 `json:"tx_hash"`
}

type ExpenditureInput struct {
	ProjectID   string  `json:"project_id" binding:"required"`
	MilestoneID string  `json:"milestone_id"`
	Amount      float64 `json:"amount" binding:"required"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Recipient   string  `json:"recipient"`
	TxHash      string  `json:"tx_hash"`
}

func NewFundService(db *gorm.DB, txs *TransactionService, logger *zap.Logger, collector *metrics.Collector) *FundService {
	return &FundService{
		db:      db,
		txs:     txs,
		logger:  logger.With(zap.String("service", "fund_service")),
		metrics: collector,
	}
}

func (fs *FundService) CreateProject(ctx context.Context, input ProjectInput) (*models.Project, error) {
	project := &models.Project{
		ID:                uuid.New().String(),
		Name:              input.Name,
		Description:       input.Description,
		Category:          input.Category,
		Budget:            input.Budget,
		ManagerAddress:    input.ManagerAddress,
		ContractorName:    input.ContractorName,
		ContractorWallet:  input.ContractorWallet,
		Status:            models.ProjectDraft,
		TxHash:            input.TxHash,
		ContractProjectID: input.ContractProjectID,
	}
	if project.Category == "" {
		project.Category = "Infrastructure"
	}

	err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		if input.TxHash == "" {
			return nil
		}
		return fs.txs.Record(tx, models.TxProjectCreate, project.ID, input.TxHash, map[string]any{
			"name":     input.Name,
			"budget":   input.Budget,
			"category": project.Category,
		})
	})
	if err != nil {
		return nil, err
	}

	fs.metrics.IncrementCounter("projects_created")
	fs.logger.Info("Project created",
		zap.String("project_id", project.ID),
		zap.String("name", project.Name),
		zap.Float64("budget", project.Budget))
	return project, nil
}

func (fs *FundService) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := fs.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (fs *FundService) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	var project models.Project
	if err := fs.db.WithContext(ctx).First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Allocate records a fund allocation and increments the project's
// allocated_funds counter. No budget ceiling is enforced.
func (fs *FundService) Allocate(ctx context.Context, input AllocationInput) (*models.FundAllocation, error) {
	if _, err := fs.GetProject(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	if input.TxHash == "" {
		input.TxHash = utils.NewTxRef()
	}
	allocation := &models.FundAllocation{
		ID:          uuid.New().String(),
		ProjectID:   input.ProjectID,
		Amount:      input.Amount,
		AllocatedBy: input.AllocatedBy,
		Purpose:     input.Purpose,
		TxHash:      input.TxHash,
	}

	err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(allocation).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Project{}).
			Where("id = ?", input.ProjectID).
			Update("allocated_funds", gorm.Expr("allocated_funds + ?", input.Amount)).Error; err != nil {
			return err
		}
		return fs.txs.Record(tx, models.TxFundAllocation, input.ProjectID, input.TxHash, map[string]any{
			"amount":  input.Amount,
			"purpose": input.Purpose,
		})
	})
	if err != nil {
		return nil, err
	}

	fs.metrics.IncrementCounter("funds_allocated")
	return allocation, nil
}

func (fs *FundService) ListAllocations(ctx context.Context, projectID string) ([]models.FundAllocation, error) {
	var allocations []models.FundAllocation
	if err := fs.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

func (fs *FundService) CreateMilestone(ctx context.Context, input MilestoneInput) (*models.Milestone, error) {
	if _, err := fs.GetProject(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	milestone := &models.Milestone{
		ID:           uuid.New().String(),
		ProjectID:    input.ProjectID,
		Name:         input.Name,
		Description:  input.Description,
		TargetAmount: input.TargetAmount,
		Status:       models.MilestonePending,
		TxHash:       input.TxHash,
	}

	err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(milestone).Error; err != nil {
			return err
		}
		if input.TxHash == "" {
			return nil
		}
		return fs.txs.Record(tx, models.TxMilestoneCreate, input.ProjectID, input.TxHash, map[string]any{
			"milestone_name": input.Name,
			"target_amount":  input.TargetAmount,
		})
	})
	if err != nil {
		return nil, err
	}

	fs.metrics.IncrementCounter("milestones_created")
	return milestone, nil
}

func (fs *FundService) ListMilestones(ctx context.Context, projectID string) ([]models.Milestone, error) {
	var milestones []models.Milestone
	if err := fs.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&milestones).Error; err != nil {
		return nil, err
	}
	return milestones, nil
}

// UpdateMilestone applies a partial update. A transition to Completed stamps
// the completion date; a spent_amount change propagates the delta onto the
// project's spent_funds counter.
func (fs *FundService) UpdateMilestone(ctx context.Context, milestoneID string, input MilestoneUpdateInput) (*models.Milestone, error) {
	var milestone models.Milestone

	err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&milestone, "id = ?", milestoneID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMilestoneNotFound
			}
			return err
		}

		updates := map[string]any{}
		if input.Status != nil {
			updates["status"] = *input.Status
			if *input.Status == models.MilestoneCompleted {
				updates["completion_date"] = time.Now().UTC()
			}
		}
		if input.TxHash != nil {
			updates["tx_hash"] = *input.TxHash
		}
		if input.SpentAmount != nil {
			updates["spent_amount"] = *input.SpentAmount
			diff := *input.SpentAmount - milestone.SpentAmount
			if err := tx.Model(&models.Project{}).
				Where("id = ?", milestone.ProjectID).
				Update("spent_funds", gorm.Expr("spent_funds + ?", diff)).Error; err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&milestone).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&milestone, "id = ?", milestoneID).Error
	})
	if err != nil {
		return nil, err
	}
	return &milestone, nil
}

// CreateExpenditure inserts the expenditure and increments the project's
// spent_funds and, when linked, the milestone's spent_amount, all in one
// store transaction so the counters stay consistent with the row sums.
func (fs *FundService) CreateExpenditure(ctx context.Context, input ExpenditureInput) (*models.Expenditure, error) {
	if _, err := fs.GetProject(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	if input.TxHash == "" {
		input.TxHash = utils.NewTxRef()
	}
	expenditure := &models.Expenditure{
		ID:          uuid.New().String(),
		ProjectID:   input.ProjectID,
		MilestoneID: input.MilestoneID,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Recipient:   input.Recipient,
		TxHash:      input.TxHash,
	}
	if expenditure.Category == "" {
		expenditure.Category = "General"
	}

	err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(expenditure).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Project{}).
			Where("id = ?", input.ProjectID).
			Update("spent_funds", gorm.Expr("spent_funds + ?", input.Amount)).Error; err != nil {
			return err
		}
		if input.MilestoneID != "" {
			if err := tx.Model(&models.Milestone{}).
				Where("id = ?", input.MilestoneID).
				Update("spent_amount", gorm.Expr("spent_amount + ?", input.Amount)).Error; err != nil {
				return err
			}
		}
		return fs.txs.Record(tx, models.TxExpenditure, input.ProjectID, input.TxHash, map[string]any{
			"amount":      input.Amount,
			"category":    expenditure.Category,
			"description": input.Description,
			"recipient":   input.Recipient,
		})
	})
	if err != nil {
		return nil, err
	}

	fs.metrics.IncrementCounter("expenditures_recorded")
	return expenditure, nil
}

func (fs *FundService) ListExpenditures(ctx context.Context, projectID string) ([]models.Expenditure, error) {
	var expenditures []models.Expenditure
	if err := fs.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&expenditures).Error; err != nil {
		return nil, err
	}
	return expenditures, nil
}

// Stats is the full derived aggregate over the ledger. Percentages are plain
// ratios x100 rounded to two decimal places, 0 when the denominator is 0.
type Stats struct {
	TotalProjects           int64              `json:"total_projects"`
	ActiveProjects          int64              `json:"active_projects"`
	ApprovedProjects        int64              `json:"approved_projects"`
	PendingProjects         int64              `json:"pending_projects"`
	TotalMilestones         int64              `json:"total_milestones"`
	CompletedMilestones     int64              `json:"completed_milestones"`
	MilestonesByStatus      map[string]int64   `json:"milestones_by_status"`
	TotalExpenditures       int64              `json:"total_expenditures"`
	TotalBudget             float64            `json:"total_budget"`
	TotalAllocated          float64            `json:"total_allocated"`
	TotalSpent              float64            `json:"total_spent"`
	UnallocatedFunds        float64            `json:"unallocated_funds"`
	AllocatedUnspent        float64            `json:"allocated_unspent"`
	BudgetUtilization       float64            `json:"budget_utilization"`
	AllocationRate          float64            `json:"allocation_rate"`
	SpendingRate            float64            `json:"spending_rate"`
	ExpenditureByCategory   map[string]float64 `json:"expenditure_by_category"`
	BudgetByProjectCategory map[string]float64 `json:"budget_by_project_category"`
	SpentByProjectCategory  map[string]float64 `json:"spent_by_project_category"`
}

type categorySum struct {
	Category string
	Total    float64
}

type statusCount struct {
	Status string
	Total  int64
}

// ComputeStats derives the aggregate with server-side SQL rather than a
// client-side scan, so it holds up past the first thousand rows.
func (fs *FundService) ComputeStats(ctx context.Context) (*Stats, error) {
	db := fs.db.WithContext(ctx)
	stats := &Stats{
		MilestonesByStatus:      map[string]int64{},
		ExpenditureByCategory:   map[string]float64{},
		BudgetByProjectCategory: map[string]float64{},
		SpentByProjectCategory:  map[string]float64{},
	}

	if err := db.Model(&models.Project{}).Count(&stats.TotalProjects).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Project{}).Where("status = ?", models.ProjectActive).Count(&stats.ActiveProjects).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Project{}).Where("status = ?", models.ProjectApproved).Count(&stats.ApprovedProjects).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Project{}).Where("status = ?", models.ProjectPendingApproval).Count(&stats.PendingProjects).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Milestone{}).Count(&stats.TotalMilestones).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Expenditure{}).Count(&stats.TotalExpenditures).Error; err != nil {
		return nil, err
	}

	var milestoneCounts []statusCount
	if err := db.Model(&models.Milestone{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Scan(&milestoneCounts).Error; err != nil {
		return nil, err
	}
	for _, row := range milestoneCounts {
		stats.MilestonesByStatus[row.Status] = row.Total
		if row.Status == string(models.MilestoneCompleted) {
			stats.CompletedMilestones = row.Total
		}
	}

	var totals struct {
		TotalBudget    float64
		TotalAllocated float64
		TotalSpent     float64
	}
	if err := db.Model(&models.Project{}).
		Select("COALESCE(SUM(budget), 0) as total_budget, COALESCE(SUM(allocated_funds), 0) as total_allocated, COALESCE(SUM(spent_funds), 0) as total_spent").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	stats.TotalBudget = totals.TotalBudget
	stats.TotalAllocated = totals.TotalAllocated
	stats.TotalSpent = totals.TotalSpent
	stats.UnallocatedFunds = totals.TotalBudget - totals.TotalAllocated
	stats.AllocatedUnspent = totals.TotalAllocated - totals.TotalSpent
	stats.BudgetUtilization = ratePercent(totals.TotalSpent, totals.TotalBudget)
	stats.AllocationRate = ratePercent(totals.TotalAllocated, totals.TotalBudget)
	stats.SpendingRate = ratePercent(totals.TotalSpent, totals.TotalAllocated)

	var expenditureSums []categorySum
	if err := db.Model(&models.Expenditure{}).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Group("category").
		Scan(&expenditureSums).Error; err != nil {
		return nil, err
	}
	for _, row := range expenditureSums {
		stats.ExpenditureByCategory[row.Category] = row.Total
	}

	var budgetSums []categorySum
	if err := db.Model(&models.Project{}).
		Select("category, COALESCE(SUM(budget), 0) as total").
		Group("category").
		Scan(&budgetSums).Error; err != nil {
		return nil, err
	}
	for _, row := range budgetSums {
		stats.BudgetByProjectCategory[row.Category] = row.Total
	}

	var spentSums []categorySum
	if err := db.Model(&models.Project{}).
		Select("category, COALESCE(SUM(spent_funds), 0) as total").
		Group("category").
		Scan(&spentSums).Error; err != nil {
		return nil, err
	}
	for _, row := range spentSums {
		stats.SpentByProjectCategory[row.Category] = row.Total
	}

	return stats, nil
}

// ratePercent is 0 when the denominator is 0, else 100*num/den rounded to
// two decimal places.
func ratePercent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return math.Round(num/den*100*100) / 100
}
