package services

import (
	"context"
	"testing"

	"github.com/darshan-stack/Muncipal-Fund/internal/db"
	"github.com/darshan-stack/Muncipal-Fund/internal/db/models"
	"github.com/darshan-stack/Muncipal-Fund/pkg/metrics"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(gdb))
	return gdb
}

func newTestServices(t *testing.T) (*gorm.DB, *FundService, *ApprovalService) {
	t.Helper()

	gdb := openTestDB(t)
	log := zap.NewNop()
	collector := metrics.NewCollector()
	txs := NewTransactionService(gdb, log)
	fund := NewFundService(gdb, txs, log, collector)
	approval, err := NewApprovalService(gdb, txs, log, collector)
	require.NoError(t, err)
	return gdb, fund, approval
}

func createTestProject(t *testing.T, fund *FundService, budget float64) *models.Project {
	t.Helper()

	project, err := fund.CreateProject(context.Background(), ProjectInput{
		Name:             "Riverside Road Repair",
		Description:      "Resurfacing of the riverside arterial road",
		Category:         "Infrastructure",
		Budget:           budget,
		ManagerAddress:   "0x123456789abcdef123456789abcdef123456789a",
		ContractorName:   "Apex Construction Ltd",
		ContractorWallet: "0x742d35cc6634c0532925a3b8d4c2c4e4c4c4c4c4",
	})
	require.NoError(t, err)
	return project
}

func registerTestAuthority(t *testing.T, approval *ApprovalService, username string) *models.Authority {
	t.Helper()

	authority, err := approval.RegisterAuthority(context.Background(), AuthorityInput{
		Username:   username,
		Password:   "review-secret-1",
		Name:       "Reviewer " + username,
		Email:      username + "@city.gov",
		Department: "Audit",
	})
	require.NoError(t, err)
	return authority
}
