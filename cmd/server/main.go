package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/darshan-stack/Muncipal-Fund/internal/api"
	"github.com/darshan-stack/Muncipal-Fund/internal/chain"
	"github.com/darshan-stack/Muncipal-Fund/internal/config"
	"github.com/darshan-stack/Muncipal-Fund/internal/db"
	"github.com/darshan-stack/Muncipal-Fund/internal/ipfs"
	"github.com/darshan-stack/Muncipal-Fund/internal/services"
	"github.com/darshan-stack/Muncipal-Fund/pkg/logger"
	"github.com/darshan-stack/Muncipal-Fund/pkg/metrics"
	"go.uber.org/zap"
)

func main() {
	cfg := config.InitializeDefaultConfig()

	zapLogger, err := logger.NewLogger(cfg.Logging.Environment, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	config.LogConfig(zapLogger)

	database, err := db.Initialize(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}

	collector := metrics.NewCollector()
	ipfsClient := ipfs.NewClient(cfg.IPFS, zapLogger)
	chainClient := chain.NewClient(cfg.Chain, zapLogger)

	txService := services.NewTransactionService(database, zapLogger)
	fundService := services.NewFundService(database, txService, zapLogger, collector)
	approvalService, err := services.NewApprovalService(database, txService, zapLogger, collector)
	if err != nil {
		zapLogger.Fatal("Failed to initialize approval service", zap.Error(err))
	}
	documentService := services.NewDocumentService(database, txService, ipfsClient, zapLogger, collector)

	router := api.NewRouter(cfg, zapLogger, collector, fundService, approvalService, documentService, txService, chainClient)
	router.SetupRoutes()

	port := cfg.Server.Port
	go func() {
		if err := router.Run(":" + port); err != nil {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	zapLogger.Info("Server started", zap.String("port", port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	sqlDB, err := database.DB()
	if err == nil {
		sqlDB.Close()
	}
	zapLogger.Info("Server gracefully stopped")
}
