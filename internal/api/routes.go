package api

import (
	"net/http"

	"github.com/darshan-stack/Muncipal-Fund/internal/api/handlers"
	"github.com/darshan-stack/Muncipal-Fund/internal/api/middleware"
	"github.com/darshan-stack/Muncipal-Fund/internal/chain"
	"github.com/darshan-stack/Muncipal-Fund/internal/config"
	"github.com/darshan-stack/Muncipal-Fund/internal/services"
	"github.com/darshan-stack/Muncipal-Fund/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	engine         *gin.Engine
	logger         *zap.Logger
	metrics        *metrics.Collector
	projectHandler *handlers.ProjectHandler
	fundHandler    *handlers.FundHandler
	authHandler    *handlers.AuthHandler
	apprHandler    *handlers.ApprovalHandler
	docHandler     *handlers.DocumentHandler
	txHandler      *handlers.TransactionHandler
	authMiddleware *middleware.AuthMiddleware
	reqMiddleware  *middleware.RequestMiddleware
}

func NewRouter(
	cfg *config.Configuration,
	logger *zap.Logger,
	collector *metrics.Collector,
	fundService *services.FundService,
	approvalService *services.ApprovalService,
	documentService *services.DocumentService,
	txService *services.TransactionService,
	chainClient *chain.Client,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	reqMiddleware := middleware.NewRequestMiddleware(logger)
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	engine.Use(reqMiddleware.ProcessRequest())
	engine.Use(reqMiddleware.RecoverPanic())
	engine.Use(reqMiddleware.LoginAttemptMiddleware())

	return &Router{
		engine:         engine,
		logger:         logger,
		metrics:        collector,
		projectHandler: handlers.NewProjectHandler(fundService, approvalService, logger),
		fundHandler:    handlers.NewFundHandler(fundService, logger),
		authHandler:    handlers.NewAuthHandler(approvalService, authMiddleware, logger),
		apprHandler:    handlers.NewApprovalHandler(approvalService, logger),
		docHandler:     handlers.NewDocumentHandler(documentService, logger),
		txHandler:      handlers.NewTransactionHandler(txService, chainClient, logger),
		authMiddleware: authMiddleware,
		reqMiddleware:  reqMiddleware,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up", "name": "municipal-fund-tracker"})
	})

	r.engine.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"counters":  r.metrics.Counters(),
			"latencies": r.metrics.Latencies(),
			"sizes":     r.metrics.Sizes(),
		})
	})

	api := r.engine.Group("/api")
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Municipal Fund Tracker API", "blockchain": "Polygon Mumbai"})
		})

		api.GET("/blockchain/status", r.txHandler.BlockchainStatus)
		api.GET("/verify/:txHash", r.txHandler.VerifyTransaction)

		api.POST("/projects", r.projectHandler.CreateProject)
		api.GET("/projects", r.projectHandler.ListProjects)
		api.GET("/projects/:id", r.projectHandler.GetProject)
		api.POST("/projects/:id/submit-approval", r.projectHandler.SubmitForApproval)

		api.POST("/allocations", r.fundHandler.AllocateFunds)
		api.GET("/allocations/:projectId", r.fundHandler.ListAllocations)

		api.POST("/milestones", r.fundHandler.CreateMilestone)
		api.GET("/milestones/:projectId", r.fundHandler.ListMilestones)
		api.PUT("/milestones/:id", r.fundHandler.UpdateMilestone)

		api.POST("/expenditures", r.fundHandler.CreateExpenditure)
		api.GET("/expenditures/:projectId", r.fundHandler.ListExpenditures)

		api.GET("/transactions", r.txHandler.ListTransactions)
		api.GET("/transactions/:projectId", r.txHandler.ListProjectTransactions)

		api.GET("/stats", r.fundHandler.GetStats)

		api.POST("/auth/authority/register", r.authHandler.RegisterAuthority)
		api.POST("/auth/authority/login", r.authHandler.LoginAuthority)

		api.POST("/projects/:id/upload-document", r.docHandler.UploadDocument)
		api.GET("/projects/:id/documents", r.docHandler.ListDocuments)
		api.DELETE("/projects/:id/documents/:docId", r.docHandler.DeleteDocument)

		reviews := api.Group("/approvals")
		reviews.Use(r.authMiddleware.RequireAuthority())
		{
			reviews.GET("/pending/:authorityId", r.apprHandler.ListPending)
			reviews.POST("/:id/decide", r.apprHandler.Decide)
		}
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) Run(addr string) error {
	r.logger.Info("Starting HTTP server", zap.String("address", addr))
	return r.engine.Run(addr)
}
