package handlers

import (
	"net/http"

	"github.com/darshan-stack/Muncipal-Fund/internal/chain"
	"github.com/darshan-stack/Muncipal-Fund/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TransactionHandler serves the audit journal and the read-only blockchain
// verification surface.
type TransactionHandler struct {
	txService   *services.TransactionService
	chainClient *chain.Client
	logger      *zap.Logger
}

func NewTransactionHandler(txService *services.TransactionService, chainClient *chain.Client, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService:   txService,
		chainClient: chainClient,
		logger:      logger.With(zap.String("handler", "transaction")),
	}
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	txs, err := h.txService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *TransactionHandler) ListProjectTransactions(c *gin.Context) {
	txs, err := h.txService.ListByProject(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// BlockchainStatus reports RPC connectivity. An unreachable endpoint is a
// degraded response, not an error.
func (h *TransactionHandler) BlockchainStatus(c *gin.Context) {
	blockNumber, err := h.chainClient.BlockNumber(c.Request.Context())
	if err != nil {
		h.logger.Warn("Blockchain RPC unreachable", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{
			"connected": false,
			"network":   h.chainClient.Network(),
			"rpc_url":   h.chainClient.RPCURL(),
			"error":     err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"connected":    true,
		"network":      h.chainClient.Network(),
		"latest_block": blockNumber,
		"rpc_url":      h.chainClient.RPCURL(),
	})
}

func (h *TransactionHandler) VerifyTransaction(c *gin.Context) {
	txHash := c.Param("txHash")

	receipt, err := h.chainClient.TransactionReceipt(c.Request.Context(), txHash)
	if err != nil || receipt == nil {
		msg := "Transaction not found"
		if err != nil {
			msg = "Transaction not found: " + err.Error()
		}
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verified":     true,
		"tx_hash":      txHash,
		"block_number": receipt.BlockNumber,
		"from":         receipt.From,
		"to":           receipt.To,
		"status":       receipt.Status,
		"gas_used":     receipt.GasUsed,
		"explorer_url": h.chainClient.ExplorerTxURL(txHash),
	})
}
