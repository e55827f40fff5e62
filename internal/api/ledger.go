package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/pokerclub-server/internal/models"
)

// Transaction handlers
func (h *Handler) RecordTransaction(c *gin.Context) {
	playerID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req models.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	txn, err := h.service.RecordTransaction(c.Request.Context(), playerID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.TransactionResponse{
		Status:      "success",
		Transaction: txn,
	})
}

func (h *Handler) ListPlayerTransactions(c *gin.Context) {
	playerID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	txns, err := h.service.ListPlayerTransactions(c.Request.Context(), playerID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TransactionsResponse{
		Status:       "success",
		Transactions: txns,
	})
}

func (h *Handler) ListOpenTransactions(c *gin.Context) {
	txns, err := h.service.ListOpenTransactions(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TransactionsResponse{
		Status:       "success",
		Transactions: txns,
	})
}

// Balance handlers
func (h *Handler) ListPlayerBalances(c *gin.Context) {
	balances, err := h.service.PlayerBalances(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PlayerBalancesResponse{
		Status:   "success",
		Balances: balances,
	})
}

func (h *Handler) GetGlobalTotals(c *gin.Context) {
	totals, err := h.service.GlobalTotals(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.GlobalTotalsResponse{
		Status: "success",
		Totals: totals,
	})
}

func (h *Handler) GetOpenPeriodTotals(c *gin.Context) {
	totals, err := h.service.OpenPeriodTotals(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.GlobalTotalsResponse{
		Status: "success",
		Totals: totals,
	})
}
