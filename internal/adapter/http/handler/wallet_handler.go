package handler

import (
	"strconv"

	"hydra-ledger/internal/adapter/http/dto"
	"hydra-ledger/internal/core/ports"
	"hydra-ledger/pkg/apperror"
	"hydra-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// WalletHandler handles wallet and transaction log endpoints.
type WalletHandler struct {
	ledgerSvc ports.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledgerSvc ports.LedgerService) *WalletHandler {
	return &WalletHandler{ledgerSvc: ledgerSvc}
}

// GetWallets handles GET /api/v1/wallets.
func (h *WalletHandler) GetWallets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	wallets, err := h.ledgerSvc.GetWallets(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromWallets(wallets))
}

// GetOverview handles GET /api/v1/overview.
func (h *WalletHandler) GetOverview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	overview, err := h.ledgerSvc.Overview(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromOverview(overview))
}

// ListTransactions handles GET /api/v1/transactions?limit=&offset=.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := parseIntQuery(c, "limit", 50)
	offset := parseIntQuery(c, "offset", 0)
	if limit < 0 || limit > 500 || offset < 0 {
		response.Error(c, apperror.Validation("limit must be 0..500 and offset >= 0"))
		return
	}

	txns, err := h.ledgerSvc.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.TransactionListResponse{
		Items:  dto.FromTransactions(txns),
		Limit:  limit,
		Offset: offset,
	})
}

// Deposit handles POST /api/v1/deposits.
func (h *WalletHandler) Deposit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)
	if req.Currency == "" {
		req.Currency = "USD"
	}

	txn, err := h.ledgerSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		UserID:   userID,
		Currency: req.Currency,
		Amount:   decimal.NewFromFloat(req.Amount),
		Details:  req.Details,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromTransaction(*txn))
}

// Withdraw handles POST /api/v1/withdrawals.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	txn, err := h.ledgerSvc.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		UserID:   userID,
		Currency: req.Currency,
		Amount:   decimal.NewFromFloat(req.Amount),
		Details:  req.Details,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromTransaction(*txn))
}

// GenerateAddress handles POST /api/v1/wallets/address.
func (h *WalletHandler) GenerateAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.DepositAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	address, err := h.ledgerSvc.GenerateDepositAddress(c.Request.Context(), userID, req.Currency)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.DepositAddressResponse{
		Currency: req.Currency,
		Address:  address,
	})
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}
