package handler

import (
	"hydra-ledger/internal/adapter/http/dto"
	"hydra-ledger/internal/core/domain"
	"hydra-ledger/internal/core/ports"
	"hydra-ledger/pkg/apperror"
	"hydra-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdminHandler handles the treasury and settlement surface.
type AdminHandler struct {
	treasurySvc ports.TreasuryService
	ledgerSvc   ports.LedgerService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(treasurySvc ports.TreasuryService, ledgerSvc ports.LedgerService) *AdminHandler {
	return &AdminHandler{treasurySvc: treasurySvc, ledgerSvc: ledgerSvc}
}

// GetTreasury handles GET /api/v1/admin/treasury.
func (h *AdminHandler) GetTreasury(c *gin.Context) {
	snaps, err := h.treasurySvc.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromTreasuries(snaps))
}

// Withdraw handles POST /api/v1/admin/withdrawals.
func (h *AdminHandler) Withdraw(c *gin.Context) {
	var req dto.AdminWithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	txn, err := h.treasurySvc.AdminWithdraw(c.Request.Context(), ports.AdminWithdrawRequest{
		Currency:           req.Currency,
		Amount:             decimal.NewFromFloat(req.Amount),
		DestinationAddress: req.DestinationAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromTransaction(*txn))
}

// ListWithdrawals handles GET /api/v1/admin/withdrawals.
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	txns, err := h.treasurySvc.Withdrawals(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromTransactions(txns))
}

// Settle handles POST /api/v1/admin/transactions/:id/settle.
func (h *AdminHandler) Settle(c *gin.Context) {
	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.ledgerSvc.Settle(c.Request.Context(), txID, domain.TransactionStatus(req.Outcome))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromTransaction(*txn))
}
