package handler

import (
	"strings"

	"hydra-ledger/internal/adapter/http/dto"
	"hydra-ledger/internal/core/ports"
	"hydra-ledger/pkg/apperror"
	"hydra-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ExchangeHandler handles quote and exchange endpoints.
type ExchangeHandler struct {
	exchangeSvc ports.ExchangeService
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(exchangeSvc ports.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeSvc: exchangeSvc}
}

// GetQuote handles GET /api/v1/exchange/quote?from=&to=&amount=.
func (h *ExchangeHandler) GetQuote(c *gin.Context) {
	from := strings.ToUpper(strings.TrimSpace(c.Query("from")))
	to := strings.ToUpper(strings.TrimSpace(c.Query("to")))
	if from == "" || to == "" {
		response.Error(c, apperror.Validation("from and to are required"))
		return
	}
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	quote, err := h.exchangeSvc.Quote(c.Request.Context(), from, to, amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromQuote(*quote))
}

// Execute handles POST /api/v1/exchange.
func (h *ExchangeHandler) Execute(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.exchangeSvc.Execute(c.Request.Context(), ports.ExecuteExchangeRequest{
		UserID:       userID,
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		FromAmount:   decimal.NewFromFloat(req.Amount),
		QuotedAt:     req.QuotedAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ExchangeResponse{
		Out:   dto.FromTransaction(result.Out),
		In:    dto.FromTransaction(result.In),
		Quote: dto.FromQuote(result.Quote),
	})
}
