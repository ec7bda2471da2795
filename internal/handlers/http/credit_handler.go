package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// CreditHandler lida com saldo, extrato e concessão de créditos
type CreditHandler struct {
	creditService *services.CreditService
	currency      string
}

// NewCreditHandler cria um novo CreditHandler; currency é a moeda da plataforma
func NewCreditHandler(creditService *services.CreditService, currency string) *CreditHandler {
	return &CreditHandler{creditService: creditService, currency: currency}
}

// Balance retorna o saldo do usuário
//
//	@Summary	Saldo de créditos
//	@Tags		credits
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.CreditBalanceResponse
//	@Router		/credits [get]
func (h *CreditHandler) Balance(c *gin.Context) {
	balance, err := h.creditService.Balance(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CreditBalanceResponse{Balance: balance.StringFixed(2), Currency: h.currency})
}

// History retorna o extrato do usuário
//
//	@Summary	Extrato de créditos
//	@Tags		credits
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	dto.CreditTransactionResponse
//	@Router		/credits/history [get]
func (h *CreditHandler) History(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	txs, err := h.creditService.History(c.Request.Context(), currentUser(c).ID, pagination(q))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCreditTransactionResponses(txs))
}

// Grant concede créditos a um usuário (admin)
//
//	@Summary	Concede créditos
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.GrantCreditsRequest	true	"Concessão"
//	@Success	201		{object}	dto.CreditTransactionResponse
//	@Router		/admin/credits [post]
func (h *CreditHandler) Grant(c *gin.Context) {
	var req dto.GrantCreditsRequest
	if !bindJSON(c, &req) {
		return
	}

	tx, err := h.creditService.Grant(c.Request.Context(), req.UserID, *req.Amount, req.Note)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreditTransactionResponse(tx))
}
