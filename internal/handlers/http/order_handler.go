package http

import (
	stdErrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// OrderHandler lida com checkout, pedidos e o webhook do gateway
type OrderHandler struct {
	orderService *services.OrderService
	logger       ports.Logger
}

// NewOrderHandler cria um novo OrderHandler
func NewOrderHandler(orderService *services.OrderService, logger ports.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, logger: logger}
}

// Checkout transforma o carrinho em pedido e cria a cobrança
//
//	@Summary		Finaliza a compra
//	@Description	201 quando o pedido já está pago; 202 quando o cliente precisa confirmar o pagamento em authorize_uri
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		dto.CheckoutRequest	true	"Forma de pagamento"
//	@Success		201		{object}	dto.OrderResponse
//	@Success		202		{object}	dto.OrderResponse
//	@Failure		402		{object}	dto.ErrorResponse
//	@Failure		422		{object}	dto.ErrorResponse
//	@Router			/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), currentUser(c), req.ToInput())
	if err != nil {
		if order != nil && stdErrors.Is(err, errors.ErrPaymentFailed) {
			// o pedido existe (failed); o cliente recebe a referência junto com o problema
			response := dto.ProblemFromError(c, err)
			if response.Meta == nil {
				response.Meta = map[string]interface{}{}
			}
			response.Meta["order_id"] = order.ID
			response.Meta["order_number"] = order.Number
			c.Header("Content-Type", problems.ProblemMediaType)
			c.JSON(response.Status, response)
			return
		}
		dto.RespondError(c, err)
		return
	}

	status := http.StatusCreated
	if order.Status == entities.OrderPending {
		status = http.StatusAccepted
	}
	c.JSON(status, dto.ToOrderResponse(order))
}

// ListMine lista os pedidos do comprador
//
//	@Summary	Meus pedidos
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		page		query	int	false	"Página"
//	@Param		page_size	query	int	false	"Itens por página"
//	@Success	200			{array}	dto.OrderResponse
//	@Router		/orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	orders, err := h.orderService.ListMyOrders(c.Request.Context(), currentUser(c), pagination(q))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponses(orders))
}

// ListSales lista pedidos com itens do vendedor
//
//	@Summary	Minhas vendas
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	dto.OrderResponse
//	@Router		/sales [get]
func (h *OrderHandler) ListSales(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	orders, err := h.orderService.ListSales(c.Request.Context(), currentUser(c), pagination(q))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponses(orders))
}

// Get busca um pedido
//
//	@Summary	Detalhe do pedido
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID do pedido"
//	@Success	200	{object}	dto.OrderResponse
//	@Failure	403	{object}	dto.ErrorResponse
//	@Router		/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// Cancel cancela um pedido pendente
//
//	@Summary	Cancela pedido pendente
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID do pedido"
//	@Success	200	{object}	dto.OrderResponse
//	@Failure	409	{object}	dto.ErrorResponse
//	@Router		/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	order, err := h.orderService.Cancel(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// Fulfill marca um pedido pago como entregue
//
//	@Summary	Marca pedido como entregue
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID do pedido"
//	@Success	200	{object}	dto.OrderResponse
//	@Router		/orders/{id}/fulfill [post]
func (h *OrderHandler) Fulfill(c *gin.Context) {
	order, err := h.orderService.Fulfill(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// webhookBody é o envelope enviado pelo gateway; só o ID é usado
type webhookBody struct {
	ID string `json:"id" binding:"required"`
}

// PaymentWebhook recebe notificações do gateway de pagamento.
// O evento é buscado novamente no gateway, o conteúdo do corpo não é confiável.
//
//	@Summary	Webhook do gateway de pagamento
//	@Tags		payments
//	@Accept		json
//	@Success	200
//	@Failure	400	{object}	dto.ErrorResponse
//	@Router		/webhooks/payments [post]
func (h *OrderHandler) PaymentWebhook(c *gin.Context) {
	var body webhookBody
	if !bindJSON(c, &body) {
		return
	}

	if err := h.orderService.HandlePaymentWebhook(c.Request.Context(), body.ID); err != nil {
		h.logger.Error("payment webhook failed", "event_id", body.ID, "error", err)
		dto.RespondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
