package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// ----- carrinho -----

// AddCartItemRequest adiciona uma listagem ao carrinho
type AddCartItemRequest struct {
	EntityType string `json:"entity_type" binding:"required,oneof=product event"`
	EntityID   string `json:"entity_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1,max=99"`
}

// UpdateCartItemRequest altera a quantidade; zero remove a linha
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0,max=99"`
}

// MergeCartRequest incorpora o carrinho de visitante ao do usuário
type MergeCartRequest struct {
	Token string `json:"token" binding:"required"`
}

// CartLineResponse representa uma linha com o preço atual
type CartLineResponse struct {
	ID         string `json:"id"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Title      string `json:"title"`
	SellerID   string `json:"seller_id"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	LineTotal  string `json:"line_total"`
	Currency   string `json:"currency"`
	Available  bool   `json:"available"`
}

// CartResponse representa o carrinho
type CartResponse struct {
	ID        string             `json:"id"`
	Token     string             `json:"token,omitempty"`
	Lines     []CartLineResponse `json:"lines"`
	Subtotal  string             `json:"subtotal"`
	Currency  string             `json:"currency,omitempty"`
	ItemCount int                `json:"item_count"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ToCartResponse converte a visão do carrinho
func ToCartResponse(view *services.CartView) CartResponse {
	lines := make([]CartLineResponse, len(view.Lines))
	count := 0
	for i, l := range view.Lines {
		lines[i] = CartLineResponse{
			ID:         l.Item.ID,
			EntityType: string(l.Item.EntityType),
			EntityID:   l.Item.EntityID,
			Title:      l.Title,
			SellerID:   l.SellerID,
			Quantity:   l.Item.Quantity,
			UnitPrice:  money(l.UnitPrice),
			LineTotal:  money(l.LineTotal()),
			Currency:   l.Currency,
			Available:  l.Available,
		}
		count += l.Item.Quantity
	}
	return CartResponse{
		ID:        view.Cart.ID,
		Lines:     lines,
		Subtotal:  money(view.Subtotal),
		Currency:  view.Currency,
		ItemCount: count,
		UpdatedAt: view.Cart.UpdatedAt,
	}
}

// GuestCartResponse é o retorno de POST /cart
type GuestCartResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// ----- checkout e pedidos -----

// CheckoutRequest informa a forma de pagamento.
// card_token vem do Omise.js; source_id de pagamentos alternativos (PromptPay etc).
type CheckoutRequest struct {
	CardToken  string `json:"card_token" binding:"omitempty,excluded_with=SourceID"`
	SourceID   string `json:"source_id"`
	UseCredits bool   `json:"use_credits"`
}

// ToInput converte para o input do serviço
func (r CheckoutRequest) ToInput() services.CheckoutInput {
	return services.CheckoutInput{
		CardToken:  r.CardToken,
		SourceID:   r.SourceID,
		UseCredits: r.UseCredits,
	}
}

// OrderItemResponse representa um item do pedido
type OrderItemResponse struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	SellerID   string `json:"seller_id"`
	Title      string `json:"title"`
	UnitPrice  string `json:"unit_price"`
	Quantity   int    `json:"quantity"`
	LineTotal  string `json:"line_total"`
}

// OrderResponse representa um pedido
type OrderResponse struct {
	ID             string              `json:"id"`
	Number         string              `json:"number"`
	BuyerID        string              `json:"buyer_id"`
	Status         string              `json:"status"`
	Items          []OrderItemResponse `json:"items"`
	Subtotal       string              `json:"subtotal"`
	CreditsApplied string              `json:"credits_applied"`
	Total          string              `json:"total"`
	Currency       string              `json:"currency"`
	AuthorizeURI   string              `json:"authorize_uri,omitempty"`
	FailureReason  string              `json:"failure_reason,omitempty"`
	PaidAt         *time.Time          `json:"paid_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// ToOrderResponse converte um pedido
func ToOrderResponse(o *entities.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			EntityType: string(item.EntityType),
			EntityID:   item.EntityID,
			SellerID:   item.SellerID,
			Title:      item.Title,
			UnitPrice:  money(item.UnitPrice),
			Quantity:   item.Quantity,
			LineTotal:  money(item.LineTotal()),
		}
	}
	response := OrderResponse{
		ID:             o.ID,
		Number:         o.Number,
		BuyerID:        o.BuyerID,
		Status:         string(o.Status),
		Items:          items,
		Subtotal:       money(o.Subtotal),
		CreditsApplied: money(o.CreditsApplied),
		Total:          money(o.Total),
		Currency:       o.Currency,
		FailureReason:  o.FailureReason,
		PaidAt:         o.PaidAt,
		CreatedAt:      o.CreatedAt,
	}
	if o.Status == entities.OrderPending {
		response.AuthorizeURI = o.AuthorizeURI
	}
	return response
}

// ToOrderResponses converte uma lista de pedidos
func ToOrderResponses(orders []*entities.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderResponse(o)
	}
	return responses
}

// ----- créditos -----

// GrantCreditsRequest concede créditos a um usuário (admin)
type GrantCreditsRequest struct {
	UserID string           `json:"user_id" binding:"required"`
	Amount *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"50.00"`
	Note   string           `json:"note" binding:"max=500"`
}

// CreditBalanceResponse representa o saldo de créditos
type CreditBalanceResponse struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// CreditTransactionResponse representa um lançamento no extrato
type CreditTransactionResponse struct {
	ID        string    `json:"id"`
	Amount    string    `json:"amount"`
	Reason    string    `json:"reason"`
	Note      string    `json:"note,omitempty"`
	OrderID   *string   `json:"order_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCreditTransactionResponse converte um lançamento
func ToCreditTransactionResponse(tx *entities.CreditTransaction) CreditTransactionResponse {
	return CreditTransactionResponse{
		ID:        tx.ID,
		Amount:    money(tx.Amount),
		Reason:    string(tx.Reason),
		Note:      tx.Note,
		OrderID:   tx.OrderID,
		CreatedAt: tx.CreatedAt,
	}
}

// ToCreditTransactionResponses converte o extrato
func ToCreditTransactionResponses(txs []*entities.CreditTransaction) []CreditTransactionResponse {
	responses := make([]CreditTransactionResponse, len(txs))
	for i, tx := range txs {
		responses[i] = ToCreditTransactionResponse(tx)
	}
	return responses
}
