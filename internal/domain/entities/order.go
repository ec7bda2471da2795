package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus representa o estado de um pedido
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderFailed    OrderStatus = "failed"
	OrderCancelled OrderStatus = "cancelled"
	OrderFulfilled OrderStatus = "fulfilled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderFailed, OrderCancelled},
	OrderPaid:    {OrderFulfilled},
}

// CanTransitionTo verifica se o pedido pode ir para o novo status
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order representa um pedido finalizado no checkout
type Order struct {
	ID             string
	Number         string
	BuyerID        string
	Status         OrderStatus
	Items          []OrderItem
	Subtotal       decimal.Decimal
	CreditsApplied decimal.Decimal
	Total          decimal.Decimal
	Currency       string
	ChargeID       string
	AuthorizeURI   string
	FailureReason  string
	CartID         string
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem é um snapshot da linha no momento do checkout
type OrderItem struct {
	ID         string
	OrderID    string
	EntityType EntityType
	EntityID   string
	SellerID   string
	Title      string
	UnitPrice  decimal.Decimal
	Quantity   int
}

// LineTotal retorna preço unitário x quantidade
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// HasSeller verifica se um vendedor participa do pedido
func (o *Order) HasSeller(sellerID string) bool {
	for _, item := range o.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}

// SellerIDs retorna os vendedores distintos do pedido
func (o *Order) SellerIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, item := range o.Items {
		if !seen[item.SellerID] {
			seen[item.SellerID] = true
			ids = append(ids, item.SellerID)
		}
	}
	return ids
}

// Totals calcula subtotal, créditos aplicados e total a partir das linhas.
// Os créditos nunca ultrapassam o subtotal e o total nunca é negativo.
func Totals(lines []PricedLine, availableCredits decimal.Decimal) (subtotal, credits, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	subtotal = subtotal.Round(2)

	credits = decimal.Zero
	if availableCredits.IsPositive() {
		credits = decimal.Min(availableCredits, subtotal).Round(2)
	}
	total = subtotal.Sub(credits)
	return subtotal, credits, total
}
