package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

const MaxCartQuantity = 99

// Cart é o carrinho de compras; OwnerID é nil para visitantes anônimos
type Cart struct {
	ID        string
	OwnerID   *string
	TokenHash string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem é uma linha do carrinho (produto ou ingresso de evento)
type CartItem struct {
	ID         string
	CartID     string
	EntityType EntityType
	EntityID   string
	Quantity   int
}

// FindItem procura uma linha pelo item referenciado
func (c *Cart) FindItem(entityType EntityType, entityID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].EntityType == entityType && c.Items[i].EntityID == entityID {
			return &c.Items[i]
		}
	}
	return nil
}

// IsEmpty verifica se o carrinho está vazio
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// PricedLine é uma linha do carrinho com o preço atual resolvido
type PricedLine struct {
	Item      CartItem
	Title     string
	SellerID  string
	UnitPrice decimal.Decimal
	Currency  string
	// Available é falso quando a listagem saiu de venda ou não tem quantidade suficiente
	Available bool
}

// LineTotal retorna preço unitário x quantidade
func (l PricedLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Item.Quantity)))
}
