package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
)

// CartRepository define a persistência de carrinhos
type CartRepository interface {
	Create(ctx context.Context, cart *entities.Cart) error
	FindByID(ctx context.Context, id string) (*entities.Cart, error)
	FindByOwner(ctx context.Context, ownerID string) (*entities.Cart, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (*entities.Cart, error)
	// SaveItem insere ou atualiza a linha (cart_id, entity_type, entity_id)
	SaveItem(ctx context.Context, item *entities.CartItem) error
	DeleteItem(ctx context.Context, cartID, itemID string) error
	Clear(ctx context.Context, cartID string) error
	Delete(ctx context.Context, cartID string) error
}

// OrderRepository define a persistência de pedidos
type OrderRepository interface {
	Create(ctx context.Context, order *entities.Order) error
	FindByID(ctx context.Context, id string) (*entities.Order, error)
	FindByChargeID(ctx context.Context, chargeID string) (*entities.Order, error)
	// TransitionStatus grava status, paid_at e failure_reason só se o pedido ainda estiver em from.
	// false indica que outro fluxo mudou o pedido antes.
	TransitionStatus(ctx context.Context, order *entities.Order, from entities.OrderStatus) (bool, error)
	AttachCharge(ctx context.Context, id, chargeID, authorizeURI string) (bool, error)
	// CancelPending cancela só pedidos pendentes ainda sem cobrança
	CancelPending(ctx context.Context, id string, at time.Time) (bool, error)
	ListByBuyer(ctx context.Context, buyerID string, p Pagination) ([]*entities.Order, error)
	ListBySeller(ctx context.Context, sellerID string, p Pagination) ([]*entities.Order, error)
}

// CreditRepository define a persistência do extrato de créditos
type CreditRepository interface {
	Create(ctx context.Context, tx *entities.CreditTransaction) error
	Balance(ctx context.Context, userID string) (decimal.Decimal, error)
	List(ctx context.Context, userID string, p Pagination) ([]*entities.CreditTransaction, error)
}
