package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// OrderRepository implementa repositories.OrderRepository
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository cria um novo OrderRepository
func NewOrderRepository(db *gorm.DB) repositories.OrderRepository {
	return &OrderRepository{db: db}
}

// Create grava o pedido e suas linhas (snapshot de preços)
func (r *OrderRepository) Create(ctx context.Context, order *entities.Order) error {
	model := toOrderModel(order)
	model.ID = newID()
	for i := range model.Items {
		model.Items[i].ID = newID()
		model.Items[i].OrderID = model.ID
	}

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return mapWriteError(err)
	}

	order.ID = model.ID
	for i := range order.Items {
		order.Items[i].ID = model.Items[i].ID
		order.Items[i].OrderID = model.ID
	}
	order.CreatedAt = time.Unix(model.CreatedAt, 0)
	order.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entities.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *OrderRepository) FindByChargeID(ctx context.Context, chargeID string) (*entities.Order, error) {
	return r.findOne(ctx, "charge_id = ?", chargeID)
}

func (r *OrderRepository) findOne(ctx context.Context, where string, args ...any) (*entities.Order, error) {
	var model OrderModel
	if err := dbFrom(ctx, r.db).Preload("Items").Where(where, args...).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toOrderEntity(&model), nil
}

// TransitionStatus grava o status do pedido somente se ele ainda estiver em from.
// As linhas são imutáveis após o checkout.
func (r *OrderRepository) TransitionStatus(ctx context.Context, order *entities.Order, from entities.OrderStatus) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&OrderModel{}).
		Where("id = ? AND status = ?", order.ID, string(from)).
		Updates(map[string]any{
			"status":         string(order.Status),
			"paid_at":        unixPtr(order.PaidAt),
			"failure_reason": order.FailureReason,
			"updated_at":     unixOrZero(order.UpdatedAt),
		})
	return result.RowsAffected > 0, result.Error
}

// AttachCharge vincula a cobrança enquanto o pedido segue pendente
func (r *OrderRepository) AttachCharge(ctx context.Context, id, chargeID, authorizeURI string) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&OrderModel{}).
		Where("id = ? AND status = ?", id, string(entities.OrderPending)).
		Updates(map[string]any{
			"charge_id":     chargeID,
			"authorize_uri": authorizeURI,
			"updated_at":    time.Now().Unix(),
		})
	if result.Error != nil {
		return false, mapWriteError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CancelPending cancela o pedido apenas se estiver pendente e sem cobrança
func (r *OrderRepository) CancelPending(ctx context.Context, id string, at time.Time) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&OrderModel{}).
		Where("id = ? AND status = ? AND charge_id IS NULL", id, string(entities.OrderPending)).
		Updates(map[string]any{
			"status":     string(entities.OrderCancelled),
			"updated_at": at.Unix(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID string, p repositories.Pagination) ([]*entities.Order, error) {
	limit, offset := p.Normalize()
	var models []*OrderModel
	err := dbFrom(ctx, r.db).Preload("Items").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toOrderEntities(models), nil
}

// ListBySeller retorna pedidos que contêm ao menos uma linha do vendedor
func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID string, p repositories.Pagination) ([]*entities.Order, error) {
	db := dbFrom(ctx, r.db)
	limit, offset := p.Normalize()

	sub := db.Session(&gorm.Session{NewDB: true}).
		Model(&OrderItemModel{}).Select("order_id").Where("seller_id = ?", sellerID)

	var models []*OrderModel
	err := db.Preload("Items").
		Where("id IN (?)", sub).
		Where("status <> ?", string(entities.OrderPending)).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toOrderEntities(models), nil
}

func toOrderEntities(models []*OrderModel) []*entities.Order {
	orders := make([]*entities.Order, 0, len(models))
	for _, m := range models {
		orders = append(orders, toOrderEntity(m))
	}
	return orders
}

func toOrderModel(o *entities.Order) *OrderModel {
	m := &OrderModel{
		ID:             o.ID,
		Number:         o.Number,
		BuyerID:        o.BuyerID,
		Status:         string(o.Status),
		Subtotal:       o.Subtotal,
		CreditsApplied: o.CreditsApplied,
		Total:          o.Total,
		Currency:       o.Currency,
		AuthorizeURI:   o.AuthorizeURI,
		FailureReason:  o.FailureReason,
		CartID:         o.CartID,
		PaidAt:         unixPtr(o.PaidAt),
		CreatedAt:      unixOrZero(o.CreatedAt),
		UpdatedAt:      unixOrZero(o.UpdatedAt),
	}
	if o.ChargeID != "" {
		chargeID := o.ChargeID
		m.ChargeID = &chargeID
	}
	for _, item := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:         item.ID,
			OrderID:    item.OrderID,
			EntityType: string(item.EntityType),
			EntityID:   item.EntityID,
			SellerID:   item.SellerID,
			Title:      item.Title,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
		})
	}
	return m
}

func toOrderEntity(m *OrderModel) *entities.Order {
	o := &entities.Order{
		ID:             m.ID,
		Number:         m.Number,
		BuyerID:        m.BuyerID,
		Status:         entities.OrderStatus(m.Status),
		Subtotal:       m.Subtotal,
		CreditsApplied: m.CreditsApplied,
		Total:          m.Total,
		Currency:       m.Currency,
		AuthorizeURI:   m.AuthorizeURI,
		FailureReason:  m.FailureReason,
		CartID:         m.CartID,
		PaidAt:         timePtr(m.PaidAt),
		CreatedAt:      time.Unix(m.CreatedAt, 0),
		UpdatedAt:      time.Unix(m.UpdatedAt, 0),
		Items:          make([]entities.OrderItem, 0, len(m.Items)),
	}
	if m.ChargeID != nil {
		o.ChargeID = *m.ChargeID
	}
	for _, item := range m.Items {
		o.Items = append(o.Items, entities.OrderItem{
			ID:         item.ID,
			OrderID:    item.OrderID,
			EntityType: entities.EntityType(item.EntityType),
			EntityID:   item.EntityID,
			SellerID:   item.SellerID,
			Title:      item.Title,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
		})
	}
	return o
}
