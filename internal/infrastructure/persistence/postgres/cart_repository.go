package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// CartRepository implementa repositories.CartRepository
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository cria um novo CartRepository
func NewCartRepository(db *gorm.DB) repositories.CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Create(ctx context.Context, cart *entities.Cart) error {
	model := &CartModel{
		ID:      newID(),
		OwnerID: cart.OwnerID,
	}
	if cart.TokenHash != "" {
		hash := cart.TokenHash
		model.TokenHash = &hash
	}

	if err := dbFrom(ctx, r.db).Omit("Items").Create(model).Error; err != nil {
		return mapWriteError(err)
	}

	cart.ID = model.ID
	cart.CreatedAt = time.Unix(model.CreatedAt, 0)
	cart.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func (r *CartRepository) FindByID(ctx context.Context, id string) (*entities.Cart, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *CartRepository) FindByOwner(ctx context.Context, ownerID string) (*entities.Cart, error) {
	return r.findOne(ctx, "owner_id = ?", ownerID)
}

func (r *CartRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*entities.Cart, error) {
	return r.findOne(ctx, "token_hash = ? AND owner_id IS NULL", tokenHash)
}

func (r *CartRepository) findOne(ctx context.Context, where string, args ...any) (*entities.Cart, error) {
	var model CartModel
	err := dbFrom(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where(where, args...).
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toCartEntity(&model), nil
}

// SaveItem usa upsert na chave (cart_id, entity_type, entity_id)
func (r *CartRepository) SaveItem(ctx context.Context, item *entities.CartItem) error {
	db := dbFrom(ctx, r.db)
	model := &CartItemModel{
		ID:         newID(),
		CartID:     item.CartID,
		EntityType: string(item.EntityType),
		EntityID:   item.EntityID,
		Quantity:   item.Quantity,
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "entity_type"}, {Name: "entity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
	}).Create(model).Error
	if err != nil {
		return mapWriteError(err)
	}

	// no conflito o ID gerado acima é descartado; relê a linha persistida
	var saved CartItemModel
	err = db.Where("cart_id = ? AND entity_type = ? AND entity_id = ?",
		item.CartID, string(item.EntityType), item.EntityID).First(&saved).Error
	if err != nil {
		return err
	}
	item.ID = saved.ID

	return db.Model(&CartModel{}).Where("id = ?", item.CartID).Update("updated_at", nowUnix()).Error
}

func (r *CartRepository) DeleteItem(ctx context.Context, cartID, itemID string) error {
	return dbFrom(ctx, r.db).Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&CartItemModel{}).Error
}

func (r *CartRepository) Clear(ctx context.Context, cartID string) error {
	return dbFrom(ctx, r.db).Where("cart_id = ?", cartID).Delete(&CartItemModel{}).Error
}

func (r *CartRepository) Delete(ctx context.Context, cartID string) error {
	db := dbFrom(ctx, r.db)
	if err := db.Where("cart_id = ?", cartID).Delete(&CartItemModel{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", cartID).Delete(&CartModel{}).Error
}

func toCartEntity(m *CartModel) *entities.Cart {
	cart := &entities.Cart{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Items:     make([]entities.CartItem, 0, len(m.Items)),
		CreatedAt: time.Unix(m.CreatedAt, 0),
		UpdatedAt: time.Unix(m.UpdatedAt, 0),
	}
	if m.TokenHash != nil {
		cart.TokenHash = *m.TokenHash
	}
	for _, item := range m.Items {
		cart.Items = append(cart.Items, entities.CartItem{
			ID:         item.ID,
			CartID:     item.CartID,
			EntityType: entities.EntityType(item.EntityType),
			EntityID:   item.EntityID,
			Quantity:   item.Quantity,
		})
	}
	return cart
}
