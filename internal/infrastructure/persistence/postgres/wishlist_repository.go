package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// WishlistRepository implementa repositories.WishlistRepository
type WishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository cria um novo WishlistRepository
func NewWishlistRepository(db *gorm.DB) repositories.WishlistRepository {
	return &WishlistRepository{db: db}
}

// Add é idempotente: salvar duas vezes a mesma listagem não gera erro
func (r *WishlistRepository) Add(ctx context.Context, item *entities.WishlistItem) error {
	model := &WishlistModel{
		ID:         newID(),
		UserID:     item.UserID,
		EntityType: string(item.EntityType),
		EntityID:   item.EntityID,
	}
	db := dbFrom(ctx, r.db)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error; err != nil {
		return mapWriteError(err)
	}

	var saved WishlistModel
	err := db.Where("user_id = ? AND entity_type = ? AND entity_id = ?",
		item.UserID, string(item.EntityType), item.EntityID).First(&saved).Error
	if err != nil {
		return err
	}
	item.ID = saved.ID
	item.CreatedAt = time.Unix(saved.CreatedAt, 0)
	return nil
}

func (r *WishlistRepository) Remove(ctx context.Context, userID string, entityType entities.EntityType, entityID string) error {
	return dbFrom(ctx, r.db).
		Where("user_id = ? AND entity_type = ? AND entity_id = ?", userID, string(entityType), entityID).
		Delete(&WishlistModel{}).Error
}

func (r *WishlistRepository) List(ctx context.Context, userID string, entityType *entities.EntityType) ([]*entities.WishlistItem, error) {
	query := dbFrom(ctx, r.db).Where("user_id = ?", userID)
	if entityType != nil {
		query = query.Where("entity_type = ?", string(*entityType))
	}

	var models []*WishlistModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.WishlistItem, 0, len(models))
	for _, m := range models {
		items = append(items, &entities.WishlistItem{
			ID:         m.ID,
			UserID:     m.UserID,
			EntityType: entities.EntityType(m.EntityType),
			EntityID:   m.EntityID,
			CreatedAt:  time.Unix(m.CreatedAt, 0),
		})
	}
	return items, nil
}

func (r *WishlistRepository) Exists(ctx context.Context, userID string, entityType entities.EntityType, entityID string) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&WishlistModel{}).
		Where("user_id = ? AND entity_type = ? AND entity_id = ?", userID, string(entityType), entityID).
		Count(&count).Error
	return count > 0, err
}
