package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// ReviewRepository implementa repositories.ReviewRepository
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository cria um novo ReviewRepository
func NewReviewRepository(db *gorm.DB) repositories.ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *entities.Review) error {
	model := &ReviewModel{
		ID:         newID(),
		EntityType: string(review.EntityType),
		EntityID:   review.EntityID,
		AuthorID:   review.AuthorID,
		Rating:     review.Rating,
		Comment:    review.Comment,
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return mapWriteError(err)
	}
	review.ID = model.ID
	review.CreatedAt = time.Unix(model.CreatedAt, 0)
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*entities.Review, error) {
	var model ReviewModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toReviewEntity(&model), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	return dbFrom(ctx, r.db).Where("id = ?", id).Delete(&ReviewModel{}).Error
}

func (r *ReviewRepository) ListForEntity(ctx context.Context, entityType entities.EntityType, entityID string, p repositories.Pagination) ([]*entities.Review, error) {
	limit, offset := p.Normalize()
	var models []*ReviewModel
	err := dbFrom(ctx, r.db).
		Where("entity_type = ? AND entity_id = ?", string(entityType), entityID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	reviews := make([]*entities.Review, 0, len(models))
	for _, m := range models {
		reviews = append(reviews, toReviewEntity(m))
	}
	return reviews, nil
}

func (r *ReviewRepository) Summary(ctx context.Context, entityType entities.EntityType, entityID string) (*entities.ReviewSummary, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := dbFrom(ctx, r.db).Model(&ReviewModel{}).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Where("entity_type = ? AND entity_id = ?", string(entityType), entityID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	summary := &entities.ReviewSummary{EntityType: entityType, EntityID: entityID, Count: row.Count}
	if row.Average != nil {
		summary.Average = *row.Average
	}
	return summary, nil
}

func toReviewEntity(m *ReviewModel) *entities.Review {
	return &entities.Review{
		ID:         m.ID,
		EntityType: entities.EntityType(m.EntityType),
		EntityID:   m.EntityID,
		AuthorID:   m.AuthorID,
		Rating:     m.Rating,
		Comment:    m.Comment,
		CreatedAt:  time.Unix(m.CreatedAt, 0),
	}
}
