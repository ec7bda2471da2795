package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// ProductRepository implementa repositories.ProductRepository
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository cria um novo ProductRepository
func NewProductRepository(db *gorm.DB) repositories.ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *entities.Product) error {
	model := toProductModel(product)
	model.ID = newID()

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return mapWriteError(err)
	}

	product.ID = model.ID
	product.CreatedAt = time.Unix(model.CreatedAt, 0)
	product.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*entities.Product, error) {
	var model ProductModel
	if err := dbFrom(ctx, r.db).Where("id = ? AND deleted_at IS NULL", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toProductEntity(&model), nil
}

func (r *ProductRepository) Update(ctx context.Context, product *entities.Product) error {
	return mapWriteError(dbFrom(ctx, r.db).Save(toProductModel(product)).Error)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return dbFrom(ctx, r.db).Model(&ProductModel{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", nowUnix()).Error
}

func (r *ProductRepository) List(ctx context.Context, filters repositories.ProductFilters) ([]*entities.Product, int64, error) {
	query := dbFrom(ctx, r.db).Model(&ProductModel{}).Where("deleted_at IS NULL")

	if filters.Category != nil {
		query = query.Where("LOWER(category) = LOWER(?)", *filters.Category)
	}
	if filters.SellerID != nil {
		query = query.Where("seller_id = ?", *filters.SellerID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", string(*filters.Status))
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	query = applyWords(query, filters.Words, "title", "description", "category").Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filters.Sort {
	case repositories.SortPriceAsc:
		query = query.Order("price ASC").Order("created_at DESC")
	case repositories.SortPriceDesc:
		query = query.Order("price DESC").Order("created_at DESC")
	case repositories.SortRating:
		query = query.Order("rating DESC").Order("created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	limit, offset := filters.Normalize()
	var models []*ProductModel
	if err := query.Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	products := make([]*entities.Product, 0, len(models))
	for _, m := range models {
		products = append(products, toProductEntity(m))
	}
	return products, total, nil
}

func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	result := dbFrom(ctx, r.db).Model(&ProductModel{}).
		Where("id = ? AND deleted_at IS NULL AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInsufficientStock
	}
	return nil
}

func (r *ProductRepository) SetRating(ctx context.Context, id string, rating float64) error {
	return dbFrom(ctx, r.db).Model(&ProductModel{}).Where("id = ?", id).Update("rating", rating).Error
}

func toProductModel(p *entities.Product) *ProductModel {
	return &ProductModel{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Currency:    p.Currency,
		Stock:       p.Stock,
		Images:      toJSON(p.Images),
		Status:      string(p.Status),
		Rating:      p.Rating,
		CreatedAt:   unixOrZero(p.CreatedAt),
		UpdatedAt:   unixOrZero(p.UpdatedAt),
		DeletedAt:   unixPtr(p.DeletedAt),
	}
}

func toProductEntity(m *ProductModel) *entities.Product {
	return &entities.Product{
		ID:          m.ID,
		SellerID:    m.SellerID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Price:       m.Price,
		Currency:    m.Currency,
		Stock:       m.Stock,
		Images:      stringsFromJSON(m.Images),
		Status:      entities.ProductStatus(m.Status),
		Rating:      m.Rating,
		CreatedAt:   time.Unix(m.CreatedAt, 0),
		UpdatedAt:   time.Unix(m.UpdatedAt, 0),
		DeletedAt:   timePtr(m.DeletedAt),
	}
}
