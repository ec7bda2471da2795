package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// ProductService contém a lógica de negócio de produtos
type ProductService struct {
	productRepo     repositories.ProductRepository
	defaultCurrency string
	logger          ports.Logger
}

// NewProductService cria um novo ProductService
func NewProductService(productRepo repositories.ProductRepository, defaultCurrency string, logger ports.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, defaultCurrency: defaultCurrency, logger: logger}
}

// ProductInput contém os dados de criação/edição de um produto.
// Na edição, campos nil permanecem como estão.
type ProductInput struct {
	Title       *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
	Currency    *string
	Stock       *int
	Images      []string
	Status      *entities.ProductStatus
}

// Create publica um novo produto do vendedor
func (s *ProductService) Create(ctx context.Context, seller *entities.User, input ProductInput) (*entities.Product, error) {
	product := &entities.Product{
		SellerID: seller.ID,
		Status:   entities.ProductActive,
		Currency: s.defaultCurrency,
	}
	applyProductInput(product, input)

	if err := product.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	s.logger.Info("creating product", "seller_id", seller.ID, "title", product.Title)
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Get busca um produto por ID. Rascunhos só aparecem para o dono ou admin.
func (s *ProductService) Get(ctx context.Context, actor *entities.User, id string) (*entities.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.Status == entities.ProductDraft && !canManage(actor, product.SellerID) {
		return nil, errors.ErrListingNotFound
	}
	return product, nil
}

func (s *ProductService) find(ctx context.Context, id string) (*entities.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.ErrListingNotFound
	}
	return product, nil
}

// List lista produtos. Visitantes e outros usuários veem apenas os ativos;
// o vendedor filtrando os próprios produtos e admins veem qualquer status.
func (s *ProductService) List(ctx context.Context, actor *entities.User, filters repositories.ProductFilters) ([]*entities.Product, int64, error) {
	if !seesAllStatuses(actor, filters.SellerID) {
		if filters.Status != nil && *filters.Status != entities.ProductActive {
			return nil, 0, errors.ErrForbidden
		}
		active := entities.ProductActive
		filters.Status = &active
	}
	return s.productRepo.List(ctx, filters)
}

// Update altera um produto (dono ou admin)
func (s *ProductService) Update(ctx context.Context, actor *entities.User, id string, input ProductInput) (*entities.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, product.SellerID) {
		return nil, errors.ErrForbidden
	}

	applyProductInput(product, input)
	if err := product.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	product.UpdatedAt = time.Now()
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete remove (soft delete) um produto (dono ou admin)
func (s *ProductService) Delete(ctx context.Context, actor *entities.User, id string) error {
	product, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(actor, product.SellerID) {
		return errors.ErrForbidden
	}
	s.logger.Info("deleting product", "product_id", id, "actor_id", actor.ID)
	return s.productRepo.Delete(ctx, id)
}

func applyProductInput(p *entities.Product, input ProductInput) {
	if input.Title != nil {
		p.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Category != nil {
		p.Category = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		p.Price = input.Price.Round(2)
	}
	if input.Currency != nil {
		p.Currency = strings.ToUpper(*input.Currency)
	}
	if input.Stock != nil {
		p.Stock = *input.Stock
	}
	if input.Images != nil {
		p.Images = input.Images
	}
	if input.Status != nil {
		p.Status = *input.Status
	}
}
