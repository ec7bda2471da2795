package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus representa o ciclo de vida de um produto
type ProductStatus string

const (
	ProductDraft    ProductStatus = "draft"
	ProductActive   ProductStatus = "active"
	ProductArchived ProductStatus = "archived"
)

// Product representa um item à venda
type Product struct {
	ID          string
	SellerID    string
	Title       string
	Description string
	Category    string
	Price       decimal.Decimal
	Currency    string
	Stock       int
	Images      []string
	Status      ProductStatus
	Rating      float64 // média calculada a partir das reviews
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// IsAvailable verifica se o produto pode ser comprado na quantidade pedida
func (p *Product) IsAvailable(quantity int) bool {
	return p.Status == ProductActive && p.DeletedAt == nil && p.Stock >= quantity
}

// Validate valida regras de negócio do produto
func (p *Product) Validate() error {
	if len(p.Title) < 3 || len(p.Title) > 200 {
		return errors.New("title must have between 3 and 200 characters")
	}
	if !p.Price.IsPositive() {
		return errors.New("price must be positive")
	}
	if len(p.Currency) != 3 {
		return errors.New("currency must be an ISO 4217 code")
	}
	if p.Stock < 0 {
		return errors.New("stock must not be negative")
	}
	switch p.Status {
	case ProductDraft, ProductActive, ProductArchived:
	default:
		return errors.New("invalid product status")
	}
	return nil
}
