package services

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// GuestCartTTL é o tempo sem atividade após o qual um carrinho de visitante expira
const GuestCartTTL = 30 * 24 * time.Hour

// CartRef identifica o carrinho da requisição: do usuário autenticado ou do visitante
type CartRef struct {
	UserID string
	Token  string
}

// CartView é o carrinho com preços atuais resolvidos
type CartView struct {
	Cart     *entities.Cart
	Lines    []entities.PricedLine
	Subtotal decimal.Decimal
	Currency string
}

// CartService contém a lógica do carrinho de compras
type CartService struct {
	cartRepo repositories.CartRepository
	listings *ListingResolver
	tokens   ports.CartTokenIssuer
	logger   ports.Logger
}

// NewCartService cria um novo CartService
func NewCartService(
	cartRepo repositories.CartRepository,
	listings *ListingResolver,
	tokens ports.CartTokenIssuer,
	logger ports.Logger,
) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		listings: listings,
		tokens:   tokens,
		logger:   logger,
	}
}

// CreateGuestCart cria um carrinho anônimo e retorna o token em claro.
// Só o hash do token é persistido.
func (s *CartService) CreateGuestCart(ctx context.Context) (*entities.Cart, string, error) {
	token := s.tokens.NewToken()
	cart := &entities.Cart{TokenHash: s.tokens.Hash(token)}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, "", err
	}
	return cart, token, nil
}

// resolve encontra o carrinho da referência; usuários ganham um carrinho na primeira vez
func (s *CartService) resolve(ctx context.Context, ref CartRef) (*entities.Cart, error) {
	if ref.UserID != "" {
		cart, err := s.cartRepo.FindByOwner(ctx, ref.UserID)
		if err != nil {
			return nil, err
		}
		if cart != nil {
			return cart, nil
		}
		owner := ref.UserID
		cart = &entities.Cart{OwnerID: &owner}
		if err := s.cartRepo.Create(ctx, cart); err != nil {
			if stdErrors.Is(err, errors.ErrConflict) {
				return s.cartRepo.FindByOwner(ctx, ref.UserID)
			}
			return nil, err
		}
		return cart, nil
	}

	if ref.Token == "" {
		return nil, errors.ErrCartNotFound
	}
	cart, err := s.cartRepo.FindByTokenHash(ctx, s.tokens.Hash(ref.Token))
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errors.ErrCartNotFound
	}
	if time.Since(cart.UpdatedAt) > GuestCartTTL {
		if err := s.cartRepo.Delete(ctx, cart.ID); err != nil {
			s.logger.Warn("failed to delete expired guest cart", "cart_id", cart.ID, "error", err)
		}
		return nil, errors.ErrCartNotFound
	}
	return cart, nil
}

// GetCart retorna o carrinho com os preços atuais
func (s *CartService) GetCart(ctx context.Context, ref CartRef) (*CartView, error) {
	cart, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) view(ctx context.Context, cart *entities.Cart) (*CartView, error) {
	v := &CartView{Cart: cart, Lines: make([]entities.PricedLine, 0, len(cart.Items)), Subtotal: decimal.Zero}
	for _, item := range cart.Items {
		line, _, err := s.listings.Price(ctx, item)
		if stdErrors.Is(err, errors.ErrListingNotFound) {
			// listagem removida: a linha continua visível, porém indisponível
			v.Lines = append(v.Lines, entities.PricedLine{Item: item})
			continue
		}
		if err != nil {
			return nil, err
		}
		v.Lines = append(v.Lines, *line)
		if line.Available {
			v.Subtotal = v.Subtotal.Add(line.LineTotal())
			if v.Currency == "" {
				v.Currency = line.Currency
			}
		}
	}
	v.Subtotal = v.Subtotal.Round(2)
	return v, nil
}

// AddItem adiciona ou soma a quantidade de um item ao carrinho
func (s *CartService) AddItem(ctx context.Context, ref CartRef, entityType entities.EntityType, entityID string, quantity int) (*CartView, error) {
	if !entityType.IsPurchasable() {
		return nil, errors.ErrInvalidEntityType
	}
	if quantity < 1 || quantity > entities.MaxCartQuantity {
		return nil, errors.ErrInvalidInput
	}

	cart, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	item := entities.CartItem{CartID: cart.ID, EntityType: entityType, EntityID: entityID, Quantity: quantity}
	if existing := cart.FindItem(entityType, entityID); existing != nil {
		item.Quantity += existing.Quantity
	}
	if item.Quantity > entities.MaxCartQuantity {
		return nil, errors.ErrInvalidInput
	}

	if err := s.checkLine(ctx, cart, ref, item); err != nil {
		return nil, err
	}
	if err := s.cartRepo.SaveItem(ctx, &item); err != nil {
		return nil, err
	}
	return s.reload(ctx, cart.ID)
}

// UpdateItem define a quantidade de uma linha; zero remove
func (s *CartService) UpdateItem(ctx context.Context, ref CartRef, itemID string, quantity int) (*CartView, error) {
	if quantity < 0 || quantity > entities.MaxCartQuantity {
		return nil, errors.ErrInvalidInput
	}

	cart, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	item := findItemByID(cart, itemID)
	if item == nil {
		return nil, errors.ErrNotFound
	}

	if quantity == 0 {
		if err := s.cartRepo.DeleteItem(ctx, cart.ID, itemID); err != nil {
			return nil, err
		}
		return s.reload(ctx, cart.ID)
	}

	updated := *item
	updated.Quantity = quantity
	if err := s.checkLine(ctx, cart, ref, updated); err != nil {
		return nil, err
	}
	if err := s.cartRepo.SaveItem(ctx, &updated); err != nil {
		return nil, err
	}
	return s.reload(ctx, cart.ID)
}

// RemoveItem remove uma linha do carrinho
func (s *CartService) RemoveItem(ctx context.Context, ref CartRef, itemID string) (*CartView, error) {
	cart, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if findItemByID(cart, itemID) == nil {
		return nil, errors.ErrNotFound
	}
	if err := s.cartRepo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}
	return s.reload(ctx, cart.ID)
}

// Clear esvazia o carrinho
func (s *CartService) Clear(ctx context.Context, ref CartRef) error {
	cart, err := s.resolve(ctx, ref)
	if err != nil {
		return err
	}
	return s.cartRepo.Clear(ctx, cart.ID)
}

// MergeGuestCart move os itens do carrinho de visitante para o do usuário.
// Linhas que não podem mais ser vendidas são descartadas; o carrinho de visitante é removido.
func (s *CartService) MergeGuestCart(ctx context.Context, userID, token string) (*CartView, error) {
	guest, err := s.resolve(ctx, CartRef{Token: token})
	if err != nil {
		return nil, err
	}
	target, err := s.resolve(ctx, CartRef{UserID: userID})
	if err != nil {
		return nil, err
	}

	ref := CartRef{UserID: userID}
	for _, g := range guest.Items {
		item := entities.CartItem{CartID: target.ID, EntityType: g.EntityType, EntityID: g.EntityID, Quantity: g.Quantity}
		if existing := target.FindItem(g.EntityType, g.EntityID); existing != nil {
			item.Quantity += existing.Quantity
		}
		if item.Quantity > entities.MaxCartQuantity {
			item.Quantity = entities.MaxCartQuantity
		}
		if err := s.checkLine(ctx, target, ref, item); err != nil {
			s.logger.Info("dropping guest cart line on merge", "entity_type", g.EntityType, "entity_id", g.EntityID, "reason", err)
			continue
		}
		if err := s.cartRepo.SaveItem(ctx, &item); err != nil {
			return nil, err
		}
		if existing := target.FindItem(g.EntityType, g.EntityID); existing != nil {
			existing.Quantity = item.Quantity
		} else {
			target.Items = append(target.Items, item)
		}
	}

	if err := s.cartRepo.Delete(ctx, guest.ID); err != nil {
		return nil, err
	}
	return s.reload(ctx, target.ID)
}

// checkLine valida disponibilidade, dono e moeda única do carrinho
func (s *CartService) checkLine(ctx context.Context, cart *entities.Cart, ref CartRef, item entities.CartItem) error {
	line, unavailable, err := s.listings.Price(ctx, item)
	if err != nil {
		return err
	}
	if ref.UserID != "" && line.SellerID == ref.UserID {
		return errors.ErrOwnListing
	}
	if unavailable != nil {
		return unavailable
	}

	for _, other := range cart.Items {
		if other.EntityType == item.EntityType && other.EntityID == item.EntityID {
			continue
		}
		otherLine, _, err := s.listings.Price(ctx, other)
		if err != nil {
			continue
		}
		if otherLine.Currency != line.Currency {
			return errors.ErrCurrencyMismatch
		}
	}
	return nil
}

func (s *CartService) reload(ctx context.Context, cartID string) (*CartView, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errors.ErrCartNotFound
	}
	return s.view(ctx, cart)
}

func findItemByID(cart *entities.Cart, itemID string) *entities.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			return &cart.Items[i]
		}
	}
	return nil
}
