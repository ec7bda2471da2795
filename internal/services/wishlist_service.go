package services

import (
	"context"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// WishlistService mantém as listagens salvas pelos usuários
type WishlistService struct {
	wishlistRepo repositories.WishlistRepository
	listings     *ListingResolver
}

// NewWishlistService cria um novo WishlistService
func NewWishlistService(wishlistRepo repositories.WishlistRepository, listings *ListingResolver) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, listings: listings}
}

// Add salva uma listagem; repetir a operação não duplica
func (s *WishlistService) Add(ctx context.Context, userID string, entityType entities.EntityType, entityID string) (*entities.WishlistItem, error) {
	if !entityType.IsValid() {
		return nil, errors.ErrInvalidEntityType
	}
	if _, err := s.listings.Ref(ctx, entityType, entityID); err != nil {
		return nil, err
	}

	item := &entities.WishlistItem{UserID: userID, EntityType: entityType, EntityID: entityID}
	if err := s.wishlistRepo.Add(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Remove retira uma listagem salva
func (s *WishlistService) Remove(ctx context.Context, userID string, entityType entities.EntityType, entityID string) error {
	if !entityType.IsValid() {
		return errors.ErrInvalidEntityType
	}
	return s.wishlistRepo.Remove(ctx, userID, entityType, entityID)
}

// List lista as listagens salvas, opcionalmente de um só tipo
func (s *WishlistService) List(ctx context.Context, userID string, entityType *entities.EntityType) ([]*entities.WishlistItem, error) {
	if entityType != nil && !entityType.IsValid() {
		return nil, errors.ErrInvalidEntityType
	}
	return s.wishlistRepo.List(ctx, userID, entityType)
}

// Contains verifica se a listagem está salva
func (s *WishlistService) Contains(ctx context.Context, userID string, entityType entities.EntityType, entityID string) (bool, error) {
	if !entityType.IsValid() {
		return false, errors.ErrInvalidEntityType
	}
	return s.wishlistRepo.Exists(ctx, userID, entityType, entityID)
}
