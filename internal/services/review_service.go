package services

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// ReviewService contém a lógica de avaliações
type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
	listings    *ListingResolver
	publisher   ports.EventPublisher
	logger      ports.Logger
}

// NewReviewService cria um novo ReviewService
func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	productRepo repositories.ProductRepository,
	listings *ListingResolver,
	publisher ports.EventPublisher,
	logger ports.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		listings:    listings,
		publisher:   publisher,
		logger:      logger,
	}
}

// ReviewInput contém os dados de uma avaliação
type ReviewInput struct {
	EntityType entities.EntityType
	EntityID   string
	Rating     int
	Comment    string
}

// Create registra a avaliação (uma por autor e listagem; nunca da própria listagem)
func (s *ReviewService) Create(ctx context.Context, author *entities.User, input ReviewInput) (*entities.Review, error) {
	if !input.EntityType.IsValid() {
		return nil, errors.ErrInvalidEntityType
	}
	review := &entities.Review{
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		AuthorID:   author.ID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
	}
	if err := review.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	ref, err := s.listings.Ref(ctx, input.EntityType, input.EntityID)
	if err != nil {
		return nil, err
	}
	if ref.OwnerID == author.ID {
		return nil, errors.ErrOwnListing
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if stdErrors.Is(err, errors.ErrConflict) {
			return nil, errors.ErrAlreadyReviewed
		}
		return nil, err
	}
	s.refreshRating(ctx, review.EntityType, review.EntityID)

	publish(ctx, s.publisher, s.logger, ports.EventReviewCreated, map[string]any{
		"review_id":   review.ID,
		"entity_type": string(review.EntityType),
		"entity_id":   review.EntityID,
		"owner_id":    ref.OwnerID,
		"author_id":   author.ID,
		"rating":      review.Rating,
		"title":       ref.Title,
	})
	return review, nil
}

// ListForEntity lista as avaliações de uma listagem
func (s *ReviewService) ListForEntity(ctx context.Context, entityType entities.EntityType, entityID string, p repositories.Pagination) ([]*entities.Review, error) {
	if !entityType.IsValid() {
		return nil, errors.ErrInvalidEntityType
	}
	return s.reviewRepo.ListForEntity(ctx, entityType, entityID, p)
}

// Summary retorna média e quantidade de avaliações
func (s *ReviewService) Summary(ctx context.Context, entityType entities.EntityType, entityID string) (*entities.ReviewSummary, error) {
	if !entityType.IsValid() {
		return nil, errors.ErrInvalidEntityType
	}
	return s.reviewRepo.Summary(ctx, entityType, entityID)
}

// Delete remove uma avaliação (autor ou admin)
func (s *ReviewService) Delete(ctx context.Context, actor *entities.User, id string) error {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if review == nil {
		return errors.ErrNotFound
	}
	if review.AuthorID != actor.ID && !actor.HasPermission(entities.PermissionListingManage) {
		return errors.ErrForbidden
	}
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshRating(ctx, review.EntityType, review.EntityID)
	return nil
}

// refreshRating atualiza a nota média desnormalizada dos produtos
func (s *ReviewService) refreshRating(ctx context.Context, entityType entities.EntityType, entityID string) {
	if entityType != entities.EntityProduct {
		return
	}
	summary, err := s.reviewRepo.Summary(ctx, entityType, entityID)
	if err == nil {
		err = s.productRepo.SetRating(ctx, entityID, summary.Average)
	}
	if err != nil {
		s.logger.Error("failed to refresh product rating", "product_id", entityID, "error", err)
	}
}
