package services

import (
	"context"
	"time"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// ListingResolver resolve referências genéricas (tipo + ID) para as linhas concretas
type ListingResolver struct {
	products    repositories.ProductRepository
	jobs        repositories.JobRepository
	events      repositories.EventRepository
	freelancers repositories.FreelancerRepository
	artistes    repositories.ArtisteRepository
}

// NewListingResolver cria um novo ListingResolver
func NewListingResolver(
	products repositories.ProductRepository,
	jobs repositories.JobRepository,
	events repositories.EventRepository,
	freelancers repositories.FreelancerRepository,
	artistes repositories.ArtisteRepository,
) *ListingResolver {
	return &ListingResolver{
		products:    products,
		jobs:        jobs,
		events:      events,
		freelancers: freelancers,
		artistes:    artistes,
	}
}

// Ref busca dono e título de qualquer listagem
func (r *ListingResolver) Ref(ctx context.Context, entityType entities.EntityType, id string) (*entities.ListingRef, error) {
	ref := &entities.ListingRef{Type: entityType, ID: id}

	switch entityType {
	case entities.EntityProduct:
		p, err := r.products.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, errors.ErrListingNotFound
		}
		ref.OwnerID, ref.Title = p.SellerID, p.Title
	case entities.EntityJob:
		j, err := r.jobs.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if j == nil {
			return nil, errors.ErrListingNotFound
		}
		ref.OwnerID, ref.Title = j.PosterID, j.Title
	case entities.EntityEvent:
		e, err := r.events.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, errors.ErrListingNotFound
		}
		ref.OwnerID, ref.Title = e.OrganizerID, e.Title
	case entities.EntityFreelancer:
		f, err := r.freelancers.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if f == nil {
			return nil, errors.ErrListingNotFound
		}
		ref.OwnerID, ref.Title = f.ProfileID, f.Headline
	case entities.EntityArtiste:
		a, err := r.artistes.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, errors.ErrListingNotFound
		}
		ref.OwnerID, ref.Title = a.ProfileID, a.StageName
	default:
		return nil, errors.ErrInvalidEntityType
	}

	return ref, nil
}

// Price resolve o preço atual de uma linha do carrinho.
// Listagens inexistentes retornam ErrListingNotFound em err; quando a linha
// existe mas não pode ser vendida, unavailable traz o motivo e Available é falso.
func (r *ListingResolver) Price(ctx context.Context, item entities.CartItem) (line *entities.PricedLine, unavailable error, err error) {
	line = &entities.PricedLine{Item: item}

	switch item.EntityType {
	case entities.EntityProduct:
		p, err := r.products.FindByID(ctx, item.EntityID)
		if err != nil {
			return nil, nil, err
		}
		if p == nil {
			return nil, nil, errors.ErrListingNotFound
		}
		line.Title, line.SellerID = p.Title, p.SellerID
		line.UnitPrice, line.Currency = p.Price, p.Currency
		switch {
		case p.Status != entities.ProductActive:
			unavailable = errors.ErrListingUnavailable
		case !p.IsAvailable(item.Quantity):
			unavailable = errors.ErrInsufficientStock
		}
	case entities.EntityEvent:
		e, err := r.events.FindByID(ctx, item.EntityID)
		if err != nil {
			return nil, nil, err
		}
		if e == nil {
			return nil, nil, errors.ErrListingNotFound
		}
		line.Title, line.SellerID = e.Title, e.OrganizerID
		line.UnitPrice, line.Currency = e.TicketPrice, e.Currency
		switch {
		case e.Status != entities.EventScheduled || !e.EndsAt.After(time.Now()):
			unavailable = errors.ErrListingUnavailable
		case !e.CanSell(item.Quantity):
			unavailable = errors.ErrEventSoldOut
		}
	default:
		return nil, nil, errors.ErrInvalidEntityType
	}

	line.Available = unavailable == nil
	return line, unavailable, nil
}
