package services

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// TalentService cuida de freelancers, artistas e pedidos de contratação
type TalentService struct {
	freelancerRepo  repositories.FreelancerRepository
	artisteRepo     repositories.ArtisteRepository
	bookingRepo     repositories.BookingRepository
	publisher       ports.EventPublisher
	defaultCurrency string
	logger          ports.Logger
}

// NewTalentService cria um novo TalentService
func NewTalentService(
	freelancerRepo repositories.FreelancerRepository,
	artisteRepo repositories.ArtisteRepository,
	bookingRepo repositories.BookingRepository,
	publisher ports.EventPublisher,
	defaultCurrency string,
	logger ports.Logger,
) *TalentService {
	return &TalentService{
		freelancerRepo:  freelancerRepo,
		artisteRepo:     artisteRepo,
		bookingRepo:     bookingRepo,
		publisher:       publisher,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// FreelancerInput contém os dados de um perfil de freelancer
type FreelancerInput struct {
	Headline     *string
	Skills       []string
	HourlyRate   *decimal.Decimal
	Currency     *string
	Availability *entities.Availability
}

// CreateFreelancer cria o perfil de freelancer do usuário (um por perfil)
func (s *TalentService) CreateFreelancer(ctx context.Context, actor *entities.User, input FreelancerInput) (*entities.Freelancer, error) {
	existing, err := s.freelancerRepo.FindByProfileID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.ErrProfileExists
	}

	f := &entities.Freelancer{
		ProfileID:    actor.ID,
		Currency:     s.defaultCurrency,
		Availability: entities.Available,
	}
	applyFreelancerInput(f, input)
	if err := validateFreelancer(f); err != nil {
		return nil, err
	}

	if err := s.freelancerRepo.Create(ctx, f); err != nil {
		if stdErrors.Is(err, errors.ErrConflict) {
			return nil, errors.ErrProfileExists
		}
		return nil, err
	}
	return f, nil
}

// GetFreelancer busca um freelancer por ID
func (s *TalentService) GetFreelancer(ctx context.Context, id string) (*entities.Freelancer, error) {
	f, err := s.freelancerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.ErrListingNotFound
	}
	return f, nil
}

// ListFreelancers lista freelancers por habilidade e valor máximo
func (s *TalentService) ListFreelancers(ctx context.Context, filters repositories.TalentFilters) ([]*entities.Freelancer, int64, error) {
	return s.freelancerRepo.List(ctx, filters)
}

// UpdateFreelancer altera o perfil (dono ou admin)
func (s *TalentService) UpdateFreelancer(ctx context.Context, actor *entities.User, id string, input FreelancerInput) (*entities.Freelancer, error) {
	f, err := s.GetFreelancer(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, f.ProfileID) {
		return nil, errors.ErrForbidden
	}

	applyFreelancerInput(f, input)
	if err := validateFreelancer(f); err != nil {
		return nil, err
	}
	f.UpdatedAt = time.Now()
	if err := s.freelancerRepo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// DeleteFreelancer remove o perfil (dono ou admin)
func (s *TalentService) DeleteFreelancer(ctx context.Context, actor *entities.User, id string) error {
	f, err := s.GetFreelancer(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(actor, f.ProfileID) {
		return errors.ErrForbidden
	}
	return s.freelancerRepo.Delete(ctx, id)
}

// ArtisteInput contém os dados de um perfil de artista
type ArtisteInput struct {
	StageName  *string
	Genre      *string
	Bio        *string
	BookingFee *decimal.Decimal
	Currency   *string
}

// CreateArtiste cria o perfil de artista do usuário (um por perfil)
func (s *TalentService) CreateArtiste(ctx context.Context, actor *entities.User, input ArtisteInput) (*entities.Artiste, error) {
	existing, err := s.artisteRepo.FindByProfileID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.ErrProfileExists
	}

	a := &entities.Artiste{ProfileID: actor.ID, Currency: s.defaultCurrency}
	applyArtisteInput(a, input)
	if err := validateArtiste(a); err != nil {
		return nil, err
	}

	if err := s.artisteRepo.Create(ctx, a); err != nil {
		if stdErrors.Is(err, errors.ErrConflict) {
			return nil, errors.ErrProfileExists
		}
		return nil, err
	}
	return a, nil
}

// GetArtiste busca um artista por ID
func (s *TalentService) GetArtiste(ctx context.Context, id string) (*entities.Artiste, error) {
	a, err := s.artisteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.ErrListingNotFound
	}
	return a, nil
}

// ListArtistes lista artistas por gênero e cachê máximo
func (s *TalentService) ListArtistes(ctx context.Context, filters repositories.TalentFilters) ([]*entities.Artiste, int64, error) {
	return s.artisteRepo.List(ctx, filters)
}

// UpdateArtiste altera o perfil (dono ou admin)
func (s *TalentService) UpdateArtiste(ctx context.Context, actor *entities.User, id string, input ArtisteInput) (*entities.Artiste, error) {
	a, err := s.GetArtiste(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, a.ProfileID) {
		return nil, errors.ErrForbidden
	}

	applyArtisteInput(a, input)
	if err := validateArtiste(a); err != nil {
		return nil, err
	}
	a.UpdatedAt = time.Now()
	if err := s.artisteRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteArtiste remove o perfil (dono ou admin)
func (s *TalentService) DeleteArtiste(ctx context.Context, actor *entities.User, id string) error {
	a, err := s.GetArtiste(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(actor, a.ProfileID) {
		return errors.ErrForbidden
	}
	return s.artisteRepo.Delete(ctx, id)
}

// BookingInput descreve um pedido de contratação
type BookingInput struct {
	EntityType  entities.EntityType
	EntityID    string
	Message     string
	ProposedFor time.Time
}

// RequestBooking envia um pedido de contratação a um freelancer ou artista
func (s *TalentService) RequestBooking(ctx context.Context, requester *entities.User, input BookingInput) (*entities.BookingRequest, error) {
	var providerID string
	switch input.EntityType {
	case entities.EntityFreelancer:
		f, err := s.GetFreelancer(ctx, input.EntityID)
		if err != nil {
			return nil, err
		}
		if f.Availability == entities.Unavailable {
			return nil, errors.ErrListingUnavailable
		}
		providerID = f.ProfileID
	case entities.EntityArtiste:
		a, err := s.GetArtiste(ctx, input.EntityID)
		if err != nil {
			return nil, err
		}
		providerID = a.ProfileID
	default:
		return nil, errors.ErrInvalidEntityType
	}

	if providerID == requester.ID {
		return nil, errors.ErrOwnListing
	}
	if len(input.Message) > 2000 {
		return nil, errors.ErrInvalidInput
	}
	if !input.ProposedFor.IsZero() && input.ProposedFor.Before(time.Now()) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "proposed date is in the past")
	}

	booking := &entities.BookingRequest{
		EntityType:  input.EntityType,
		EntityID:    input.EntityID,
		ProviderID:  providerID,
		RequesterID: requester.ID,
		Message:     strings.TrimSpace(input.Message),
		ProposedFor: input.ProposedFor,
		Status:      entities.BookingPending,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, ports.EventBookingRequested, map[string]any{
		"booking_id":   booking.ID,
		"provider_id":  providerID,
		"requester_id": requester.ID,
		"entity_type":  string(input.EntityType),
		"entity_id":    input.EntityID,
	})
	return booking, nil
}

// RespondBooking aceita ou recusa um pedido pendente (somente o prestador)
func (s *TalentService) RespondBooking(ctx context.Context, provider *entities.User, bookingID string, accept bool) (*entities.BookingRequest, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, errors.ErrBookingNotFound
	}
	if booking.ProviderID != provider.ID {
		return nil, errors.ErrForbidden
	}
	if !booking.Respond(accept) {
		return nil, errors.ErrInvalidTransition
	}

	booking.UpdatedAt = time.Now()
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, ports.EventBookingResponded, map[string]any{
		"booking_id":   booking.ID,
		"provider_id":  booking.ProviderID,
		"requester_id": booking.RequesterID,
		"status":       string(booking.Status),
	})
	return booking, nil
}

// ListBookings lista pedidos recebidos (received=true) ou enviados
func (s *TalentService) ListBookings(ctx context.Context, actor *entities.User, received bool) ([]*entities.BookingRequest, error) {
	if received {
		return s.bookingRepo.ListByProvider(ctx, actor.ID)
	}
	return s.bookingRepo.ListByRequester(ctx, actor.ID)
}

func applyFreelancerInput(f *entities.Freelancer, input FreelancerInput) {
	if input.Headline != nil {
		f.Headline = strings.TrimSpace(*input.Headline)
	}
	if input.Skills != nil {
		f.Skills = normalizeTags(input.Skills)
	}
	if input.HourlyRate != nil {
		f.HourlyRate = input.HourlyRate.Round(2)
	}
	if input.Currency != nil {
		f.Currency = strings.ToUpper(*input.Currency)
	}
	if input.Availability != nil {
		f.Availability = *input.Availability
	}
}

func validateFreelancer(f *entities.Freelancer) error {
	if len(f.Headline) < 3 || len(f.Headline) > 200 {
		return errors.Wrap(errors.ErrInvalidInput, "headline must have between 3 and 200 characters")
	}
	if f.HourlyRate.IsNegative() {
		return errors.Wrap(errors.ErrInvalidInput, "hourly rate must not be negative")
	}
	switch f.Availability {
	case entities.Available, entities.Busy, entities.Unavailable:
	default:
		return errors.Wrap(errors.ErrInvalidInput, "invalid availability")
	}
	return nil
}

func applyArtisteInput(a *entities.Artiste, input ArtisteInput) {
	if input.StageName != nil {
		a.StageName = strings.TrimSpace(*input.StageName)
	}
	if input.Genre != nil {
		a.Genre = strings.ToLower(strings.TrimSpace(*input.Genre))
	}
	if input.Bio != nil {
		a.Bio = *input.Bio
	}
	if input.BookingFee != nil {
		a.BookingFee = input.BookingFee.Round(2)
	}
	if input.Currency != nil {
		a.Currency = strings.ToUpper(*input.Currency)
	}
}

func validateArtiste(a *entities.Artiste) error {
	if len(a.StageName) < 2 || len(a.StageName) > 100 {
		return errors.Wrap(errors.ErrInvalidInput, "stage name must have between 2 and 100 characters")
	}
	if a.BookingFee.IsNegative() {
		return errors.Wrap(errors.ErrInvalidInput, "booking fee must not be negative")
	}
	return nil
}
