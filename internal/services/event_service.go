package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/domain/valueobjects"
)

const (
	DefaultNearbyRadiusKm = 25.0
	MaxNearbyRadiusKm     = 500.0
)

// EventService contém a lógica de negócio de eventos
type EventService struct {
	eventRepo       repositories.EventRepository
	defaultCurrency string
	logger          ports.Logger
}

// NewEventService cria um novo EventService
func NewEventService(eventRepo repositories.EventRepository, defaultCurrency string, logger ports.Logger) *EventService {
	return &EventService{eventRepo: eventRepo, defaultCurrency: defaultCurrency, logger: logger}
}

// EventInput contém os dados de criação/edição de um evento
type EventInput struct {
	Title       *string
	Description *string
	Venue       *string
	Latitude    *float64
	Longitude   *float64
	StartsAt    *time.Time
	EndsAt      *time.Time
	TicketPrice *decimal.Decimal
	Currency    *string
	Capacity    *int
	Status      *entities.EventStatus
}

// Create publica um novo evento
func (s *EventService) Create(ctx context.Context, organizer *entities.User, input EventInput) (*entities.Event, error) {
	event := &entities.Event{
		OrganizerID: organizer.ID,
		Status:      entities.EventScheduled,
		Currency:    s.defaultCurrency,
	}
	applyEventInput(event, input)

	if err := event.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	s.logger.Info("creating event", "organizer_id", organizer.ID, "title", event.Title)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Get busca um evento por ID
func (s *EventService) Get(ctx context.Context, id string) (*entities.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, errors.ErrListingNotFound
	}
	return event, nil
}

// List lista eventos. Fora dos próprios eventos (ou como admin), somente agendados.
func (s *EventService) List(ctx context.Context, actor *entities.User, filters repositories.EventFilters) ([]*entities.Event, int64, error) {
	if !seesAllStatuses(actor, filters.OrganizerID) {
		if filters.Status != nil && *filters.Status != entities.EventScheduled {
			return nil, 0, errors.ErrForbidden
		}
		scheduled := entities.EventScheduled
		filters.Status = &scheduled
	}
	return s.eventRepo.List(ctx, filters)
}

// ListNearby retorna eventos agendados dentro do raio, do mais próximo ao mais distante.
// O banco filtra pelo retângulo envolvente; a distância exata é calculada aqui.
func (s *EventService) ListNearby(ctx context.Context, lat, lng, radiusKm float64) ([]*entities.Event, error) {
	origin, err := valueobjects.NewCoordinates(lat, lng)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}
	if radiusKm > MaxNearbyRadiusKm {
		radiusKm = MaxNearbyRadiusKm
	}

	candidates, err := s.eventRepo.ListInBox(ctx, origin.BoundingBox(radiusKm))
	if err != nil {
		return nil, err
	}

	nearby := make([]*entities.Event, 0, len(candidates))
	for _, e := range candidates {
		d := origin.DistanceKm(e.Location)
		if d > radiusKm {
			continue
		}
		e.DistanceKm = &d
		nearby = append(nearby, e)
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return *nearby[i].DistanceKm < *nearby[j].DistanceKm
	})
	return nearby, nil
}

// Update altera um evento (organizador ou admin)
func (s *EventService) Update(ctx context.Context, actor *entities.User, id string, input EventInput) (*entities.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, event.OrganizerID) {
		return nil, errors.ErrForbidden
	}

	applyEventInput(event, input)
	if err := event.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if event.Capacity < event.TicketsSold {
		return nil, errors.Wrap(errors.ErrInvalidInput, "capacity below tickets sold")
	}

	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete remove um evento (organizador ou admin)
func (s *EventService) Delete(ctx context.Context, actor *entities.User, id string) error {
	event, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(actor, event.OrganizerID) {
		return errors.ErrForbidden
	}
	return s.eventRepo.Delete(ctx, id)
}

func applyEventInput(e *entities.Event, input EventInput) {
	if input.Title != nil {
		e.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		e.Description = *input.Description
	}
	if input.Venue != nil {
		e.Venue = *input.Venue
	}
	if input.Latitude != nil {
		e.Location.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		e.Location.Longitude = *input.Longitude
	}
	if input.StartsAt != nil {
		e.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		e.EndsAt = *input.EndsAt
	}
	if input.TicketPrice != nil {
		e.TicketPrice = input.TicketPrice.Round(2)
	}
	if input.Currency != nil {
		e.Currency = strings.ToUpper(*input.Currency)
	}
	if input.Capacity != nil {
		e.Capacity = *input.Capacity
	}
	if input.Status != nil {
		e.Status = *input.Status
	}
}
