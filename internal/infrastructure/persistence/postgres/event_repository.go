package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/domain/valueobjects"
)

// EventRepository implementa repositories.EventRepository
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository cria um novo EventRepository
func NewEventRepository(db *gorm.DB) repositories.EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	model := toEventModel(event)
	model.ID = newID()

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return mapWriteError(err)
	}

	event.ID = model.ID
	event.CreatedAt = time.Unix(model.CreatedAt, 0)
	event.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*entities.Event, error) {
	var model EventModel
	if err := dbFrom(ctx, r.db).Where("id = ? AND deleted_at IS NULL", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toEventEntity(&model), nil
}

func (r *EventRepository) Update(ctx context.Context, event *entities.Event) error {
	return mapWriteError(dbFrom(ctx, r.db).Save(toEventModel(event)).Error)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return dbFrom(ctx, r.db).Model(&EventModel{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", nowUnix()).Error
}

func (r *EventRepository) List(ctx context.Context, filters repositories.EventFilters) ([]*entities.Event, int64, error) {
	query := dbFrom(ctx, r.db).Model(&EventModel{}).Where("deleted_at IS NULL")

	if filters.OrganizerID != nil {
		query = query.Where("organizer_id = ?", *filters.OrganizerID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", string(*filters.Status))
	}
	if filters.From != nil {
		query = query.Where("starts_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("starts_at <= ?", *filters.To)
	}
	query = applyWords(query, filters.Words, "title", "description", "venue").Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filters.Sort {
	case repositories.SortPriceAsc:
		query = query.Order("ticket_price ASC").Order("starts_at ASC")
	case repositories.SortPriceDesc:
		query = query.Order("ticket_price DESC").Order("starts_at ASC")
	case repositories.SortNewest:
		query = query.Order("created_at DESC")
	default:
		query = query.Order("starts_at ASC")
	}

	limit, offset := filters.Normalize()
	var models []*EventModel
	if err := query.Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	events := make([]*entities.Event, 0, len(models))
	for _, m := range models {
		events = append(events, toEventEntity(m))
	}
	return events, total, nil
}

// ListInBox aceita mais de um intervalo de longitude (caixa que cruza o antimeridiano)
func (r *EventRepository) ListInBox(ctx context.Context, box valueobjects.BoundingBox) ([]*entities.Event, error) {
	db := dbFrom(ctx, r.db)

	lng := db.Session(&gorm.Session{NewDB: true})
	for i, rng := range box.Lng {
		if i == 0 {
			lng = lng.Where("longitude BETWEEN ? AND ?", rng.Min, rng.Max)
			continue
		}
		lng = lng.Or("longitude BETWEEN ? AND ?", rng.Min, rng.Max)
	}

	var models []*EventModel
	err := db.
		Where("deleted_at IS NULL AND status = ?", string(entities.EventScheduled)).
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where(lng).
		Where("ends_at >= ?", nowUnix()).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	events := make([]*entities.Event, 0, len(models))
	for _, m := range models {
		events = append(events, toEventEntity(m))
	}
	return events, nil
}

func (r *EventRepository) AddTicketsSold(ctx context.Context, id string, quantity int) error {
	result := dbFrom(ctx, r.db).Model(&EventModel{}).
		Where("id = ? AND deleted_at IS NULL AND tickets_sold + ? <= capacity", id, quantity).
		Update("tickets_sold", gorm.Expr("tickets_sold + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEventSoldOut
	}
	return nil
}

func toEventModel(e *entities.Event) *EventModel {
	return &EventModel{
		ID:          e.ID,
		OrganizerID: e.OrganizerID,
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		Latitude:    e.Location.Latitude,
		Longitude:   e.Location.Longitude,
		StartsAt:    e.StartsAt.Unix(),
		EndsAt:      e.EndsAt.Unix(),
		TicketPrice: e.TicketPrice,
		Currency:    e.Currency,
		Capacity:    e.Capacity,
		TicketsSold: e.TicketsSold,
		Status:      string(e.Status),
		CreatedAt:   unixOrZero(e.CreatedAt),
		UpdatedAt:   unixOrZero(e.UpdatedAt),
		DeletedAt:   unixPtr(e.DeletedAt),
	}
}

func toEventEntity(m *EventModel) *entities.Event {
	return &entities.Event{
		ID:          m.ID,
		OrganizerID: m.OrganizerID,
		Title:       m.Title,
		Description: m.Description,
		Venue:       m.Venue,
		Location:    valueobjects.Coordinates{Latitude: m.Latitude, Longitude: m.Longitude},
		StartsAt:    time.Unix(m.StartsAt, 0),
		EndsAt:      time.Unix(m.EndsAt, 0),
		TicketPrice: m.TicketPrice,
		Currency:    m.Currency,
		Capacity:    m.Capacity,
		TicketsSold: m.TicketsSold,
		Status:      entities.EventStatus(m.Status),
		CreatedAt:   time.Unix(m.CreatedAt, 0),
		UpdatedAt:   time.Unix(m.UpdatedAt, 0),
		DeletedAt:   timePtr(m.DeletedAt),
	}
}
