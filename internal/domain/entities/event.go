package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/valueobjects"
)

// EventStatus representa o estado de um evento
type EventStatus string

const (
	EventScheduled EventStatus = "scheduled"
	EventCancelled EventStatus = "cancelled"
)

// Event representa um evento com venda de ingressos
type Event struct {
	ID          string
	OrganizerID string
	Title       string
	Description string
	Venue       string
	Location    valueobjects.Coordinates
	StartsAt    time.Time
	EndsAt      time.Time
	TicketPrice decimal.Decimal
	Currency    string
	Capacity    int
	TicketsSold int
	Status      EventStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time

	// DistanceKm é preenchido apenas em buscas por proximidade
	DistanceKm *float64
}

// RemainingTickets retorna quantos ingressos ainda estão disponíveis
func (e *Event) RemainingTickets() int {
	if e.TicketsSold >= e.Capacity {
		return 0
	}
	return e.Capacity - e.TicketsSold
}

// IsSoldOut verifica se a lotação foi atingida
func (e *Event) IsSoldOut() bool {
	return e.RemainingTickets() == 0
}

// CanSell verifica se a quantidade de ingressos pode ser vendida
func (e *Event) CanSell(quantity int) bool {
	return e.Status == EventScheduled && e.DeletedAt == nil && e.RemainingTickets() >= quantity
}

// Validate valida regras de negócio do evento
func (e *Event) Validate() error {
	if len(e.Title) < 3 || len(e.Title) > 200 {
		return errors.New("title must have between 3 and 200 characters")
	}
	if !e.EndsAt.After(e.StartsAt) {
		return errors.New("event must end after it starts")
	}
	if e.TicketPrice.IsNegative() {
		return errors.New("ticket price must not be negative")
	}
	if e.Capacity <= 0 {
		return errors.New("capacity must be positive")
	}
	if _, err := valueobjects.NewCoordinates(e.Location.Latitude, e.Location.Longitude); err != nil {
		return err
	}
	return nil
}
