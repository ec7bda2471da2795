package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Routing keys dos eventos de domínio
const (
	EventOrderPaid        = "order.paid"
	EventOrderFailed      = "order.failed"
	EventMessageSent      = "message.sent"
	EventReviewCreated    = "review.created"
	EventJobApplied       = "job.applied"
	EventBookingRequested = "booking.requested"
	EventBookingResponded = "booking.responded"
	EventCreditsGranted   = "credits.granted"
)

// DomainEvent é o envelope publicado no barramento
type DomainEvent struct {
	ID         string         `json:"id"`
	Key        string         `json:"key"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data"`
}

// EventPublisher publica eventos de domínio
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// EventHandler consome eventos de domínio
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
}

// NewDomainEvent monta um evento com ID e horário preenchidos
func NewDomainEvent(key string, data map[string]any) DomainEvent {
	return DomainEvent{
		ID:         uuid.NewString(),
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}
