package services

import (
	"context"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// RealtimeRecords monta o payload em tempo real a partir do id anunciado pelo pg_notify.
// O NOTIFY leva só identificadores; o corpo vem do banco.
type RealtimeRecords struct {
	notificationRepo repositories.NotificationRepository
	messageRepo      repositories.MessageRepository
}

// NewRealtimeRecords cria o loader usado pelo feed do banco
func NewRealtimeRecords(notificationRepo repositories.NotificationRepository, messageRepo repositories.MessageRepository) *RealtimeRecords {
	return &RealtimeRecords{notificationRepo: notificationRepo, messageRepo: messageRepo}
}

func (r *RealtimeRecords) LoadRealtime(ctx context.Context, channel, id string) (any, error) {
	switch channel {
	case ports.RealtimeNotification:
		n, err := r.notificationRepo.FindByID(ctx, id)
		if err != nil || n == nil {
			return nil, err
		}
		return notificationPayload(n), nil
	case ports.RealtimeMessageSent:
		m, err := r.messageRepo.FindByID(ctx, id)
		if err != nil || m == nil {
			return nil, err
		}
		return messagePayload(m), nil
	}
	return nil, nil
}

func messagePayload(m *entities.Message) map[string]any {
	return map[string]any{
		"id":              m.ID,
		"conversation_id": m.ConversationID,
		"sender_id":       m.SenderID,
		"body":            m.Body,
		"created_at":      m.CreatedAt.UTC(),
	}
}

var _ ports.RealtimeLoader = (*RealtimeRecords)(nil)
