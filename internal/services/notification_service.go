package services

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// NotificationService entrega notificações aos usuários.
// Também consome eventos de domínio (ports.EventHandler) e os converte em notificações.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	// broadcaster é nil quando o feed em tempo real vem do banco (pg_notify)
	broadcaster ports.Broadcaster
	translator  ports.Translator
	logger      ports.Logger
}

// NewNotificationService cria um novo NotificationService
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	broadcaster ports.Broadcaster,
	translator ports.Translator,
	logger ports.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		broadcaster:      broadcaster,
		translator:       translator,
		logger:           logger,
	}
}

// List lista notificações do usuário
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, p repositories.Pagination) ([]*entities.Notification, error) {
	return s.notificationRepo.List(ctx, userID, unreadOnly, p)
}

// UnreadCount retorna quantas notificações não foram lidas
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead marca uma notificação do usuário como lida
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.notificationRepo.MarkRead(ctx, id, userID, time.Now())
}

// MarkAllRead marca todas as notificações do usuário como lidas
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID, time.Now())
}

// Notify grava a notificação e a empurra para os clientes conectados.
// Uma notificação já gerada pelo mesmo evento é ignorada.
func (s *NotificationService) Notify(ctx context.Context, n *entities.Notification) error {
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		if n.EventID != "" && stdErrors.Is(err, errors.ErrConflict) {
			s.logger.Debug("notification already delivered", "event_id", n.EventID, "user_id", n.UserID)
			return nil
		}
		return err
	}
	if s.broadcaster != nil {
		s.broadcaster.SendToUser(n.UserID, ports.RealtimeMessage{
			Channel: ports.RealtimeNotification,
			Payload: notificationPayload(n),
		})
	}
	return nil
}

// Handle implementa ports.EventHandler. Reentregas do mesmo evento
// retomam de onde pararam sem duplicar notificações.
func (s *NotificationService) Handle(ctx context.Context, event ports.DomainEvent) error {
	notifications, err := s.fromEvent(event)
	if err != nil {
		return err
	}
	for _, n := range notifications {
		n.EventID = event.ID
		if err := s.Notify(ctx, n); err != nil {
			return err
		}
	}
	if len(notifications) > 0 {
		s.logger.Debug("notifications created", "event_key", event.Key, "count", len(notifications))
	}
	return nil
}

func notificationPayload(n *entities.Notification) map[string]any {
	return map[string]any{
		"id":         n.ID,
		"type":       string(n.Type),
		"title":      n.Title,
		"body":       n.Body,
		"data":       n.Data,
		"created_at": n.CreatedAt.UTC(),
	}
}

// fromEvent monta as notificações correspondentes a um evento
func (s *NotificationService) fromEvent(event ports.DomainEvent) ([]*entities.Notification, error) {
	d := event.Data

	switch event.Key {
	case ports.EventOrderPaid:
		params := map[string]interface{}{"Number": str(d, "number")}
		out := one(s.build(str(d, "buyer_id"), entities.NotificationOrderPaid, params, d))
		for _, seller := range strs(d, "seller_ids") {
			out = append(out, one(s.build(seller, entities.NotificationNewSale, params, d))...)
		}
		return out, nil

	case ports.EventOrderFailed:
		params := map[string]interface{}{"Number": str(d, "number")}
		return one(s.build(str(d, "buyer_id"), entities.NotificationOrderFailed, params, d)), nil

	case ports.EventMessageSent:
		params := map[string]interface{}{"Preview": str(d, "preview"), "Sender": str(d, "sender_name")}
		return one(s.build(str(d, "recipient_id"), entities.NotificationNewMessage, params, d)), nil

	case ports.EventReviewCreated:
		params := map[string]interface{}{"Rating": str(d, "rating"), "Title": str(d, "title")}
		return one(s.build(str(d, "owner_id"), entities.NotificationNewReview, params, d)), nil

	case ports.EventJobApplied:
		params := map[string]interface{}{"Title": str(d, "title")}
		return one(s.build(str(d, "poster_id"), entities.NotificationJobApplication, params, d)), nil

	case ports.EventBookingRequested:
		return one(s.build(str(d, "provider_id"), entities.NotificationBookingRequest, nil, d)), nil

	case ports.EventBookingResponded:
		params := map[string]interface{}{"Status": str(d, "status")}
		return one(s.build(str(d, "requester_id"), entities.NotificationBookingResponse, params, d)), nil

	case ports.EventCreditsGranted:
		params := map[string]interface{}{"Amount": str(d, "amount")}
		return one(s.build(str(d, "user_id"), entities.NotificationCredits, params, d)), nil
	}

	s.logger.Debug("no notification for event", "event_key", event.Key)
	return nil, nil
}

func (s *NotificationService) build(userID string, kind entities.NotificationType, params map[string]interface{}, data map[string]any) *entities.Notification {
	if userID == "" {
		return nil
	}
	lang := s.translator.GetDefaultLanguage()
	var args []map[string]interface{}
	if params != nil {
		args = append(args, params)
	}
	return &entities.Notification{
		UserID: userID,
		Type:   kind,
		Title:  s.translator.T(lang, "notification."+string(kind)+".title", args...),
		Body:   s.translator.T(lang, "notification."+string(kind)+".body", args...),
		Data:   data,
	}
}

// one descarta notificações sem destinatário
func one(n *entities.Notification) []*entities.Notification {
	if n == nil {
		return nil
	}
	return []*entities.Notification{n}
}

// str lê um campo do payload; eventos vindos do broker chegam como JSON genérico
func str(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

func strs(data map[string]any, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

var _ ports.EventHandler = (*NotificationService)(nil)
