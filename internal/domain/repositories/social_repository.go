package repositories

import (
	"context"
	"time"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
)

// ReviewRepository define a persistência de avaliações
type ReviewRepository interface {
	Create(ctx context.Context, review *entities.Review) error
	FindByID(ctx context.Context, id string) (*entities.Review, error)
	Delete(ctx context.Context, id string) error
	ListForEntity(ctx context.Context, entityType entities.EntityType, entityID string, p Pagination) ([]*entities.Review, error)
	Summary(ctx context.Context, entityType entities.EntityType, entityID string) (*entities.ReviewSummary, error)
}

// WishlistRepository define a persistência da lista de desejos
type WishlistRepository interface {
	Add(ctx context.Context, item *entities.WishlistItem) error
	Remove(ctx context.Context, userID string, entityType entities.EntityType, entityID string) error
	List(ctx context.Context, userID string, entityType *entities.EntityType) ([]*entities.WishlistItem, error)
	Exists(ctx context.Context, userID string, entityType entities.EntityType, entityID string) (bool, error)
}

// ConversationRepository define a persistência de conversas
type ConversationRepository interface {
	Create(ctx context.Context, c *entities.Conversation) error
	FindByID(ctx context.Context, id string) (*entities.Conversation, error)
	FindByPair(ctx context.Context, a, b string) (*entities.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]*entities.Conversation, error)
	Touch(ctx context.Context, id string, at time.Time) error
}

// MessageRepository define a persistência de mensagens
type MessageRepository interface {
	Create(ctx context.Context, m *entities.Message) error
	FindByID(ctx context.Context, id string) (*entities.Message, error)
	// List retorna as mensagens mais recentes antes de "before" (nil = agora)
	List(ctx context.Context, conversationID string, before *time.Time, limit int) ([]*entities.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error)
}

// NotificationRepository define a persistência de notificações
type NotificationRepository interface {
	// Create devolve ErrConflict quando o evento de origem já gerou notificação para o usuário
	Create(ctx context.Context, n *entities.Notification) error
	FindByID(ctx context.Context, id string) (*entities.Notification, error)
	List(ctx context.Context, userID string, unreadOnly bool, p Pagination) ([]*entities.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
}

// AnalyticsRepository define as consultas agregadas do painel administrativo
type AnalyticsRepository interface {
	Dashboard(ctx context.Context, since time.Time, topN int) (*entities.Dashboard, error)
}
