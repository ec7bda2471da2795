package services

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

const (
	MaxMessageLength = 4000
	previewLength    = 120
)

// MessagingService contém a lógica de conversas diretas entre usuários
type MessagingService struct {
	conversationRepo repositories.ConversationRepository
	messageRepo      repositories.MessageRepository
	userRepo         repositories.UserRepository
	publisher        ports.EventPublisher
	// broadcaster é nil quando o feed em tempo real vem do banco (pg_notify)
	broadcaster ports.Broadcaster
	logger      ports.Logger
}

// NewMessagingService cria um novo MessagingService
func NewMessagingService(
	conversationRepo repositories.ConversationRepository,
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	publisher ports.EventPublisher,
	broadcaster ports.Broadcaster,
	logger ports.Logger,
) *MessagingService {
	return &MessagingService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		publisher:        publisher,
		broadcaster:      broadcaster,
		logger:           logger,
	}
}

// StartConversation abre (ou retorna a existente) conversa com outro usuário
func (s *MessagingService) StartConversation(ctx context.Context, actor *entities.User, recipientID string) (*entities.Conversation, error) {
	if recipientID == actor.ID {
		return nil, errors.ErrSelfConversation
	}
	recipient, err := s.userRepo.FindByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, errors.ErrUserNotFound
	}

	existing, err := s.conversationRepo.FindByPair(ctx, actor.ID, recipientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	a, b := entities.NewConversationPair(actor.ID, recipientID)
	conv := &entities.Conversation{ParticipantA: a, ParticipantB: b}
	if err := s.conversationRepo.Create(ctx, conv); err != nil {
		if stdErrors.Is(err, errors.ErrConflict) {
			return s.conversationRepo.FindByPair(ctx, actor.ID, recipientID)
		}
		return nil, err
	}
	return conv, nil
}

// ListConversations lista as conversas do usuário, mais recentes primeiro
func (s *MessagingService) ListConversations(ctx context.Context, actor *entities.User) ([]*entities.Conversation, error) {
	return s.conversationRepo.ListForUser(ctx, actor.ID)
}

// conversationFor retorna a conversa apenas para participantes
func (s *MessagingService) conversationFor(ctx context.Context, actor *entities.User, conversationID string) (*entities.Conversation, error) {
	conv, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil || !conv.HasParticipant(actor.ID) {
		return nil, errors.ErrConversationNotFound
	}
	return conv, nil
}

// ListMessages lista mensagens anteriores a "before" em ordem cronológica
func (s *MessagingService) ListMessages(ctx context.Context, actor *entities.User, conversationID string, before *time.Time, limit int) ([]*entities.Message, error) {
	if _, err := s.conversationFor(ctx, actor, conversationID); err != nil {
		return nil, err
	}
	return s.messageRepo.List(ctx, conversationID, before, limit)
}

// SendMessage grava a mensagem e publica message.sent
func (s *MessagingService) SendMessage(ctx context.Context, actor *entities.User, conversationID, body string) (*entities.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" || utf8.RuneCountInString(body) > MaxMessageLength {
		return nil, errors.Wrap(errors.ErrInvalidInput, "message body must have between 1 and 4000 characters")
	}

	conv, err := s.conversationFor(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &entities.Message{ConversationID: conv.ID, SenderID: actor.ID, Body: body}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.conversationRepo.Touch(ctx, conv.ID, msg.CreatedAt); err != nil {
		s.logger.Warn("failed to touch conversation", "conversation_id", conv.ID, "error", err)
	}

	recipientID := conv.Other(actor.ID)
	if s.broadcaster != nil {
		s.broadcaster.SendToUser(recipientID, ports.RealtimeMessage{
			Channel: ports.RealtimeMessageSent,
			Payload: messagePayload(msg),
		})
	}

	publish(ctx, s.publisher, s.logger, ports.EventMessageSent, map[string]any{
		"message_id":      msg.ID,
		"conversation_id": conv.ID,
		"sender_id":       actor.ID,
		"sender_name":     actor.Name,
		"recipient_id":    recipientID,
		"preview":         preview(body),
	})
	return msg, nil
}

// MarkRead marca como lidas as mensagens recebidas na conversa
func (s *MessagingService) MarkRead(ctx context.Context, actor *entities.User, conversationID string) (int64, error) {
	if _, err := s.conversationFor(ctx, actor, conversationID); err != nil {
		return 0, err
	}
	return s.messageRepo.MarkRead(ctx, conversationID, actor.ID, time.Now())
}

func preview(body string) string {
	if utf8.RuneCountInString(body) <= previewLength {
		return body
	}
	runes := []rune(body)
	return string(runes[:previewLength]) + "…"
}
