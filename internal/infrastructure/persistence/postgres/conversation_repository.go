package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// ConversationRepository implementa repositories.ConversationRepository
type ConversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository cria um novo ConversationRepository
func NewConversationRepository(db *gorm.DB) repositories.ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(ctx context.Context, c *entities.Conversation) error {
	a, b := entities.NewConversationPair(c.ParticipantA, c.ParticipantB)
	model := &ConversationModel{ID: newID(), ParticipantA: a, ParticipantB: b}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return mapWriteError(err)
	}
	c.ID = model.ID
	c.ParticipantA, c.ParticipantB = a, b
	c.CreatedAt = time.Unix(model.CreatedAt, 0)
	return nil
}

func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*entities.Conversation, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *ConversationRepository) FindByPair(ctx context.Context, a, b string) (*entities.Conversation, error) {
	a, b = entities.NewConversationPair(a, b)
	return r.findOne(ctx, "participant_a = ? AND participant_b = ?", a, b)
}

func (r *ConversationRepository) findOne(ctx context.Context, where string, args ...any) (*entities.Conversation, error) {
	var model ConversationModel
	if err := dbFrom(ctx, r.db).Where(where, args...).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toConversationEntity(&model), nil
}

func (r *ConversationRepository) ListForUser(ctx context.Context, userID string) ([]*entities.Conversation, error) {
	var models []*ConversationModel
	err := dbFrom(ctx, r.db).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("COALESCE(last_message_at, created_at) DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	result := make([]*entities.Conversation, 0, len(models))
	for _, m := range models {
		result = append(result, toConversationEntity(m))
	}
	return result, nil
}

func (r *ConversationRepository) Touch(ctx context.Context, id string, at time.Time) error {
	return dbFrom(ctx, r.db).Model(&ConversationModel{}).
		Where("id = ?", id).
		Update("last_message_at", at.Unix()).Error
}

func toConversationEntity(m *ConversationModel) *entities.Conversation {
	return &entities.Conversation{
		ID:            m.ID,
		ParticipantA:  m.ParticipantA,
		ParticipantB:  m.ParticipantB,
		LastMessageAt: timePtr(m.LastMessageAt),
		CreatedAt:     time.Unix(m.CreatedAt, 0),
	}
}

// MessageRepository implementa repositories.MessageRepository.
// created_at das mensagens é gravado em milissegundos para ordenação estável.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository cria um novo MessageRepository
func NewMessageRepository(db *gorm.DB) repositories.MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *entities.Message) error {
	model := &MessageModel{
		ID:             newID(),
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
	}
	if !m.CreatedAt.IsZero() {
		model.CreatedAt = m.CreatedAt.UnixMilli()
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return mapWriteError(err)
	}
	m.ID = model.ID
	m.CreatedAt = time.UnixMilli(model.CreatedAt)
	return nil
}

// List retorna até limit mensagens anteriores a before, da mais antiga para a mais nova
func (r *MessageRepository) List(ctx context.Context, conversationID string, before *time.Time, limit int) ([]*entities.Message, error) {
	if limit <= 0 || limit > repositories.MaxPageSize {
		limit = repositories.DefaultPageSize
	}

	query := dbFrom(ctx, r.db).Where("conversation_id = ?", conversationID)
	if before != nil {
		query = query.Where("created_at < ?", before.UnixMilli())
	}

	var models []*MessageModel
	if err := query.Order("created_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}

	messages := make([]*entities.Message, len(models))
	for i, m := range models {
		messages[len(models)-1-i] = toMessageEntity(m)
	}
	return messages, nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*entities.Message, error) {
	var model MessageModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toMessageEntity(&model), nil
}

func toMessageEntity(m *MessageModel) *entities.Message {
	msg := &entities.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		CreatedAt:      time.UnixMilli(m.CreatedAt),
	}
	if m.ReadAt != nil {
		t := time.UnixMilli(*m.ReadAt)
		msg.ReadAt = &t
	}
	return msg
}

// MarkRead marca como lidas as mensagens recebidas pelo leitor
func (r *MessageRepository) MarkRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error) {
	result := dbFrom(ctx, r.db).Model(&MessageModel{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", at.UnixMilli())
	return result.RowsAffected, result.Error
}
