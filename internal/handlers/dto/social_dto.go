package dto

import (
	"time"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// ----- avaliações -----

// CreateReviewRequest representa uma avaliação
type CreateReviewRequest struct {
	EntityType string `json:"entity_type" binding:"required,oneof=product job event artiste freelancer"`
	EntityID   string `json:"entity_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment" binding:"max=2000"`
}

// ToInput converte para o input do serviço
func (r CreateReviewRequest) ToInput() services.ReviewInput {
	return services.ReviewInput{
		EntityType: entities.EntityType(r.EntityType),
		EntityID:   r.EntityID,
		Rating:     r.Rating,
		Comment:    r.Comment,
	}
}

// ReviewResponse representa uma avaliação
type ReviewResponse struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	AuthorID   string    `json:"author_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToReviewResponse converte uma avaliação
func ToReviewResponse(r *entities.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		EntityType: string(r.EntityType),
		EntityID:   r.EntityID,
		AuthorID:   r.AuthorID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

// ToReviewResponses converte uma lista de avaliações
func ToReviewResponses(reviews []*entities.Review) []ReviewResponse {
	responses := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		responses[i] = ToReviewResponse(r)
	}
	return responses
}

// ReviewSummaryResponse traz média e quantidade de avaliações
type ReviewSummaryResponse struct {
	EntityType string  `json:"entity_type"`
	EntityID   string  `json:"entity_id"`
	Average    float64 `json:"average"`
	Count      int64   `json:"count"`
}

// ToReviewSummaryResponse converte o resumo
func ToReviewSummaryResponse(s *entities.ReviewSummary) ReviewSummaryResponse {
	return ReviewSummaryResponse{
		EntityType: string(s.EntityType),
		EntityID:   s.EntityID,
		Average:    s.Average,
		Count:      s.Count,
	}
}

// ----- lista de desejos -----

// WishlistRequest adiciona ou remove uma listagem
type WishlistRequest struct {
	EntityType string `json:"entity_type" binding:"required,oneof=product job event artiste freelancer"`
	EntityID   string `json:"entity_id" binding:"required"`
}

// WishlistQuery filtra a lista por tipo
type WishlistQuery struct {
	EntityType string `form:"type" binding:"omitempty,oneof=product job event artiste freelancer"`
}

// WishlistItemResponse representa um item salvo
type WishlistItemResponse struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToWishlistResponses converte a lista de desejos
func ToWishlistResponses(items []*entities.WishlistItem) []WishlistItemResponse {
	responses := make([]WishlistItemResponse, len(items))
	for i, item := range items {
		responses[i] = WishlistItemResponse{
			ID:         item.ID,
			EntityType: string(item.EntityType),
			EntityID:   item.EntityID,
			CreatedAt:  item.CreatedAt,
		}
	}
	return responses
}

// WishlistContainsResponse indica se a listagem está salva
type WishlistContainsResponse struct {
	Saved bool `json:"saved"`
}

// ----- mensagens -----

// StartConversationRequest abre (ou retorna) a conversa com outro usuário
type StartConversationRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
}

// SendMessageRequest envia uma mensagem
type SendMessageRequest struct {
	Body string `json:"body" binding:"required,max=4000"`
}

// MessageListQuery pagina mensagens por cursor de tempo
type MessageListQuery struct {
	Before *time.Time `form:"before" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit  int        `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ConversationResponse representa uma conversa do ponto de vista do usuário
type ConversationResponse struct {
	ID            string     `json:"id"`
	OtherUserID   string     `json:"other_user_id"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToConversationResponse converte uma conversa
func ToConversationResponse(c *entities.Conversation, viewerID string) ConversationResponse {
	return ConversationResponse{
		ID:            c.ID,
		OtherUserID:   c.Other(viewerID),
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}

// ToConversationResponses converte uma lista de conversas
func ToConversationResponses(items []*entities.Conversation, viewerID string) []ConversationResponse {
	responses := make([]ConversationResponse, len(items))
	for i, c := range items {
		responses[i] = ToConversationResponse(c, viewerID)
	}
	return responses
}

// MessageResponse representa uma mensagem
type MessageResponse struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	Body           string     `json:"body"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToMessageResponse converte uma mensagem
func ToMessageResponse(m *entities.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

// ToMessageResponses converte uma lista de mensagens
func ToMessageResponses(items []*entities.Message) []MessageResponse {
	responses := make([]MessageResponse, len(items))
	for i, m := range items {
		responses[i] = ToMessageResponse(m)
	}
	return responses
}

// ----- notificações -----

// NotificationQuery filtra notificações
type NotificationQuery struct {
	Unread bool `form:"unread"`
	PageQuery
}

// NotificationResponse representa uma notificação
type NotificationResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"created_at"`
}

// ToNotificationResponses converte uma lista de notificações
func ToNotificationResponses(items []*entities.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, len(items))
	for i, n := range items {
		responses[i] = NotificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Title:     n.Title,
			Body:      n.Body,
			Data:      n.Data,
			Read:      n.IsRead(),
			CreatedAt: n.CreatedAt,
		}
	}
	return responses
}

// CountResponse é usado por contadores (não lidas, marcadas etc)
type CountResponse struct {
	Count int64 `json:"count"`
}
