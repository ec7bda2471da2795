package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// MessagingHandler lida com conversas e mensagens diretas
type MessagingHandler struct {
	messagingService *services.MessagingService
}

// NewMessagingHandler cria um novo MessagingHandler
func NewMessagingHandler(messagingService *services.MessagingService) *MessagingHandler {
	return &MessagingHandler{messagingService: messagingService}
}

// StartConversation abre (ou retorna) a conversa com outro usuário
//
//	@Summary	Inicia conversa
//	@Tags		messaging
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.StartConversationRequest	true	"Destinatário"
//	@Success	200		{object}	dto.ConversationResponse
//	@Router		/conversations [post]
func (h *MessagingHandler) StartConversation(c *gin.Context) {
	var req dto.StartConversationRequest
	if !bindJSON(c, &req) {
		return
	}

	user := currentUser(c)
	conv, err := h.messagingService.StartConversation(c.Request.Context(), user, req.RecipientID)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConversationResponse(conv, user.ID))
}

// ListConversations lista as conversas do usuário
//
//	@Summary	Minhas conversas
//	@Tags		messaging
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	dto.ConversationResponse
//	@Router		/conversations [get]
func (h *MessagingHandler) ListConversations(c *gin.Context) {
	user := currentUser(c)
	convs, err := h.messagingService.ListConversations(c.Request.Context(), user)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConversationResponses(convs, user.ID))
}

// ListMessages lista mensagens da conversa, das mais recentes para as mais antigas
//
//	@Summary	Mensagens da conversa
//	@Tags		messaging
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path	string	true	"ID da conversa"
//	@Param		before	query	string	false	"Cursor RFC 3339"
//	@Param		limit	query	int		false	"Máximo de mensagens"
//	@Success	200		{array}	dto.MessageResponse
//	@Router		/conversations/{id}/messages [get]
func (h *MessagingHandler) ListMessages(c *gin.Context) {
	var q dto.MessageListQuery
	if !bindQuery(c, &q) {
		return
	}

	msgs, err := h.messagingService.ListMessages(c.Request.Context(), currentUser(c), c.Param("id"), q.Before, q.Limit)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMessageResponses(msgs))
}

// SendMessage envia uma mensagem
//
//	@Summary	Envia mensagem
//	@Tags		messaging
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"ID da conversa"
//	@Param		body	body		dto.SendMessageRequest	true	"Mensagem"
//	@Success	201		{object}	dto.MessageResponse
//	@Router		/conversations/{id}/messages [post]
func (h *MessagingHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.messagingService.SendMessage(c.Request.Context(), currentUser(c), c.Param("id"), req.Body)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMessageResponse(msg))
}

// MarkRead marca como lidas as mensagens recebidas na conversa
//
//	@Summary	Marca conversa como lida
//	@Tags		messaging
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID da conversa"
//	@Success	200	{object}	dto.CountResponse
//	@Router		/conversations/{id}/read [post]
func (h *MessagingHandler) MarkRead(c *gin.Context) {
	count, err := h.messagingService.MarkRead(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}
