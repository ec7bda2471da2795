package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// NotificationHandler lida com as notificações do usuário
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler cria um novo NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List lista notificações
//
//	@Summary	Minhas notificações
//	@Tags		notifications
//	@Produce	json
//	@Security	BearerAuth
//	@Param		unread	query	bool	false	"Somente não lidas"
//	@Success	200		{array}	dto.NotificationResponse
//	@Router		/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var q dto.NotificationQuery
	if !bindQuery(c, &q) {
		return
	}

	items, err := h.notificationService.List(c.Request.Context(), currentUser(c).ID, q.Unread, pagination(q.PageQuery))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationResponses(items))
}

// UnreadCount retorna quantas notificações não foram lidas
//
//	@Summary	Contador de não lidas
//	@Tags		notifications
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.CountResponse
//	@Router		/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

// MarkRead marca uma notificação como lida
//
//	@Summary	Marca notificação como lida
//	@Tags		notifications
//	@Security	BearerAuth
//	@Param		id	path	string	true	"ID da notificação"
//	@Success	204
//	@Router		/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notificationService.MarkRead(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		dto.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllRead marca todas as notificações como lidas
//
//	@Summary	Marca todas como lidas
//	@Tags		notifications
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.CountResponse
//	@Router		/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.notificationService.MarkAllRead(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}
