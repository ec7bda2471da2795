package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// EventHandler lida com eventos e busca por proximidade
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler cria um novo EventHandler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List lista eventos
//
//	@Summary	Lista eventos
//	@Tags		events
//	@Produce	json
//	@Param		q		query		string	false	"Busca"
//	@Param		from	query		int		false	"Início a partir de (unix)"
//	@Param		to		query		int		false	"Início até (unix)"
//	@Param		sort	query		string	false	"newest, starts_at, price_asc ou price_desc"
//	@Success	200		{object}	dto.EventListResponse
//	@Router		/events [get]
func (h *EventHandler) List(c *gin.Context) {
	var q dto.EventListQuery
	if !bindQuery(c, &q) {
		return
	}
	filters, err := q.ToFilters()
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	events, total, err := h.eventService.List(c.Request.Context(), viewer(c), filters)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventListResponse(events, total, filters.Pagination))
}

// Nearby lista eventos agendados dentro de um raio
//
//	@Summary	Eventos próximos
//	@Tags		events
//	@Produce	json
//	@Param		lat			query	number	true	"Latitude"
//	@Param		lng			query	number	true	"Longitude"
//	@Param		radius_km	query	number	false	"Raio em km (padrão 25, máx 500)"
//	@Success	200			{array}	dto.EventResponse
//	@Router		/events/nearby [get]
func (h *EventHandler) Nearby(c *gin.Context) {
	var q dto.NearbyQuery
	if !bindQuery(c, &q) {
		return
	}

	events, err := h.eventService.ListNearby(c.Request.Context(), *q.Lat, *q.Lng, q.RadiusKm)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventResponses(events))
}

// Get busca um evento
//
//	@Summary	Detalhe do evento
//	@Tags		events
//	@Produce	json
//	@Param		id	path		string	true	"ID do evento"
//	@Success	200	{object}	dto.EventResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.eventService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

// Create publica um evento
//
//	@Summary	Publica um evento
//	@Tags		events
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.EventRequest	true	"Evento"
//	@Success	201		{object}	dto.EventResponse
//	@Router		/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.EventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), currentUser(c), req.ToInput())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

// Update altera um evento
//
//	@Summary	Altera um evento
//	@Tags		events
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"ID do evento"
//	@Param		body	body		dto.EventRequest	true	"Campos a alterar"
//	@Success	200		{object}	dto.EventResponse
//	@Router		/events/{id} [patch]
func (h *EventHandler) Update(c *gin.Context) {
	var req dto.EventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), currentUser(c), c.Param("id"), req.ToInput())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

// Delete remove um evento
//
//	@Summary	Remove um evento
//	@Tags		events
//	@Security	BearerAuth
//	@Param		id	path	string	true	"ID do evento"
//	@Success	204
//	@Router		/events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.eventService.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		dto.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
