package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// TalentHandler lida com freelancers, artistas e pedidos de contratação
type TalentHandler struct {
	talentService *services.TalentService
}

// NewTalentHandler cria um novo TalentHandler
func NewTalentHandler(talentService *services.TalentService) *TalentHandler {
	return &TalentHandler{talentService: talentService}
}

// ListFreelancers lista freelancers
//
//	@Summary	Lista freelancers
//	@Tags		talent
//	@Produce	json
//	@Param		q			query		string	false	"Busca"
//	@Param		skill		query		string	false	"Habilidade"
//	@Param		max_rate	query		string	false	"Valor máximo por hora"
//	@Success	200			{object}	dto.FreelancerListResponse
//	@Router		/freelancers [get]
func (h *TalentHandler) ListFreelancers(c *gin.Context) {
	var q dto.TalentListQuery
	if !bindQuery(c, &q) {
		return
	}
	filters, err := q.ToFilters()
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	items, total, err := h.talentService.ListFreelancers(c.Request.Context(), filters)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFreelancerListResponse(items, total, filters.Pagination))
}

// GetFreelancer busca um freelancer
//
//	@Summary	Detalhe do freelancer
//	@Tags		talent
//	@Produce	json
//	@Param		id	path		string	true	"ID do freelancer"
//	@Success	200	{object}	dto.FreelancerResponse
//	@Router		/freelancers/{id} [get]
func (h *TalentHandler) GetFreelancer(c *gin.Context) {
	f, err := h.talentService.GetFreelancer(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFreelancerResponse(f))
}

// CreateFreelancer cria o perfil de freelancer do usuário
//
//	@Summary	Cria perfil de freelancer
//	@Tags		talent
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.FreelancerRequest	true	"Perfil"
//	@Success	201		{object}	dto.FreelancerResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/freelancers [post]
func (h *TalentHandler) CreateFreelancer(c *gin.Context) {
	var req dto.FreelancerRequest
	if !bindJSON(c, &req) {
		return
	}

	f, err := h.talentService.CreateFreelancer(c.Request.Context(), currentUser(c), req.ToInput())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToFreelancerResponse(f))
}

// UpdateFreelancer altera o perfil de freelancer
//
//	@Summary	Altera perfil de freelancer
//	@Tags		talent
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"ID do freelancer"
//	@Param		body	body		dto.FreelancerRequest	true	"Campos a alterar"
//	@Success	200		{object}	dto.FreelancerResponse
//	@Router		/freelancers/{id} [patch]
func (h *TalentHandler) UpdateFreelancer(c *gin.Context) {
	var req dto.FreelancerRequest
	if !bindJSON(c, &req) {
		return
	}

	f, err := h.talentService.UpdateFreelancer(c.Request.Context(), currentUser(c), c.Param("id"), req.ToInput())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFreelancerResponse(f))
}

// DeleteFreelancer remove o perfil de freelancer
//
//	@Summary	Remove perfil de freelancer
//	@Tags		talent
//	@Security	BearerAuth
//	@Param		id	path	string	true	"ID do freelancer"
//	@Success	204
//	@Router		/freelancers/{id} [delete]
func (h *TalentHandler) DeleteFreelancer(c *gin.Context) {
	if err := h.talentService.DeleteFreelancer(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		dto.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListArtistes lista artistas
//
//	@Summary	Lista artistas
//	@Tags		talent
//	@Produce	json
//	@Param		q			query		string	false	"Busca"
//	@Param		genre		query		string	false	"Gênero"
//	@Param		max_rate	query		string	false	"Cachê máximo"
//	@Success	200			{object}	dto.ArtisteListResponse
//	@Router		/artistes [get]
func (h *TalentHandler) ListArtistes(c *gin.Context) {
	var q dto.TalentListQuery
	if !bindQuery(c, &q) {
		return
	}
	filters, err := q.ToFilters()
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	items, total, err := h.talentService.ListArtistes(c.Request.Context(), filters)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtisteListResponse(items, total, filters.Pagination))
}

// GetArtiste busca um artista
//
//	@Summary	Detalhe do artista
//	@Tags		talent
//	@Produce	json
//	@Param		id	path		string	true	"ID do artista"
//	@Success	200	{object}	dto.ArtisteResponse
//	@Router		/artistes/{id} [get]
func (h *TalentHandler) GetArtiste(c *gin.Context) {
	a, err := h.talentService.GetArtiste(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtisteResponse(a))
}

// CreateArtiste cria o perfil de artista do usuário
//
//	@Summary	Cria perfil de artista
//	@Tags		talent
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.ArtisteRequest	true	"Perfil"
//	@Success	201		{object}	dto.ArtisteResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/artistes [post]
func (h *TalentHandler) CreateArtiste(c *gin.Context) {
	var req dto.ArtisteRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.talentService.CreateArtiste(c.Request.Context(), currentUser(c), req.ToInput())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToArtisteResponse(a))
}

// UpdateArtiste altera o perfil de artista
//
//	@Summary	Altera perfil de artista
//	@Tags		talent
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"ID do artista"
//	@Param		body	body		dto.ArtisteRequest	true	"Campos a alterar"
//	@Success	200		{object}	dto.ArtisteResponse
//	@Router		/artistes/{id} [patch]
func (h *TalentHandler) UpdateArtiste(c *gin.Context) {
	var req dto.ArtisteRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.talentService.UpdateArtiste(c.Request.Context(), currentUser(c), c.Param("id"), req.ToInput())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtisteResponse(a))
}

// DeleteArtiste remove o perfil de artista
//
//	@Summary	Remove perfil de artista
//	@Tags		talent
//	@Security	BearerAuth
//	@Param		id	path	string	true	"ID do artista"
//	@Success	204
//	@Router		/artistes/{id} [delete]
func (h *TalentHandler) DeleteArtiste(c *gin.Context) {
	if err := h.talentService.DeleteArtiste(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		dto.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RequestBooking envia um pedido de contratação
//
//	@Summary	Pede uma contratação
//	@Tags		bookings
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.BookingRequestBody	true	"Pedido"
//	@Success	201		{object}	dto.BookingResponse
//	@Router		/bookings [post]
func (h *TalentHandler) RequestBooking(c *gin.Context) {
	var req dto.BookingRequestBody
	if !bindJSON(c, &req) {
		return
	}

	booking, err := h.talentService.RequestBooking(c.Request.Context(), currentUser(c), req.ToInput())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

// RespondBooking aceita ou recusa um pedido pendente
//
//	@Summary	Responde a um pedido de contratação
//	@Tags		bookings
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"ID do pedido"
//	@Param		body	body		dto.BookingResponseBody	true	"Resposta"
//	@Success	200		{object}	dto.BookingResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/bookings/{id}/respond [post]
func (h *TalentHandler) RespondBooking(c *gin.Context) {
	var req dto.BookingResponseBody
	if !bindJSON(c, &req) {
		return
	}

	booking, err := h.talentService.RespondBooking(c.Request.Context(), currentUser(c), c.Param("id"), *req.Accept)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// ListBookings lista pedidos enviados ou recebidos (role=provider)
//
//	@Summary	Lista pedidos de contratação
//	@Tags		bookings
//	@Produce	json
//	@Security	BearerAuth
//	@Param		role	query	string	false	"provider ou requester"
//	@Success	200		{array}	dto.BookingResponse
//	@Router		/bookings [get]
func (h *TalentHandler) ListBookings(c *gin.Context) {
	var q dto.BookingListQuery
	if !bindQuery(c, &q) {
		return
	}

	items, err := h.talentService.ListBookings(c.Request.Context(), currentUser(c), q.Role == "provider")
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponses(items))
}
