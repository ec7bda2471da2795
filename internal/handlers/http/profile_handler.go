package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// ProfileHandler lida com requisições HTTP relacionadas a perfis
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler cria um novo ProfileHandler
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetMe retorna o perfil do usuário autenticado
//
//	@Summary	Perfil do usuário autenticado
//	@Tags		profiles
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.MeResponse
//	@Failure	401	{object}	dto.ErrorResponse
//	@Router		/me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToMeResponse(currentUser(c)))
}

// UpdateMe altera o perfil do usuário autenticado
//
//	@Summary	Atualiza o próprio perfil
//	@Tags		profiles
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.UpdateProfileRequest	true	"Campos a alterar"
//	@Success	200		{object}	dto.MeResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Router		/me [patch]
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.profileService.UpdateProfile(c.Request.Context(), currentUser(c).ID, req.ToInput())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMeResponse(user))
}

// GetProfile busca o perfil público de um usuário
//
//	@Summary	Perfil público
//	@Tags		profiles
//	@Produce	json
//	@Param		id	path		string	true	"ID do perfil"
//	@Success	200	{object}	dto.ProfileResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, err := h.profileService.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponse(user))
}

// ListProfiles lista perfis (admin)
//
//	@Summary	Lista perfis
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		role		query	string	false	"admin, user ou guest"
//	@Param		page		query	int		false	"Página"
//	@Param		page_size	query	int		false	"Itens por página"
//	@Success	200			{array}	dto.AdminProfileResponse
//	@Router		/admin/users [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var q dto.ListProfilesQuery
	if !bindQuery(c, &q) {
		return
	}

	filters := repositories.UserFilters{Pagination: pagination(q.PageQuery)}
	if q.Role != "" {
		role := entities.Role(q.Role)
		filters.Role = &role
	}

	users, err := h.profileService.ListProfiles(c.Request.Context(), filters)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAdminProfileResponses(users))
}

// DeleteProfile remove (soft delete) um perfil (admin)
//
//	@Summary	Remove um perfil
//	@Tags		admin
//	@Security	BearerAuth
//	@Param		id	path	string	true	"ID do perfil"
//	@Success	204
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/admin/users/{id} [delete]
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	if err := h.profileService.DeleteProfile(c.Request.Context(), c.Param("id")); err != nil {
		dto.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
