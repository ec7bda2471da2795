package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// WishlistHandler lida com a lista de desejos
type WishlistHandler struct {
	wishlistService *services.WishlistService
}

// NewWishlistHandler cria um novo WishlistHandler
func NewWishlistHandler(wishlistService *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// List lista os itens salvos
//
//	@Summary	Lista de desejos
//	@Tags		wishlist
//	@Produce	json
//	@Security	BearerAuth
//	@Param		type	query	string	false	"Filtra por tipo"
//	@Success	200		{array}	dto.WishlistItemResponse
//	@Router		/wishlist [get]
func (h *WishlistHandler) List(c *gin.Context) {
	var q dto.WishlistQuery
	if !bindQuery(c, &q) {
		return
	}

	var entityType *entities.EntityType
	if q.EntityType != "" {
		t := entities.EntityType(q.EntityType)
		entityType = &t
	}

	items, err := h.wishlistService.List(c.Request.Context(), currentUser(c).ID, entityType)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWishlistResponses(items))
}

// Add salva uma listagem (idempotente)
//
//	@Summary	Salva na lista de desejos
//	@Tags		wishlist
//	@Accept		json
//	@Security	BearerAuth
//	@Param		body	body	dto.WishlistRequest	true	"Listagem"
//	@Success	204
//	@Router		/wishlist [post]
func (h *WishlistHandler) Add(c *gin.Context) {
	var req dto.WishlistRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.wishlistService.Add(c.Request.Context(), currentUser(c).ID, entities.EntityType(req.EntityType), req.EntityID); err != nil {
		dto.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Remove retira uma listagem
//
//	@Summary	Remove da lista de desejos
//	@Tags		wishlist
//	@Security	BearerAuth
//	@Param		type	path	string	true	"Tipo da listagem"
//	@Param		id		path	string	true	"ID da listagem"
//	@Success	204
//	@Router		/wishlist/{type}/{id} [delete]
func (h *WishlistHandler) Remove(c *gin.Context) {
	entityType, ok := entityTypeParam(c)
	if !ok {
		return
	}

	if err := h.wishlistService.Remove(c.Request.Context(), currentUser(c).ID, entityType, c.Param("id")); err != nil {
		dto.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Contains indica se a listagem está salva
//
//	@Summary	Verifica item salvo
//	@Tags		wishlist
//	@Produce	json
//	@Security	BearerAuth
//	@Param		type	path		string	true	"Tipo da listagem"
//	@Param		id		path		string	true	"ID da listagem"
//	@Success	200		{object}	dto.WishlistContainsResponse
//	@Router		/wishlist/{type}/{id} [get]
func (h *WishlistHandler) Contains(c *gin.Context) {
	entityType, ok := entityTypeParam(c)
	if !ok {
		return
	}

	saved, err := h.wishlistService.Contains(c.Request.Context(), currentUser(c).ID, entityType, c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WishlistContainsResponse{Saved: saved})
}
