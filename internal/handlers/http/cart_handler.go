package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// CartHandler lida com o carrinho de usuários e visitantes.
// Visitantes se identificam pelo cabeçalho X-Cart-Token.
type CartHandler struct {
	cartService *services.CartService
}

// NewCartHandler cria um novo CartHandler
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// CreateGuestCart cria um carrinho de visitante
//
//	@Summary	Cria carrinho de visitante
//	@Tags		cart
//	@Produce	json
//	@Success	201	{object}	dto.GuestCartResponse
//	@Router		/cart [post]
func (h *CartHandler) CreateGuestCart(c *gin.Context) {
	cart, token, err := h.cartService.CreateGuestCart(c.Request.Context())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.GuestCartResponse{ID: cart.ID, Token: token})
}

// Get retorna o carrinho com preços atuais
//
//	@Summary	Carrinho atual
//	@Tags		cart
//	@Produce	json
//	@Param		X-Cart-Token	header		string	false	"Token do carrinho de visitante"
//	@Success	200				{object}	dto.CartResponse
//	@Failure	404				{object}	dto.ErrorResponse
//	@Router		/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	view, err := h.cartService.GetCart(c.Request.Context(), cartRef(c))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCartResponse(view))
}

// AddItem adiciona uma listagem ao carrinho
//
//	@Summary	Adiciona item
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Param		X-Cart-Token	header		string					false	"Token do carrinho de visitante"
//	@Param		body			body		dto.AddCartItemRequest	true	"Item"
//	@Success	200				{object}	dto.CartResponse
//	@Failure	422				{object}	dto.ErrorResponse
//	@Router		/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cartService.AddItem(c.Request.Context(), cartRef(c), entities.EntityType(req.EntityType), req.EntityID, req.Quantity)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCartResponse(view))
}

// UpdateItem altera a quantidade de uma linha
//
//	@Summary	Altera quantidade
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Param		X-Cart-Token	header		string						false	"Token do carrinho de visitante"
//	@Param		itemId			path		string						true	"ID da linha"
//	@Param		body			body		dto.UpdateCartItemRequest	true	"Quantidade (0 remove)"
//	@Success	200				{object}	dto.CartResponse
//	@Router		/cart/items/{itemId} [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cartService.UpdateItem(c.Request.Context(), cartRef(c), c.Param("itemId"), *req.Quantity)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCartResponse(view))
}

// RemoveItem remove uma linha
//
//	@Summary	Remove item
//	@Tags		cart
//	@Produce	json
//	@Param		X-Cart-Token	header		string	false	"Token do carrinho de visitante"
//	@Param		itemId			path		string	true	"ID da linha"
//	@Success	200				{object}	dto.CartResponse
//	@Router		/cart/items/{itemId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	view, err := h.cartService.RemoveItem(c.Request.Context(), cartRef(c), c.Param("itemId"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCartResponse(view))
}

// Clear esvazia o carrinho
//
//	@Summary	Esvazia o carrinho
//	@Tags		cart
//	@Param		X-Cart-Token	header	string	false	"Token do carrinho de visitante"
//	@Success	204
//	@Router		/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), cartRef(c)); err != nil {
		dto.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Merge incorpora o carrinho de visitante ao carrinho do usuário autenticado
//
//	@Summary	Incorpora carrinho de visitante
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.MergeCartRequest	true	"Token do visitante"
//	@Success	200		{object}	dto.CartResponse
//	@Router		/cart/merge [post]
func (h *CartHandler) Merge(c *gin.Context) {
	var req dto.MergeCartRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cartService.MergeGuestCart(c.Request.Context(), currentUser(c).ID, req.Token)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCartResponse(view))
}
