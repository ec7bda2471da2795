package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// ProductHandler lida com requisições HTTP de produtos
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler cria um novo ProductHandler
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List lista produtos
//
//	@Summary		Lista produtos
//	@Description	q aceita a linguagem de busca: palavras, "frases", category:x, price<100, seller:id, status:active, sort:price_asc
//	@Tags			products
//	@Produce		json
//	@Param			q			query		string	false	"Busca"
//	@Param			category	query		string	false	"Categoria"
//	@Param			min_price	query		string	false	"Preço mínimo"
//	@Param			max_price	query		string	false	"Preço máximo"
//	@Param			sort		query		string	false	"newest, price_asc, price_desc ou rating"
//	@Success		200			{object}	dto.ProductListResponse
//	@Failure		400			{object}	dto.ErrorResponse
//	@Router			/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var q dto.ProductListQuery
	if !bindQuery(c, &q) {
		return
	}
	filters, err := q.ToFilters()
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), viewer(c), filters)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductListResponse(products, total, filters.Pagination))
}

// Get busca um produto
//
//	@Summary	Detalhe do produto
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"ID do produto"
//	@Success	200	{object}	dto.ProductResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// Create publica um produto
//
//	@Summary	Publica um produto
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.ProductRequest	true	"Produto"
//	@Success	201		{object}	dto.ProductResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Router		/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), currentUser(c), req.ToInput())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProductResponse(product))
}

// Update altera um produto (dono ou admin)
//
//	@Summary	Altera um produto
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"ID do produto"
//	@Param		body	body		dto.ProductRequest	true	"Campos a alterar"
//	@Success	200		{object}	dto.ProductResponse
//	@Failure	403		{object}	dto.ErrorResponse
//	@Router		/products/{id} [patch]
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), currentUser(c), c.Param("id"), req.ToInput())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// Delete remove um produto (dono ou admin)
//
//	@Summary	Remove um produto
//	@Tags		products
//	@Security	BearerAuth
//	@Param		id	path	string	true	"ID do produto"
//	@Success	204
//	@Router		/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		dto.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
