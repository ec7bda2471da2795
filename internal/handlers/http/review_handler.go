package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// ReviewHandler lida com avaliações de qualquer tipo de listagem
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler cria um novo ReviewHandler
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func entityTypeParam(c *gin.Context) (entities.EntityType, bool) {
	t := entities.EntityType(c.Param("type"))
	if !t.IsValid() {
		dto.RespondError(c, errors.ErrInvalidEntityType)
		return "", false
	}
	return t, true
}

// List lista avaliações de uma listagem
//
//	@Summary	Avaliações da listagem
//	@Tags		reviews
//	@Produce	json
//	@Param		type	path	string	true	"product, job, event, artiste ou freelancer"
//	@Param		id		path	string	true	"ID da listagem"
//	@Success	200		{array}	dto.ReviewResponse
//	@Router		/reviews/{type}/{id} [get]
func (h *ReviewHandler) List(c *gin.Context) {
	entityType, ok := entityTypeParam(c)
	if !ok {
		return
	}
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	reviews, err := h.reviewService.ListForEntity(c.Request.Context(), entityType, c.Param("id"), pagination(q))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReviewResponses(reviews))
}

// Summary retorna média e quantidade de avaliações
//
//	@Summary	Resumo das avaliações
//	@Tags		reviews
//	@Produce	json
//	@Param		type	path		string	true	"Tipo da listagem"
//	@Param		id		path		string	true	"ID da listagem"
//	@Success	200		{object}	dto.ReviewSummaryResponse
//	@Router		/reviews/{type}/{id}/summary [get]
func (h *ReviewHandler) Summary(c *gin.Context) {
	entityType, ok := entityTypeParam(c)
	if !ok {
		return
	}

	summary, err := h.reviewService.Summary(c.Request.Context(), entityType, c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReviewSummaryResponse(summary))
}

// Create registra uma avaliação
//
//	@Summary	Avalia uma listagem
//	@Tags		reviews
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.CreateReviewRequest	true	"Avaliação"
//	@Success	201		{object}	dto.ReviewResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), currentUser(c), req.ToInput())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToReviewResponse(review))
}

// Delete remove uma avaliação (autor ou admin)
//
//	@Summary	Remove avaliação
//	@Tags		reviews
//	@Security	BearerAuth
//	@Param		id	path	string	true	"ID da avaliação"
//	@Success	204
//	@Router		/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.reviewService.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		dto.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
