package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// AnalyticsHandler expõe o painel administrativo
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler cria um novo AnalyticsHandler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Dashboard retorna os indicadores da plataforma
//
//	@Summary	Painel administrativo
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		days	query		int	false	"Dias de cadastros (padrão 30)"
//	@Param		top		query		int	false	"Quantidade de produtos mais vendidos (padrão 10)"
//	@Success	200		{object}	dto.DashboardResponse
//	@Router		/admin/analytics [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	var q dto.DashboardQuery
	if !bindQuery(c, &q) {
		return
	}

	dashboard, err := h.analyticsService.Dashboard(c.Request.Context(), q.Days, q.Top)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardResponse(dashboard))
}
