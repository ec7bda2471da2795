package http

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/handlers/middleware"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// bindJSON faz o binding do corpo e responde 400 em caso de erro
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		dto.RespondBindingError(c, err)
		return false
	}
	return true
}

// bindQuery faz o binding da query string e responde 400 em caso de erro
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		dto.RespondBindingError(c, err)
		return false
	}
	return true
}

func pagination(q dto.PageQuery) repositories.Pagination {
	return repositories.Pagination{Page: q.Page, PageSize: q.PageSize}
}

// currentUser é sempre não-nil nas rotas protegidas por RequireAuth
func currentUser(c *gin.Context) *entities.User {
	return middleware.CurrentUser(c)
}

// viewer é o usuário autenticado nas rotas públicas com OptionalAuth; nil para visitantes
func viewer(c *gin.Context) *entities.User {
	return middleware.CurrentUser(c)
}

// cartRef identifica o carrinho pelo usuário autenticado ou pelo token de visitante
func cartRef(c *gin.Context) services.CartRef {
	ref := services.CartRef{Token: c.GetHeader(middleware.CartTokenHeader)}
	if user := middleware.CurrentUser(c); user != nil {
		ref.UserID = user.ID
	}
	return ref
}
