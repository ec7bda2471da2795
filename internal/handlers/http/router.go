package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/handlers/middleware"
)

// Handlers agrupa os handlers registrados na API
type Handlers struct {
	Profiles      *ProfileHandler
	Products      *ProductHandler
	Jobs          *JobHandler
	Events        *EventHandler
	Talent        *TalentHandler
	Cart          *CartHandler
	Orders        *OrderHandler
	Credits       *CreditHandler
	Reviews       *ReviewHandler
	Wishlist      *WishlistHandler
	Messaging     *MessagingHandler
	Notifications *NotificationHandler
	Uploads       *UploadHandler
	Analytics     *AnalyticsHandler
	Realtime      *RealtimeHandler
}

// RegisterRoutes registra as rotas da API em /api/v1 e o websocket em /ws
func RegisterRoutes(router *gin.Engine, h Handlers, auth *middleware.AuthMiddleware) {
	router.GET("/ws", auth.RequireAuthWebSocket(), h.Realtime.Serve)

	v1 := router.Group("/api/v1")

	// Rotas públicas
	public := v1.Group("")
	{
		public.GET("/profiles/:id", h.Profiles.GetProfile)
		public.GET("/freelancers", h.Talent.ListFreelancers)
		public.GET("/freelancers/:id", h.Talent.GetFreelancer)
		public.GET("/artistes", h.Talent.ListArtistes)
		public.GET("/artistes/:id", h.Talent.GetArtiste)

		public.GET("/reviews/:type/:id", h.Reviews.List)
		public.GET("/reviews/:type/:id/summary", h.Reviews.Summary)

		public.POST("/webhooks/payments", h.Orders.PaymentWebhook)
	}

	// Vitrine: pública, mas o dono autenticado também enxerga rascunhos e encerrados
	browse := v1.Group("", auth.OptionalAuth())
	{
		browse.GET("/products", h.Products.List)
		browse.GET("/products/:id", h.Products.Get)
		browse.GET("/jobs", h.Jobs.List)
		browse.GET("/jobs/:id", h.Jobs.Get)
		browse.GET("/events", h.Events.List)
		browse.GET("/events/nearby", h.Events.Nearby)
		browse.GET("/events/:id", h.Events.Get)
	}

	// Carrinho: visitantes (X-Cart-Token) ou usuários autenticados
	cart := v1.Group("/cart", auth.OptionalAuth())
	{
		cart.POST("", h.Cart.CreateGuestCart)
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.PATCH("/items/:itemId", h.Cart.UpdateItem)
		cart.DELETE("/items/:itemId", h.Cart.RemoveItem)
		cart.POST("/merge", auth.RequireAuth(), h.Cart.Merge)
	}

	// Rotas autenticadas
	authed := v1.Group("", auth.RequireAuth())
	{
		authed.GET("/me", h.Profiles.GetMe)
		authed.PATCH("/me", h.Profiles.UpdateMe)
		authed.GET("/me/applications", h.Jobs.ListMyApplications)

		writes := authed.Group("", auth.RequirePermission(entities.PermissionListingWrite))
		{
			writes.POST("/products", h.Products.Create)
			writes.PATCH("/products/:id", h.Products.Update)
			writes.DELETE("/products/:id", h.Products.Delete)

			writes.POST("/jobs", h.Jobs.Create)
			writes.PATCH("/jobs/:id", h.Jobs.Update)
			writes.DELETE("/jobs/:id", h.Jobs.Delete)
			writes.POST("/jobs/:id/applications", h.Jobs.Apply)
			writes.GET("/jobs/:id/applications", h.Jobs.ListApplications)
			writes.PUT("/applications/:id/status", h.Jobs.SetApplicationStatus)

			writes.POST("/events", h.Events.Create)
			writes.PATCH("/events/:id", h.Events.Update)
			writes.DELETE("/events/:id", h.Events.Delete)

			writes.POST("/freelancers", h.Talent.CreateFreelancer)
			writes.PATCH("/freelancers/:id", h.Talent.UpdateFreelancer)
			writes.DELETE("/freelancers/:id", h.Talent.DeleteFreelancer)
			writes.POST("/artistes", h.Talent.CreateArtiste)
			writes.PATCH("/artistes/:id", h.Talent.UpdateArtiste)
			writes.DELETE("/artistes/:id", h.Talent.DeleteArtiste)

			writes.POST("/bookings", h.Talent.RequestBooking)
			writes.GET("/bookings", h.Talent.ListBookings)
			writes.POST("/bookings/:id/respond", h.Talent.RespondBooking)

			writes.POST("/reviews", h.Reviews.Create)
			writes.DELETE("/reviews/:id", h.Reviews.Delete)

			writes.POST("/uploads", h.Uploads.Upload)
			writes.POST("/uploads/presign", h.Uploads.Presign)
		}

		orders := authed.Group("", auth.RequirePermission(entities.PermissionOrderWrite))
		{
			orders.POST("/checkout", h.Orders.Checkout)
			orders.GET("/orders", h.Orders.ListMine)
			orders.GET("/orders/:id", h.Orders.Get)
			orders.POST("/orders/:id/cancel", h.Orders.Cancel)
			orders.POST("/orders/:id/fulfill", h.Orders.Fulfill)
			orders.GET("/sales", h.Orders.ListSales)
		}

		authed.GET("/wishlist", h.Wishlist.List)
		authed.POST("/wishlist", h.Wishlist.Add)
		authed.GET("/wishlist/:type/:id", h.Wishlist.Contains)
		authed.DELETE("/wishlist/:type/:id", h.Wishlist.Remove)

		messaging := authed.Group("/conversations", auth.RequirePermission(entities.PermissionMessagingWrite))
		{
			messaging.GET("", h.Messaging.ListConversations)
			messaging.POST("", h.Messaging.StartConversation)
			messaging.GET("/:id/messages", h.Messaging.ListMessages)
			messaging.POST("/:id/messages", h.Messaging.SendMessage)
			messaging.POST("/:id/read", h.Messaging.MarkRead)
		}

		authed.GET("/notifications", h.Notifications.List)
		authed.GET("/notifications/unread-count", h.Notifications.UnreadCount)
		authed.POST("/notifications/read-all", h.Notifications.MarkAllRead)
		authed.POST("/notifications/:id/read", h.Notifications.MarkRead)

		authed.GET("/credits", h.Credits.Balance)
		authed.GET("/credits/history", h.Credits.History)
	}

	// Administração
	admin := v1.Group("/admin", auth.RequireAuth(), auth.RequireRole(entities.RoleAdmin))
	{
		admin.GET("/users", h.Profiles.ListProfiles)
		admin.DELETE("/users/:id", h.Profiles.DeleteProfile)
		admin.GET("/analytics", auth.RequirePermission(entities.PermissionAnalyticsRead), h.Analytics.Dashboard)
		admin.POST("/credits", auth.RequirePermission(entities.PermissionCreditsGrant), h.Credits.Grant)
	}
}

// Health responde ao health check
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/health [get]
func Health(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    env,
		})
	}
}
