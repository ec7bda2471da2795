package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rafabene/marketplace-backend/internal/domain/ports"
)

// ConnectionServer mantém conexões websocket por usuário
type ConnectionServer interface {
	Serve(userID string, conn *websocket.Conn)
}

// RealtimeHandler faz o upgrade de /ws e entrega a conexão ao hub
type RealtimeHandler struct {
	hub      ConnectionServer
	upgrader websocket.Upgrader
	logger   ports.Logger
}

// NewRealtimeHandler cria um novo RealtimeHandler.
// allowedOrigins segue a mesma configuração do CORS ("*" libera todas).
func NewRealtimeHandler(hub ConnectionServer, allowedOrigins string, logger ports.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowedOrigins string) func(r *http.Request) bool {
	if strings.TrimSpace(allowedOrigins) == "*" {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]bool)
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// clientes nativos não enviam Origin
		return origin == "" || allowed[origin]
	}
}

// Serve faz o upgrade da conexão; o usuário já foi autenticado pelo middleware
//
//	@Summary		Canal em tempo real
//	@Description	Websocket com mensagens {"channel": "notification"|"message", "payload": {...}}. O token pode ir em ?access_token=
//	@Tags			realtime
//	@Security		BearerAuth
//	@Success		101
//	@Router			/ws [get]
func (h *RealtimeHandler) Serve(c *gin.Context) {
	user := currentUser(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade já respondeu ao cliente
		h.logger.Warn("websocket upgrade failed", "user_id", user.ID, "error", err)
		return
	}

	h.hub.Serve(user.ID, conn)
}
