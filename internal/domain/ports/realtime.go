package ports

import "context"

// Canais entregues pelo WebSocket
const (
	RealtimeNotification = "notification"
	RealtimeMessageSent  = "message"
)

// RealtimeMessage é o payload enviado aos clientes conectados
type RealtimeMessage struct {
	Channel string `json:"channel"` // "notification" | "message"
	Payload any    `json:"payload"`
}

// Broadcaster entrega mensagens em tempo real a um usuário (best-effort)
type Broadcaster interface {
	SendToUser(userID string, msg RealtimeMessage)
}

// RealtimeLoader remonta o payload de uma linha anunciada pelo banco.
// Devolve nil quando a linha não existe mais.
type RealtimeLoader interface {
	LoadRealtime(ctx context.Context, channel, id string) (any, error)
}
