package entities

import "time"

// Conversation é uma conversa entre dois usuários.
// ParticipantA < ParticipantB para garantir unicidade do par.
type Conversation struct {
	ID            string
	ParticipantA  string
	ParticipantB  string
	LastMessageAt *time.Time
	CreatedAt     time.Time
}

// NewConversationPair ordena os participantes
func NewConversationPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// HasParticipant verifica se o usuário faz parte da conversa
func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// Other retorna o outro participante
func (c *Conversation) Other(userID string) string {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// Message é uma mensagem dentro de uma conversa
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Body           string
	ReadAt         *time.Time
	CreatedAt      time.Time
}
