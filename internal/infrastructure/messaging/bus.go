package messaging

import (
	"context"
	"sync"

	"github.com/rafabene/marketplace-backend/internal/domain/ports"
)

// InProcessBus entrega eventos diretamente aos handlers registrados.
// Usado quando não há RabbitMQ configurado (desenvolvimento e testes).
type InProcessBus struct {
	mu       sync.RWMutex
	handlers []ports.EventHandler
	logger   ports.Logger
}

// NewInProcessBus cria um barramento em memória
func NewInProcessBus(logger ports.Logger) *InProcessBus {
	return &InProcessBus{logger: logger}
}

// Subscribe registra um handler para todos os eventos
func (b *InProcessBus) Subscribe(handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Publish chama os handlers em sequência. Erros são registrados e não
// propagados: a operação que originou o evento já foi concluída.
func (b *InProcessBus) Publish(ctx context.Context, event ports.DomainEvent) error {
	b.mu.RLock()
	handlers := make([]ports.EventHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			b.logger.Error("event handler failed", "key", event.Key, "event_id", event.ID, "error", err)
		}
	}
	return nil
}
