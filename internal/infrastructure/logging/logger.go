package logging

import (
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/config"
)

// New escolhe o backend de log conforme a configuração.
// O retorno cleanup deve ser chamado no encerramento.
func New(cfg config.LoggingConfig) (ports.Logger, func() error, error) {
	if cfg.Backend == "zap" {
		logger, err := NewZapLogger(cfg.Level, cfg.File)
		if err != nil {
			return nil, nil, err
		}
		return logger, logger.Sync, nil
	}
	return NewSlogLogger(cfg.Level), func() error { return nil }, nil
}

// Nop descarta tudo; usado em testes
type Nop struct{}

func (Nop) Info(string, ...any) {}
func (Nop) Error(string, ...any) {}
func (Nop) Debug(string, ...any) {}
func (Nop) Warn(string, ...any) {}

func (n Nop) With(...any) ports.Logger { return n }

// NewNopLogger retorna um logger que descarta tudo
func NewNopLogger() ports.Logger {
	return Nop{}
}
