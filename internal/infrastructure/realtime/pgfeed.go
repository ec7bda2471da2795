package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/rafabene/marketplace-backend/internal/domain/ports"
)

// notifyPayload é o JSON emitido pelos triggers de notifications/messages.
// Só identificadores: o NOTIFY é limitado a 8000 bytes.
type notifyPayload struct {
	UserID  string `json:"user_id"`
	Channel string `json:"channel"`
	ID      string `json:"id"`
}

// PGFeed escuta LISTEN/NOTIFY, carrega a linha anunciada e a repassa ao Broadcaster.
// Permite que várias réplicas da API entreguem eventos gravados por qualquer uma.
type PGFeed struct {
	dsn         string
	channel     string
	loader      ports.RealtimeLoader
	broadcaster ports.Broadcaster
	logger      ports.Logger
}

// NewPGFeed cria o feed para o canal informado
func NewPGFeed(dsn, channel string, loader ports.RealtimeLoader, broadcaster ports.Broadcaster, logger ports.Logger) *PGFeed {
	return &PGFeed{dsn: dsn, channel: channel, loader: loader, broadcaster: broadcaster, logger: logger}
}

// Run bloqueia até o contexto ser cancelado
func (f *PGFeed) Run(ctx context.Context) error {
	listener := pq.NewListener(f.dsn, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			f.logger.Warn("realtime listener event", "event", int(ev), "error", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(f.channel); err != nil {
		return err
	}
	f.logger.Info("realtime feed listening", "channel", f.channel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil após reconexão: eventos podem ter sido perdidos
			if n == nil {
				f.logger.Warn("realtime listener reconnected")
				continue
			}
			f.dispatch(ctx, n.Extra)
		case <-time.After(90 * time.Second):
			go func() { _ = listener.Ping() }()
		}
	}
}

func (f *PGFeed) dispatch(ctx context.Context, raw string) {
	var p notifyPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		f.logger.Warn("invalid realtime payload", "error", err)
		return
	}
	if p.UserID == "" || p.ID == "" {
		return
	}

	payload, err := f.loader.LoadRealtime(ctx, p.Channel, p.ID)
	if err != nil {
		f.logger.Warn("failed to load realtime record", "channel", p.Channel, "id", p.ID, "error", err)
		return
	}
	if payload == nil {
		f.logger.Debug("realtime record not found", "channel", p.Channel, "id", p.ID)
		return
	}
	f.broadcaster.SendToUser(p.UserID, ports.RealtimeMessage{Channel: p.Channel, Payload: payload})
}
