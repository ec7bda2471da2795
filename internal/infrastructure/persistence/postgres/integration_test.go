//go:build integration

package postgres_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/logging"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/realtime"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// startPostgres sobe um PostgreSQL descartável e aplica o schema com os triggers
func startPostgres(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("marketplace"),
		tcpostgres.WithUsername("marketplace"),
		tcpostgres.WithPassword("marketplace"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), postgres.GormConfig(gormlogger.Discard))
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db, true))
	return db, dsn
}

type delivery struct {
	userID string
	msg    ports.RealtimeMessage
}

type chanBroadcaster struct {
	got chan delivery
}

func (b *chanBroadcaster) SendToUser(userID string, msg ports.RealtimeMessage) {
	select {
	case b.got <- delivery{userID: userID, msg: msg}:
	default:
	}
}

func TestPostgres_Integration(t *testing.T) {
	db, dsn := startPostgres(t)
	ctx := context.Background()

	t.Run("conflitos e estoque usam os códigos do PostgreSQL", func(t *testing.T) {
		user := newUser(t, db, "dddddddd-0000-0000-0000-000000000001", "integration@example.com")
		err := postgres.NewUserRepository(db).Create(ctx, &entities.User{ID: "dddddddd-0000-0000-0000-000000000002", Email: user.Email, Name: "Dup", Role: entities.RoleUser})
		assert.ErrorIs(t, err, domainerrors.ErrConflict)

		products := postgres.NewProductRepository(db)
		p := newProduct(t, products, user.ID, "Ceramic Bowl", "320.00", 1)
		assert.ErrorIs(t, products.AdjustStock(ctx, p.ID, -2), domainerrors.ErrInsufficientStock)

		list, total, err := products.List(ctx, repositories.ProductFilters{Words: []string{"CERAMIC"}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, list, 1)
	})

	t.Run("painel agregado via sqlx", func(t *testing.T) {
		sqlDB, err := db.DB()
		require.NoError(t, err)

		dashboard, err := postgres.NewAnalyticsRepository(sqlx.NewDb(sqlDB, "pgx")).Dashboard(ctx, time.Now().AddDate(0, 0, -7), 5)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, dashboard.Users, int64(1))
		assert.GreaterOrEqual(t, dashboard.Products, int64(1))
		assert.True(t, dashboard.Revenue.Equal(decimal.Zero))
	})

	t.Run("trigger de notificação chega ao feed com o corpo completo", func(t *testing.T) {
		broadcaster := &chanBroadcaster{got: make(chan delivery, 1)}
		notifications := postgres.NewNotificationRepository(db)
		loader := services.NewRealtimeRecords(notifications, postgres.NewMessageRepository(db))
		feed := realtime.NewPGFeed(dsn, postgres.RealtimeChannel, loader, broadcaster, logging.NewNopLogger())

		feedCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() { _ = feed.Run(feedCtx) }()

		userID := "dddddddd-0000-0000-0000-000000000001"
		// multibyte: passaria de 8000 bytes se fosse no NOTIFY
		body := strings.Repeat("ç", 5000)

		// o listener conecta de forma assíncrona; repete o insert até ser ouvido
		require.Eventually(t, func() bool {
			err := notifications.Create(ctx, &entities.Notification{
				UserID: userID,
				Type:   entities.NotificationCredits,
				Title:  "Credits received",
				Body:   body,
			})
			if err != nil {
				return false
			}
			select {
			case got := <-broadcaster.got:
				payload, ok := got.msg.Payload.(map[string]any)
				return got.userID == userID && got.msg.Channel == ports.RealtimeNotification &&
					ok && payload["body"] == body
			case <-time.After(500 * time.Millisecond):
				return false
			}
		}, 15*time.Second, 100*time.Millisecond)
	})
}
