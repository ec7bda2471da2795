package postgres

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/config"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	connectAttempts    = 5
)

// GormConfig retorna a configuração GORM compartilhada (também usada nos testes)
func GormConfig(log logger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger: log,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	}
}

// NewDatabaseConnection abre o pool e espera o banco responder.
// O ping é repetido com backoff para tolerar o banco subindo junto com a API.
func NewDatabaseConnection(cfg *config.DatabaseConfig, log ports.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), GormConfig(NewGormLogger(log, logger.Warn)))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MinConns)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.MaxIdleTime) * time.Second)

	backoff := 500 * time.Millisecond
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = sqlDB.PingContext(ctx)
		cancel()
		if err == nil {
			break
		}
		if attempt == connectAttempts {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to ping database after %d attempts: %w", attempt, err)
		}
		log.Warn("database not ready, retrying", "attempt", attempt, "error", err)
		time.Sleep(backoff)
		backoff *= 2
	}

	log.Info("database connected successfully",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DBName,
	)
	return db, nil
}

// GormLogger envia os logs do GORM para o ports.Logger da aplicação
type GormLogger struct {
	log   ports.Logger
	level logger.LogLevel
}

// NewGormLogger cria o adaptador com o nível mínimo informado
func NewGormLogger(log ports.Logger, level logger.LogLevel) *GormLogger {
	return &GormLogger{log: log, level: level}
}

func (g *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &GormLogger{log: g.log, level: level}
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Info {
		ports.LoggerFromContext(ctx, g.log).Info(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Warn {
		ports.LoggerFromContext(ctx, g.log).Warn(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Error {
		ports.LoggerFromContext(ctx, g.log).Error(fmt.Sprintf(msg, args...))
	}
}

// Trace registra erros de SQL e consultas lentas; "record not found" não é erro
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	log := ports.LoggerFromContext(ctx, g.log)

	switch {
	case err != nil && g.level >= logger.Error && !stdErrors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.Error("query failed", "sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds(), "error", err)
	case elapsed > slowQueryThreshold && g.level >= logger.Warn:
		sql, rows := fc()
		log.Warn("slow query", "sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds())
	case g.level >= logger.Info:
		sql, rows := fc()
		log.Debug("query", "sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds())
	}
}

var _ logger.Interface = (*GormLogger)(nil)
