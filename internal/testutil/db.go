// Package testutil reúne helpers compartilhados pelos testes
package testutil

import (
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rafabene/marketplace-backend/internal/infrastructure/persistence/postgres"
)

// TB é o subconjunto de testing.TB usado pelos helpers (compatível com GinkgoT)
type TB interface {
	Helper()
	TempDir() string
	Fatalf(format string, args ...any)
	Cleanup(func())
}

// NewSQLiteDB abre um banco SQLite em arquivo temporário com o schema migrado.
// Os repositórios usam apenas SQL portável, então servem para testes sem Postgres.
func NewSQLiteDB(t TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), postgres.GormConfig(gormlogger.Discard))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := postgres.Migrate(db, false); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}
