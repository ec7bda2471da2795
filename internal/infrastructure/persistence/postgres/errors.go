package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerrors "github.com/rafabene/marketplace-backend/internal/domain/errors"
)

const uniqueViolation = "23505"

// isNotFound verifica se o erro é "registro não encontrado"
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate detecta violação de unicidade vinda do banco
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// mapWriteError traduz erros de escrita para erros de domínio
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isDuplicate(err) {
		return domainerrors.ErrConflict
	}
	return err
}

func newID() string {
	return uuid.NewString()
}

func nowUnix() int64 {
	return time.Now().Unix()
}

func unixPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ts := t.Unix()
	return &ts
}

func timePtr(ts *int64) *time.Time {
	if ts == nil {
		return nil
	}
	t := time.Unix(*ts, 0)
	return &t
}

// unixOrZero mantém zero para que autoCreateTime/autoUpdateTime preencham o campo
func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
