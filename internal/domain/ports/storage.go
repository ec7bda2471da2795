package ports

import (
	"context"
	"io"
	"time"
)

// ObjectStorage abstrai o armazenamento de arquivos hospedado
type ObjectStorage interface {
	// Put grava o conteúdo e retorna a URL pública do objeto
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	// PresignPut retorna uma URL para upload direto pelo navegador
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
