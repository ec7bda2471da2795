package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/config"
)

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("put grava o arquivo e retorna a URL pública", func(t *testing.T) {
		url, err := store.Put(ctx, "products/p1/foto 1.png", strings.NewReader("png-bytes"), 9, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/uploads/products/p1/foto%201.png", url)

		data, err := os.ReadFile(filepath.Join(dir, "products", "p1", "foto 1.png"))
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(data))
	})

	t.Run("chave com .. não escapa do diretório base", func(t *testing.T) {
		_, err := store.Put(ctx, "../../etc/evil", strings.NewReader("x"), 1, "text/plain")
		require.NoError(t, err)
		_, statErr := os.Stat(filepath.Join(dir, "etc", "evil"))
		assert.NoError(t, statErr)
	})

	t.Run("delete é idempotente", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "products/p1/foto 1.png"))
		require.NoError(t, store.Delete(ctx, "products/p1/foto 1.png"))
	})

	t.Run("presign não é suportado", func(t *testing.T) {
		_, err := store.PresignPut(ctx, "k", "image/png", time.Minute)
		assert.True(t, errors.Is(err, domainerrors.ErrPresignUnavailable))
	})
}

func TestS3PublicBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{"url pública configurada", config.StorageConfig{PublicBaseURL: "https://cdn.example.com/", Bucket: "b"}, "https://cdn.example.com"},
		{"endpoint customizado", config.StorageConfig{Endpoint: "http://minio:9000", Bucket: "media"}, "http://minio:9000/media"},
		{"padrão aws", config.StorageConfig{Bucket: "media", Region: "ap-southeast-1"}, "https://media.s3.ap-southeast-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s3PublicBase(tt.cfg))
		})
	}
}
