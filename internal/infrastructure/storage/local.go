package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	domainerrors "github.com/rafabene/marketplace-backend/internal/domain/errors"
)

// LocalStorage implementa ports.ObjectStorage no sistema de arquivos.
// Usado em desenvolvimento; os arquivos são servidos pela própria API.
type LocalStorage struct {
	basePath      string
	publicBaseURL string
}

// NewLocalStorage cria o diretório base se necessário
func NewLocalStorage(basePath, publicBaseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &LocalStorage{
		basePath:      basePath,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// BasePath retorna o diretório servido estaticamente
func (l *LocalStorage) BasePath() string {
	return l.basePath
}

func (l *LocalStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dest, err := l.fullPath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(body, size)); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("write file: %w", err)
	}
	return l.PublicURL(key), nil
}

func (l *LocalStorage) PresignPut(context.Context, string, string, time.Duration) (string, error) {
	return "", domainerrors.ErrPresignUnavailable
}

func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := l.fullPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *LocalStorage) PublicURL(key string) string {
	return l.publicBaseURL + "/" + escapeKey(key)
}

// fullPath impede que a chave escape do diretório base
func (l *LocalStorage) fullPath(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(l.basePath, clean), nil
}
