package services

import (
	"bufio"
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
)

// DefaultMaxUploadBytes é o limite padrão de tamanho de arquivo (10 MiB)
const DefaultMaxUploadBytes = 10 << 20

// allowedImageTypes mapeia os tipos aceitos para a extensão gravada
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadResult descreve um arquivo gravado
type UploadResult struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// PresignResult descreve um upload direto autorizado
type PresignResult struct {
	Key       string
	UploadURL string
	PublicURL string
	ExpiresAt time.Time
}

// UploadService grava imagens enviadas pelos usuários
type UploadService struct {
	storage    ports.ObjectStorage
	maxBytes   int64
	presignTTL time.Duration
	logger     ports.Logger
}

// NewUploadService cria um novo UploadService
func NewUploadService(storage ports.ObjectStorage, maxBytes int64, presignTTL time.Duration, logger ports.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &UploadService{storage: storage, maxBytes: maxBytes, presignTTL: presignTTL, logger: logger}
}

// Upload grava o arquivo em uploads/<usuário>/<uuid><ext>.
// O tipo é detectado pelo conteúdo; o Content-Type enviado pelo cliente é ignorado.
func (s *UploadService) Upload(ctx context.Context, userID string, body io.Reader, size int64) (*UploadResult, error) {
	if size > s.maxBytes {
		return nil, errors.ErrFileTooLarge
	}

	reader := bufio.NewReaderSize(body, 3072)
	head, err := reader.Peek(3072)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}

	contentType := mimetype.Detect(head).String()
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, errors.ErrUnsupportedMediaType
	}

	key := objectKey(userID, ext)
	url, err := s.storage.Put(ctx, key, io.LimitReader(reader, s.maxBytes), size, contentType)
	if err != nil {
		s.logger.Error("failed to store upload", "key", key, "error", err)
		return nil, err
	}

	s.logger.Info("file uploaded", "user_id", userID, "key", key, "size", size)
	return &UploadResult{Key: key, URL: url, ContentType: contentType, Size: size}, nil
}

// PresignUpload autoriza o navegador a enviar o arquivo direto ao storage
func (s *UploadService) PresignUpload(ctx context.Context, userID, filename, contentType string) (*PresignResult, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, errors.ErrUnsupportedMediaType
	}
	if e := strings.ToLower(path.Ext(filename)); e == ".jpeg" && ext == ".jpg" {
		ext = e
	}

	key := objectKey(userID, ext)
	url, err := s.storage.PresignPut(ctx, key, contentType, s.presignTTL)
	if err != nil {
		return nil, err
	}
	return &PresignResult{
		Key:       key,
		UploadURL: url,
		PublicURL: s.storage.PublicURL(key),
		ExpiresAt: time.Now().Add(s.presignTTL),
	}, nil
}

// MaxBytes retorna o limite de tamanho configurado
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

func objectKey(userID, ext string) string {
	return "uploads/" + userID + "/" + uuid.NewString() + ext
}
