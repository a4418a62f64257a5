package minio

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/pribylovaa/go-media-hub/internal/storage"
)

// Put кладёт объект по ключу "uploads/<yyyy>/<mm>/<uuid><ext>" и возвращает его URL.
// Если задан PublicBaseURL: URL строится от него, иначе от endpoint клиента.
func (s *BlobStorage) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	const op = "storage/minio/blobs/Put"

	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	key := objectKey(time.Now().UTC(), name, contentType)

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), mclient.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.publicURL(key), nil
}

func (s *BlobStorage) publicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	}

	return strings.TrimRight(s.client.EndpointURL().String(), "/") + "/" + s.cfg.Bucket + "/" + key
}

// objectKey: расширение берём из content type, иначе из имени файла.
func objectKey(now time.Time, name, contentType string) string {
	ext := ""
	if m := mimetype.Lookup(contentType); m != nil {
		ext = m.Extension()
	}

	if ext == "" {
		ext = strings.ToLower(path.Ext(name))
	}

	return path.Join("uploads", now.Format("2006"), now.Format("01"), uuid.NewString()+ext)
}
