// inline реализует storage.BlobStorage без внешнего хранилища:
// содержимое встраивается в ссылку как data URL (RFC 2397).
package inline

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/pribylovaa/go-media-hub/internal/storage"
)

type BlobStorage struct{}

func New() *BlobStorage { return &BlobStorage{} }

// Put возвращает data:<content-type>;base64,<payload>.
func (b *BlobStorage) Put(_ context.Context, _ string, contentType string, data []byte) (string, error) {
	const op = "storage/inline/Put"

	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	return DataURL(contentType, data), nil
}

// DataURL собирает data URL; пустой тип заменяется на application/octet-stream.
func DataURL(contentType string, data []byte) string {
	ct := strings.TrimSpace(contentType)
	if ct == "" {
		ct = "application/octet-stream"
	}

	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(data)
}

var _ storage.BlobStorage = (*BlobStorage)(nil)
