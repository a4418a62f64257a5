// storage описывает контракты хранилищ галереи: коллекцию публикаций
// и хранилище содержимого загрузок.
package storage

//go:generate mockgen -source=storage.go -destination=../../mocks/storage.go -package=mocks

import (
	"context"
	"errors"

	"github.com/pribylovaa/go-media-hub/internal/models"
)

var (
	// ErrNotFound: элемент с таким id отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists: элемент с таким id уже есть.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument: нарушены инварианты записываемого элемента.
	ErrInvalidArgument = errors.New("invalid argument")
)

// MediaStorage: коллекция публикаций.
// Порядок выдачи: сначала новые (последний Prepend идёт первым).
type MediaStorage interface {
	// List возвращает всю коллекцию в порядке отображения.
	List(ctx context.Context) ([]models.MediaItem, error)

	// ByID возвращает элемент по id. Если нет: ErrNotFound.
	ByID(ctx context.Context, id int64) (*models.MediaItem, error)

	// ToggleLike атомарно инвертирует is_liked и сдвигает likes на ±1.
	// Если нет: ErrNotFound.
	ToggleLike(ctx context.Context, id int64) (*models.MediaItem, error)

	// ToggleSave атомарно инвертирует is_saved. Если нет: ErrNotFound.
	ToggleSave(ctx context.Context, id int64) (*models.MediaItem, error)

	// AppendComment дописывает комментарий в конец. Если нет: ErrNotFound.
	AppendComment(ctx context.Context, id int64, c models.Comment) (*models.MediaItem, error)

	// Prepend добавляет новый элемент в начало коллекции.
	// Возможные ошибки: ErrAlreadyExists, ErrInvalidArgument.
	Prepend(ctx context.Context, item models.MediaItem) (*models.MediaItem, error)

	// Seed заполняет пустое хранилище стартовым набором (в порядке отображения).
	// Непустое хранилище не трогается. Возвращает число вставленных элементов.
	Seed(ctx context.Context, items []models.MediaItem) (int, error)

	// Close освобождает ресурсы хранилища.
	Close()
}

// BlobStorage превращает байты загрузки в ссылку на основное содержимое.
type BlobStorage interface {
	// Put сохраняет содержимое и возвращает URL (или data URL).
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}
