// memory: хранилище коллекции в памяти процесса.
// Каждая мутация применяет чистый редьюсер из internal/gallery под мьютексом;
// наружу всегда отдаются копии.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/pribylovaa/go-media-hub/internal/gallery"
	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/storage"
)

type MediaStorage struct {
	mu    sync.RWMutex
	items []models.MediaItem
}

// New создаёт пустое хранилище.
func New() *MediaStorage {
	return &MediaStorage{items: []models.MediaItem{}}
}

func (s *MediaStorage) List(_ context.Context) ([]models.MediaItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return gallery.CloneAll(s.items), nil
}

func (s *MediaStorage) ByID(_ context.Context, id int64) (*models.MediaItem, error) {
	const op = "storage/memory/ByID"

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := gallery.Find(s.items, id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return &m, nil
}

func (s *MediaStorage) ToggleLike(_ context.Context, id int64) (*models.MediaItem, error) {
	return s.apply("storage/memory/ToggleLike", id, func(items []models.MediaItem) ([]models.MediaItem, bool) {
		return gallery.ToggleLike(items, id)
	})
}

func (s *MediaStorage) ToggleSave(_ context.Context, id int64) (*models.MediaItem, error) {
	return s.apply("storage/memory/ToggleSave", id, func(items []models.MediaItem) ([]models.MediaItem, bool) {
		return gallery.ToggleSave(items, id)
	})
}

func (s *MediaStorage) AppendComment(_ context.Context, id int64, c models.Comment) (*models.MediaItem, error) {
	return s.apply("storage/memory/AppendComment", id, func(items []models.MediaItem) ([]models.MediaItem, bool) {
		return gallery.AppendComment(items, id, c)
	})
}

func (s *MediaStorage) Prepend(_ context.Context, item models.MediaItem) (*models.MediaItem, error) {
	const op = "storage/memory/Prepend"

	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, storage.ErrInvalidArgument, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := gallery.Find(s.items, item.ID); ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	s.items = gallery.Prepend(s.items, item)
	out := gallery.Clone(s.items[0])

	return &out, nil
}

func (s *MediaStorage) Seed(_ context.Context, items []models.MediaItem) (int, error) {
	const op = "storage/memory/Seed"

	for _, m := range items {
		if err := m.Validate(); err != nil {
			return 0, fmt.Errorf("%s: item %d: %w: %v", op, m.ID, storage.ErrInvalidArgument, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) > 0 {
		return 0, nil
	}

	s.items = gallery.CloneAll(items)

	return len(items), nil
}

func (s *MediaStorage) Close() {}

// apply выполняет редьюсер под блокировкой и возвращает копию изменённого элемента.
func (s *MediaStorage) apply(op string, id int64, reduce func([]models.MediaItem) ([]models.MediaItem, bool)) (*models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := reduce(s.items)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	s.items = next

	m, _ := gallery.Find(s.items, id)

	return &m, nil
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.MediaStorage = (*MediaStorage)(nil)
