// service содержит бизнес-логику галереи: коллекция публикаций,
// состояние просмотра сессии и загрузки.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/go-media-hub/internal/config"
	"github.com/pribylovaa/go-media-hub/internal/gallery"
	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/session"
	"github.com/pribylovaa/go-media-hub/internal/storage"
)

var (
	// ErrInvalidArgument: неверные входные параметры.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound: публикация отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState: операция недопустима в текущем состоянии диалога загрузки.
	ErrInvalidState = errors.New("invalid state")
	// ErrTooLarge: файл больше uploads.max_size_bytes.
	ErrTooLarge = errors.New("too large")
	// ErrAlreadyExists: публикация с таким id уже есть.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInternal: ошибки хранилищ и прочие внутренние.
	ErrInternal = errors.New("internal")
)

// Service: бизнес-логика галереи.
type Service struct {
	media    storage.MediaStorage
	blobs    storage.BlobStorage
	sessions session.Store
	ids      *gallery.IDSource
	cfg      *config.Config
	locks    *keyedMutex
}

// New создаёт Service. ids == nil -> источник на системных часах.
func New(media storage.MediaStorage, blobs storage.BlobStorage, sessions session.Store, cfg *config.Config, ids *gallery.IDSource) *Service {
	if ids == nil {
		ids = gallery.NewIDSource(nil)
	}

	return &Service{
		media:    media,
		blobs:    blobs,
		sessions: sessions,
		ids:      ids,
		cfg:      cfg,
		locks:    newKeyedMutex(),
	}
}

func (s *Service) author() models.Author {
	return models.Author{Name: s.cfg.User.Name, Avatar: s.cfg.User.Avatar}
}

// withView сериализует операции одной сессии: читает состояние, применяет fn
// и сохраняет результат. Если fn вернул ошибку, состояние не сохраняется.
func (s *Service) withView(ctx context.Context, sid string, fn func(models.View) (models.View, error)) (*models.View, error) {
	unlock := s.locks.Lock(sid)
	defer unlock()

	cur, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return nil, err
	}

	next, err := fn(*cur)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, sid, &next); err != nil {
		return nil, err
	}

	return &next, nil
}

// mapErr переводит ошибки нижних слоёв в ошибки сервиса.
// Отмена и дедлайн контекста пробрасываются как есть.
func mapErr(lg *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		lg.Warn("context_done", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidState), errors.Is(err, ErrTooLarge):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, storage.ErrNotFound):
		lg.Warn("not_found")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, storage.ErrAlreadyExists):
		lg.Warn("already_exists")
		return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	case errors.Is(err, storage.ErrInvalidArgument), errors.Is(err, session.ErrInvalidID):
		lg.Warn("invalid_argument", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	case errors.Is(err, gallery.ErrInvalidState):
		lg.Warn("invalid_state", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInvalidState)
	default:
		lg.Error("internal_error", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
}
