package service

import (
	"context"
	"fmt"

	"github.com/pribylovaa/go-media-hub/internal/gallery"
	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/pkg/log"
	"github.com/pribylovaa/go-media-hub/internal/session"
)

// View возвращает состояние просмотра сессии. Накопленные уведомления
// отдаются один раз: в сохранённом состоянии очередь очищается.
func (s *Service) View(ctx context.Context, sid string) (*models.View, error) {
	const op = "service/view/View"

	lg := log.From(ctx).With("op", op, "session_id", sid)

	var snapshot models.View
	_, err := s.withView(ctx, sid, func(v models.View) (models.View, error) {
		snapshot = gallery.CloneView(v)
		drained, _ := gallery.Drain(v)
		return drained, nil
	})
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	return &snapshot, nil
}

// ResetView удаляет состояние сессии и возвращает состояние новой сессии:
// вкладка по умолчанию, без детального просмотра, черновика и диалога.
func (s *Service) ResetView(ctx context.Context, sid string) (*models.View, error) {
	const op = "service/view/ResetView"

	lg := log.From(ctx).With("op", op, "session_id", sid)

	if !session.ValidID(sid) {
		lg.Warn("invalid argument: session id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	unlock := s.locks.Lock(sid)
	defer unlock()

	if err := s.sessions.Delete(ctx, sid); err != nil {
		return nil, mapErr(lg, op, err)
	}

	lg.Info("view_reset")

	return models.NewView(), nil
}

// Feed возвращает проекцию коллекции для вкладки и саму вкладку.
// tab == nil -> активная вкладка сессии.
func (s *Service) Feed(ctx context.Context, sid string, tab *models.Tab) (models.Tab, []models.MediaItem, error) {
	const op = "service/view/Feed"

	lg := log.From(ctx).With("op", op, "session_id", sid)

	var t models.Tab
	if tab != nil {
		if !tab.IsValid() {
			lg.Warn("invalid argument: unknown tab", "tab", *tab)
			return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
		t = *tab
	} else {
		v, err := s.sessions.Get(ctx, sid)
		if err != nil {
			return "", nil, mapErr(lg, op, err)
		}
		t = v.Tab
		if !t.IsValid() {
			t = models.DefaultTab
		}
	}

	items, err := s.media.List(ctx)
	if err != nil {
		return "", nil, mapErr(lg, op, err)
	}

	return t, gallery.Filter(items, t), nil
}

// SetTab переключает активную вкладку сессии.
func (s *Service) SetTab(ctx context.Context, sid string, tab models.Tab) (*models.View, error) {
	const op = "service/view/SetTab"

	lg := log.From(ctx).With("op", op, "session_id", sid, "tab", tab)

	if !tab.IsValid() {
		lg.Warn("invalid argument: unknown tab")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	v, err := s.withView(ctx, sid, func(v models.View) (models.View, error) {
		return gallery.SetTab(v, tab), nil
	})
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	return v, nil
}

// Item возвращает одну публикацию.
func (s *Service) Item(ctx context.Context, id int64) (*models.MediaItem, error) {
	const op = "service/view/Item"

	lg := log.From(ctx).With("op", op, "id", id)

	item, err := s.media.ByID(ctx, id)
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	return item, nil
}

// Open открывает детальный просмотр: в сессию кладётся копия элемента.
func (s *Service) Open(ctx context.Context, sid string, id int64) (*models.View, error) {
	const op = "service/view/Open"

	lg := log.From(ctx).With("op", op, "session_id", sid, "id", id)

	item, err := s.media.ByID(ctx, id)
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	v, err := s.withView(ctx, sid, func(v models.View) (models.View, error) {
		return gallery.Open(v, *item), nil
	})
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	return v, nil
}

// Close закрывает детальный просмотр.
func (s *Service) Close(ctx context.Context, sid string) (*models.View, error) {
	const op = "service/view/Close"

	lg := log.From(ctx).With("op", op, "session_id", sid)

	v, err := s.withView(ctx, sid, func(v models.View) (models.View, error) {
		return gallery.Close(v), nil
	})
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	return v, nil
}

// SetCommentDraft запоминает набираемый текст комментария.
func (s *Service) SetCommentDraft(ctx context.Context, sid, text string) (*models.View, error) {
	const op = "service/view/SetCommentDraft"

	lg := log.From(ctx).With("op", op, "session_id", sid)

	v, err := s.withView(ctx, sid, func(v models.View) (models.View, error) {
		return gallery.SetDraft(v, text), nil
	})
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	return v, nil
}
