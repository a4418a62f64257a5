package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pribylovaa/go-media-hub/internal/gallery"
	"github.com/pribylovaa/go-media-hub/internal/metrics"
	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/pkg/log"
	"github.com/pribylovaa/go-media-hub/internal/storage"
)

// ToggleLike переключает отметку «нравится».
// Для отсутствующего элемента возвращается (nil, nil).
// Копия в детальном просмотре не обновляется.
func (s *Service) ToggleLike(ctx context.Context, sid string, id int64) (*models.MediaItem, error) {
	const op = "service/media/ToggleLike"

	lg := log.From(ctx).With("op", op, "session_id", sid, "id", id)

	item, err := s.media.ToggleLike(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Debug("toggle_like_noop")
			metrics.Mutation("toggle_like", metrics.ResultNoop)
			return nil, nil
		}
		metrics.Mutation("toggle_like", metrics.ResultError)
		return nil, mapErr(lg, op, err)
	}

	metrics.Mutation("toggle_like", metrics.ResultOK)
	lg.Debug("toggle_like_ok", "liked", item.IsLiked, "likes", item.Likes)

	return item, nil
}

// ToggleSave переключает отметку «сохранено». Поведение как у ToggleLike.
func (s *Service) ToggleSave(ctx context.Context, sid string, id int64) (*models.MediaItem, error) {
	const op = "service/media/ToggleSave"

	lg := log.From(ctx).With("op", op, "session_id", sid, "id", id)

	item, err := s.media.ToggleSave(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Debug("toggle_save_noop")
			metrics.Mutation("toggle_save", metrics.ResultNoop)
			return nil, nil
		}
		metrics.Mutation("toggle_save", metrics.ResultError)
		return nil, mapErr(lg, op, err)
	}

	metrics.Mutation("toggle_save", metrics.ResultOK)
	lg.Debug("toggle_save_ok", "saved", item.IsSaved)

	return item, nil
}

// SubmitComment добавляет комментарий от локального пользователя.
//
// Текст берётся из text, а если он nil: из черновика сессии.
// Пустой после TrimSpace текст и отсутствующий элемент дают (nil, nil).
// При успехе комментарий дописывается и в копию детального просмотра
// (если открыт тот же элемент), черновик очищается, в очередь ставится уведомление.
func (s *Service) SubmitComment(ctx context.Context, sid string, id int64, text *string) (*models.MediaItem, error) {
	const op = "service/media/SubmitComment"

	lg := log.From(ctx).With("op", op, "session_id", sid, "id", id)

	unlock := s.locks.Lock(sid)
	defer unlock()

	v, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	body := v.CommentDraft
	if text != nil {
		body = *text
	}

	body = strings.TrimSpace(body)
	if body == "" {
		lg.Debug("submit_comment_blank")
		metrics.Mutation("submit_comment", metrics.ResultNoop)
		return nil, nil
	}

	me := s.author()
	c := models.Comment{
		ID:           s.ids.Next(),
		Author:       me.Name,
		AuthorAvatar: me.Avatar,
		Text:         body,
		Timestamp:    models.JustNow,
	}

	item, err := s.media.AppendComment(ctx, id, c)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Debug("submit_comment_noop")
			metrics.Mutation("submit_comment", metrics.ResultNoop)
			return nil, nil
		}
		metrics.Mutation("submit_comment", metrics.ResultError)
		return nil, mapErr(lg, op, err)
	}

	next := gallery.MirrorComment(*v, id, c)
	next.CommentDraft = ""
	next = gallery.Notify(next, models.Notification{
		Level:   models.NotifySuccess,
		Title:   "Comment added",
		Message: "Your comment has been published",
	})

	if err := s.sessions.Save(ctx, sid, &next); err != nil {
		// Комментарий уже записан; теряется только состояние просмотра.
		lg.Error("save_view_failed", "err", err)
	}

	metrics.Mutation("submit_comment", metrics.ResultOK)
	lg.Info("submit_comment_ok", "comment_id", c.ID)

	return item, nil
}
