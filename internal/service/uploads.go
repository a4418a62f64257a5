package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pribylovaa/go-media-hub/internal/gallery"
	"github.com/pribylovaa/go-media-hub/internal/metrics"
	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/pkg/log"
)

// UploadInput: разовая загрузка без диалога.
type UploadInput struct {
	Title string
	File  models.UploadFile
}

// OpenUpload открывает диалог загрузки.
func (s *Service) OpenUpload(ctx context.Context, sid string) (*models.View, error) {
	const op = "service/uploads/OpenUpload"

	lg := log.From(ctx).With("op", op, "session_id", sid)

	v, err := s.withView(ctx, sid, func(v models.View) (models.View, error) {
		return gallery.OpenUpload(v), nil
	})
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	return v, nil
}

// SetUploadTitle меняет заголовок в открытом диалоге.
func (s *Service) SetUploadTitle(ctx context.Context, sid, title string) (*models.View, error) {
	const op = "service/uploads/SetUploadTitle"

	lg := log.From(ctx).With("op", op, "session_id", sid)

	v, err := s.withView(ctx, sid, func(v models.View) (models.View, error) {
		return gallery.SetUploadTitle(v, title)
	})
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	return v, nil
}

// SelectUploadFile выбирает файл в диалоге. Тип и размер проверяются сразу.
func (s *Service) SelectUploadFile(ctx context.Context, sid string, f models.UploadFile) (*models.View, error) {
	const op = "service/uploads/SelectUploadFile"

	lg := log.From(ctx).With("op", op, "session_id", sid, "file", f.Name)

	if len(f.Data) == 0 {
		lg.Warn("invalid argument: empty file")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	f, err := s.checkFile(lg, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	v, err := s.withView(ctx, sid, func(v models.View) (models.View, error) {
		return gallery.SelectFile(v, f)
	})
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	return v, nil
}

// RemoveUploadFile снимает выбор файла, заголовок сохраняется.
func (s *Service) RemoveUploadFile(ctx context.Context, sid string) (*models.View, error) {
	const op = "service/uploads/RemoveUploadFile"

	lg := log.From(ctx).With("op", op, "session_id", sid)

	v, err := s.withView(ctx, sid, func(v models.View) (models.View, error) {
		return gallery.RemoveFile(v)
	})
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	return v, nil
}

// CancelUpload закрывает диалог со сбросом полей.
func (s *Service) CancelUpload(ctx context.Context, sid string) (*models.View, error) {
	const op = "service/uploads/CancelUpload"

	lg := log.From(ctx).With("op", op, "session_id", sid)

	v, err := s.withView(ctx, sid, func(v models.View) (models.View, error) {
		return gallery.CloseUpload(v), nil
	})
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	return v, nil
}

// SubmitUpload отправляет диалог загрузки.
//
// Поведение/ошибки:
//   - диалог закрыт -> ErrInvalidState;
//   - пустой заголовок или нет файла -> ErrInvalidArgument, в очередь ставится
//     уведомление об ошибке, коллекция не меняется;
//   - при успехе элемент добавляется в начало, диалог закрывается и сбрасывается,
//     в очередь ставится уведомление об успехе.
func (s *Service) SubmitUpload(ctx context.Context, sid string) (*models.MediaItem, error) {
	const op = "service/uploads/SubmitUpload"

	lg := log.From(ctx).With("op", op, "session_id", sid)

	unlock := s.locks.Lock(sid)
	defer unlock()

	v, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	if err := gallery.ValidateUpload(v.Upload); err != nil {
		if errors.Is(err, gallery.ErrInvalidState) {
			return nil, mapErr(lg, op, err)
		}

		lg.Warn("upload_invalid_argument", "err", err)
		metrics.Mutation("upload", metrics.ResultInvalid)
		s.notifyError(ctx, lg, sid, *v, "Upload failed", uploadHint(err))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	item, err := s.createItem(ctx, lg, v.Upload.Title, *v.Upload.File)
	if err != nil {
		s.notifyError(ctx, lg, sid, *v, "Upload failed", "Could not publish the file")
		return nil, mapErr(lg, op, err)
	}

	next := gallery.CloseUpload(*v)
	next = gallery.Notify(next, models.Notification{
		Level:   models.NotifySuccess,
		Title:   "Uploaded",
		Message: fmt.Sprintf("%q has been published", item.Title),
	})

	if err := s.sessions.Save(ctx, sid, &next); err != nil {
		lg.Error("save_view_failed", "err", err)
	}

	return item, nil
}

// Upload: разовая загрузка (title + file), минуя диалог сессии.
// Проверки те же, что у SubmitUpload; состояние просмотра не меняется.
func (s *Service) Upload(ctx context.Context, sid string, in UploadInput) (*models.MediaItem, error) {
	const op = "service/uploads/Upload"

	lg := log.From(ctx).With("op", op, "session_id", sid, "file", in.File.Name)

	unlock := s.locks.Lock(sid)
	defer unlock()

	item, err := s.createItem(ctx, lg, in.Title, in.File)
	if err != nil {
		return nil, mapErr(lg, op, err)
	}

	return item, nil
}

// createItem проверяет файл, сохраняет содержимое и добавляет публикацию в начало.
func (s *Service) createItem(ctx context.Context, lg *slog.Logger, title string, f models.UploadFile) (*models.MediaItem, error) {
	title = strings.TrimSpace(title)
	if err := gallery.ValidateUploadInput(title, &f); err != nil {
		lg.Warn("upload_invalid_argument", "err", err)
		metrics.Mutation("upload", metrics.ResultInvalid)
		return nil, ErrInvalidArgument
	}

	f, err := s.checkFile(lg, f)
	if err != nil {
		metrics.Mutation("upload", metrics.ResultInvalid)
		return nil, err
	}

	url, err := s.blobs.Put(ctx, f.Name, f.ContentType, f.Data)
	if err != nil {
		metrics.Mutation("upload", metrics.ResultError)
		return nil, fmt.Errorf("put blob: %w", err)
	}

	me := s.author()
	item := models.MediaItem{
		ID:           s.ids.Next(),
		Kind:         models.KindFromContentType(f.ContentType),
		URL:          url,
		Title:        title,
		Author:       me.Name,
		AuthorAvatar: me.Avatar,
	}
	if item.Kind == models.KindVideo {
		item.Thumbnail = s.cfg.Uploads.VideoThumbnailURL
	}

	created, err := s.media.Prepend(ctx, item)
	if err != nil {
		metrics.Mutation("upload", metrics.ResultError)
		return nil, fmt.Errorf("prepend: %w", err)
	}

	metrics.Mutation("upload", metrics.ResultOK)
	metrics.Upload(created.Kind.String(), f.Size)
	lg.Info("upload_ok", "id", created.ID, "kind", created.Kind, "size", f.Size)

	return created, nil
}

// checkFile нормализует тип содержимого и проверяет допустимость файла.
// Если тип не объявлен (или application/octet-stream), он определяется по байтам.
func (s *Service) checkFile(lg *slog.Logger, f models.UploadFile) (models.UploadFile, error) {
	f.Size = int64(len(f.Data))

	if limit := s.cfg.Uploads.MaxSizeBytes; limit > 0 && f.Size > limit {
		lg.Warn("upload_too_large", "size", f.Size, "limit", limit)
		return f, ErrTooLarge
	}

	ct := baseType(f.ContentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = baseType(mimetype.Detect(f.Data).String())
	}
	f.ContentType = ct

	if !s.allowed(ct) {
		lg.Warn("upload_unsupported_type", "content_type", ct)
		return f, ErrInvalidArgument
	}

	return f, nil
}

func (s *Service) allowed(ct string) bool {
	for _, p := range s.cfg.Uploads.AllowedPrefixes {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.HasPrefix(ct, p) {
			return true
		}
	}

	return false
}

// notifyError ставит уведомление об ошибке в исходное состояние сессии.
// Ошибка сохранения только логируется: основная ошибка важнее.
func (s *Service) notifyError(ctx context.Context, lg *slog.Logger, sid string, v models.View, title, msg string) {
	next := gallery.Notify(v, models.Notification{Level: models.NotifyError, Title: title, Message: msg})
	if err := s.sessions.Save(ctx, sid, &next); err != nil {
		lg.Error("save_view_failed", "err", err)
	}
}

func uploadHint(err error) string {
	switch {
	case errors.Is(err, gallery.ErrMissingTitle):
		return "Please enter a title"
	case errors.Is(err, gallery.ErrMissingFile):
		return "Please choose a file"
	default:
		return err.Error()
	}
}

func baseType(ct string) string {
	ct, _, _ = strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}
