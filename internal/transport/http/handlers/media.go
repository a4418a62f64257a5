package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/service"
	"github.com/pribylovaa/go-media-hub/internal/transport/http/dto"
	apierrors "github.com/pribylovaa/go-media-hub/internal/transport/http/errors"
	"github.com/pribylovaa/go-media-hub/internal/transport/http/middleware"
)

// ListMedia: GET /media?tab=; без tab используется активная вкладка сессии.
func (h *Handlers) ListMedia(w http.ResponseWriter, r *http.Request) {
	var tab *models.Tab
	if raw := r.URL.Query().Get("tab"); raw != "" {
		t, err := models.ParseTab(raw)
		if err != nil {
			apierrors.WriteError(w, r, service.ErrInvalidArgument)
			return
		}
		tab = &t
	}

	effective, items, err := h.svc.Feed(r.Context(), middleware.SessionFrom(r.Context()), tab)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FeedResponse{
		Tab:   string(effective),
		Items: dto.MediaItemsFromModel(items),
	})
}

// CreateMedia выполняет разовую загрузку, multipart с полями title и file.
func (h *Handlers) CreateMedia(w http.ResponseWriter, r *http.Request) {
	f, err := h.readUpload(w, r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	item, err := h.svc.Upload(r.Context(), middleware.SessionFrom(r.Context()), service.UploadInput{
		Title: r.FormValue("title"),
		File:  f,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MediaItemFromModel(*item))
}

func (h *Handlers) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	item, err := h.svc.Item(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MediaItemFromModel(*item))
}

// OpenMedia открывает детальный просмотр и возвращает состояние сессии.
func (h *Handlers) OpenMedia(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	v, err := h.svc.Open(r.Context(), middleware.SessionFrom(r.Context()), id)
	respondView(w, r, v, err)
}

// LikeMedia: 200 с обновлённым элементом или 204, если элемента нет.
func (h *Handlers) LikeMedia(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	item, err := h.svc.ToggleLike(r.Context(), middleware.SessionFrom(r.Context()), id)
	respondItemOrNoContent(w, r, item, err)
}

// SaveMedia: как LikeMedia.
func (h *Handlers) SaveMedia(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	item, err := h.svc.ToggleSave(r.Context(), middleware.SessionFrom(r.Context()), id)
	respondItemOrNoContent(w, r, item, err)
}

// CommentMedia: пустое тело берёт текст из черновика сессии.
// 204, если комментарий проигнорирован (пустой текст или нет элемента).
func (h *Handlers) CommentMedia(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in dto.SubmitCommentRequest
	if err := decodeStrict(r, &in); err != nil && !errors.Is(err, io.EOF) {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	item, err := h.svc.SubmitComment(r.Context(), middleware.SessionFrom(r.Context()), id, in.Text)
	respondItemOrNoContent(w, r, item, err)
}

func respondItemOrNoContent(w http.ResponseWriter, r *http.Request, item *models.MediaItem, err error) {
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if item == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, dto.MediaItemFromModel(*item))
}
