package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/transport/http/dto"
	apierrors "github.com/pribylovaa/go-media-hub/internal/transport/http/errors"
	"github.com/pribylovaa/go-media-hub/internal/transport/http/middleware"
)

// respondView: общий хвост операций над состоянием просмотра.
func respondView(w http.ResponseWriter, r *http.Request, v *models.View, err error) {
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ViewFromModel(*v))
}

func (h *Handlers) GetView(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.View(r.Context(), middleware.SessionFrom(r.Context()))
	respondView(w, r, v, err)
}

func (h *Handlers) ResetView(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.ResetView(r.Context(), middleware.SessionFrom(r.Context()))
	respondView(w, r, v, err)
}

func (h *Handlers) SetTab(w http.ResponseWriter, r *http.Request) {
	var in dto.SetTabRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	v, err := h.svc.SetTab(r.Context(), middleware.SessionFrom(r.Context()), models.Tab(in.Tab))
	respondView(w, r, v, err)
}

func (h *Handlers) CloseSelected(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Close(r.Context(), middleware.SessionFrom(r.Context()))
	respondView(w, r, v, err)
}

func (h *Handlers) SetCommentDraft(w http.ResponseWriter, r *http.Request) {
	var in dto.CommentDraftRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	v, err := h.svc.SetCommentDraft(r.Context(), middleware.SessionFrom(r.Context()), in.Text)
	respondView(w, r, v, err)
}

func (h *Handlers) OpenUpload(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.OpenUpload(r.Context(), middleware.SessionFrom(r.Context()))
	respondView(w, r, v, err)
}

func (h *Handlers) SetUploadTitle(w http.ResponseWriter, r *http.Request) {
	var in dto.UploadTitleRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	v, err := h.svc.SetUploadTitle(r.Context(), middleware.SessionFrom(r.Context()), in.Title)
	respondView(w, r, v, err)
}

func (h *Handlers) SelectUploadFile(w http.ResponseWriter, r *http.Request) {
	f, err := h.readUpload(w, r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	v, err := h.svc.SelectUploadFile(r.Context(), middleware.SessionFrom(r.Context()), f)
	respondView(w, r, v, err)
}

func (h *Handlers) RemoveUploadFile(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.RemoveUploadFile(r.Context(), middleware.SessionFrom(r.Context()))
	respondView(w, r, v, err)
}

func (h *Handlers) CancelUpload(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.CancelUpload(r.Context(), middleware.SessionFrom(r.Context()))
	respondView(w, r, v, err)
}

func (h *Handlers) SubmitUpload(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.SubmitUpload(r.Context(), middleware.SessionFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MediaItemFromModel(*item))
}
