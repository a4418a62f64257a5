package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/service"
)

// Запас на заголовки multipart и текстовые поля поверх лимита файла.
const multipartOverhead = 1 << 20

// Handlers агрегирует зависимости REST-слоя.
type Handlers struct {
	svc       *service.Service
	validate  *validator.Validate
	maxUpload int64
}

// New создаёт Handlers. maxUpload: лимит размера файла (uploads.max_size_bytes).
func New(svc *service.Service, maxUpload int64) *Handlers {
	return &Handlers{
		svc:       svc,
		validate:  validator.New(),
		maxUpload: maxUpload,
	}
}

// writeJSON: единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict декодирует JSON строго и запрещает неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// normalizer: запрос, который приводит поля к каноническому виду до валидации.
type normalizer interface {
	Normalize()
}

// decodeValid: decodeStrict + Normalize (если есть) + проверка тегов validate.
// Любая ошибка разбора или валидации -> service.ErrInvalidArgument.
func (h *Handlers) decodeValid(r *http.Request, value any) error {
	if err := decodeStrict(r, value); err != nil {
		return fmt.Errorf("decode: %w", service.ErrInvalidArgument)
	}

	if n, ok := value.(normalizer); ok {
		n.Normalize()
	}

	if err := h.validate.Struct(value); err != nil {
		return fmt.Errorf("validate: %w", service.ErrInvalidArgument)
	}

	return nil
}

// pathID разбирает {id} из пути.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id: %w", service.ErrInvalidArgument)
	}

	return id, nil
}

// readUpload разбирает multipart-форму и читает файл из поля "file".
// Тело ограничено maxUpload + multipartOverhead; превышение даёт http.MaxBytesError (413).
func (h *Handlers) readUpload(w http.ResponseWriter, r *http.Request) (models.UploadFile, error) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return models.UploadFile{}, err
		}

		return models.UploadFile{}, fmt.Errorf("multipart: %w", service.ErrInvalidArgument)
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		return models.UploadFile{}, fmt.Errorf("file field: %w", service.ErrInvalidArgument)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.UploadFile{}, fmt.Errorf("read file: %w", err)
	}

	return models.UploadFile{
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
