package gallery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/go-media-hub/internal/models"
)

var (
	// ErrInvalidState: переход диалога загрузки недопустим в текущем состоянии.
	ErrInvalidState = errors.New("invalid upload dialog state")
	// ErrMissingTitle: заголовок пуст после TrimSpace.
	ErrMissingTitle = errors.New("upload title is required")
	// ErrMissingFile: файл не выбран.
	ErrMissingFile = errors.New("upload file is required")
)

// SetTab переключает активную вкладку.
func SetTab(v models.View, tab models.Tab) models.View {
	v = CloneView(v)
	v.Tab = tab

	return v
}

// Open открывает детальный просмотр с собственной копией элемента.
func Open(v models.View, item models.MediaItem) models.View {
	v = CloneView(v)
	c := Clone(item)
	v.Selected = &c

	return v
}

// Close закрывает детальный просмотр.
func Close(v models.View) models.View {
	v = CloneView(v)
	v.Selected = nil

	return v
}

// SetDraft запоминает набираемый текст комментария.
func SetDraft(v models.View, text string) models.View {
	v = CloneView(v)
	v.CommentDraft = text

	return v
}

// MirrorComment дописывает тот же комментарий в копию детального просмотра,
// если открыт именно элемент id. Лайки и сохранения в копию не зеркалируются.
func MirrorComment(v models.View, id int64, c models.Comment) models.View {
	v = CloneView(v)
	if v.Selected != nil && v.Selected.ID == id {
		v.Selected.Comments = append(v.Selected.Comments, c)
	}

	return v
}

// OpenUpload: closed -> open с пустыми полями. Уже открытый диалог не трогаем.
func OpenUpload(v models.View) models.View {
	v = CloneView(v)
	if v.Upload.State == models.UploadClosed || v.Upload.State == "" {
		v.Upload = models.UploadDialog{State: models.UploadOpen}
	}

	return v
}

// SetUploadTitle меняет заголовок в открытом диалоге.
func SetUploadTitle(v models.View, title string) (models.View, error) {
	if !uploadActive(v.Upload) {
		return v, fmt.Errorf("set title in %q: %w", v.Upload.State, ErrInvalidState)
	}

	v = CloneView(v)
	v.Upload.Title = title

	return v, nil
}

// SelectFile: open|file_selected -> file_selected; предыдущий файл заменяется.
func SelectFile(v models.View, f models.UploadFile) (models.View, error) {
	if !uploadActive(v.Upload) {
		return v, fmt.Errorf("select file in %q: %w", v.Upload.State, ErrInvalidState)
	}

	v = CloneView(v)
	f.Data = append([]byte(nil), f.Data...)
	v.Upload.File = &f
	v.Upload.State = models.UploadFileSelected

	return v, nil
}

// RemoveFile: file_selected -> open, заголовок сохраняется.
func RemoveFile(v models.View) (models.View, error) {
	if v.Upload.State != models.UploadFileSelected {
		return v, fmt.Errorf("remove file in %q: %w", v.Upload.State, ErrInvalidState)
	}

	v = CloneView(v)
	v.Upload.File = nil
	v.Upload.State = models.UploadOpen

	return v, nil
}

// CloseUpload закрывает диалог и сбрасывает все поля (cancel и успешный submit).
func CloseUpload(v models.View) models.View {
	v = CloneView(v)
	v.Upload = models.UploadDialog{State: models.UploadClosed}

	return v
}

// ValidateUpload проверяет, что диалог можно отправить.
func ValidateUpload(d models.UploadDialog) error {
	if !uploadActive(d) {
		return fmt.Errorf("submit in %q: %w", d.State, ErrInvalidState)
	}

	return ValidateUploadInput(d.Title, d.File)
}

// ValidateUploadInput: общая проверка для диалога и разовой загрузки.
func ValidateUploadInput(title string, f *models.UploadFile) error {
	if strings.TrimSpace(title) == "" {
		return ErrMissingTitle
	}

	if f == nil || len(f.Data) == 0 {
		return ErrMissingFile
	}

	return nil
}

// Notify ставит уведомление в очередь сессии.
func Notify(v models.View, n models.Notification) models.View {
	v = CloneView(v)
	v.Notifications = append(v.Notifications, n)

	return v
}

// Drain забирает накопленные уведомления и очищает очередь.
func Drain(v models.View) (models.View, []models.Notification) {
	v = CloneView(v)
	out := v.Notifications
	v.Notifications = nil

	return v, out
}

// CloneView: глубокая копия состояния просмотра.
func CloneView(v models.View) models.View {
	if v.Selected != nil {
		c := Clone(*v.Selected)
		v.Selected = &c
	}

	if v.Upload.File != nil {
		f := *v.Upload.File
		f.Data = append([]byte(nil), f.Data...)
		v.Upload.File = &f
	}

	if v.Notifications != nil {
		v.Notifications = append([]models.Notification(nil), v.Notifications...)
	}

	return v
}

func uploadActive(d models.UploadDialog) bool {
	return d.State == models.UploadOpen || d.State == models.UploadFileSelected
}
