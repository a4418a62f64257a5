// models содержит доменные сущности галереи.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// MediaKind задаёт тип медиа: изображение или видео.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// IsValid сообщает, входит ли значение в допустимое множество.
func (k MediaKind) IsValid() bool {
	return k == KindImage || k == KindVideo
}

func (k MediaKind) String() string { return string(k) }

// UnmarshalText разбирает тип без учёта регистра.
func (k *MediaKind) UnmarshalText(text []byte) error {
	v := MediaKind(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.IsValid() {
		return fmt.Errorf("invalid media kind %q", string(text))
	}

	*k = v
	return nil
}

// KindFromContentType классифицирует файл по заявленному content type:
// video/* -> видео, всё остальное -> изображение.
func KindFromContentType(contentType string) MediaKind {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "video/") {
		return KindVideo
	}

	return KindImage
}

// ErrInvalidMedia: нарушен инвариант MediaItem.
var ErrInvalidMedia = errors.New("invalid media item")

// MediaItem: одна публикация галереи.
//   - ID: уникален; для загрузок выводится из момента создания (unix ms).
//   - Thumbnail обязателен для видео и отличается от URL.
//   - Likes меняется строго на ±1 синхронно с IsLiked; при IsLiked Likes >= 1.
//   - Comments: в порядке добавления, только дозапись.
type MediaItem struct {
	ID           int64
	Kind         MediaKind
	URL          string
	Thumbnail    string
	Title        string
	Author       string
	AuthorAvatar string
	Likes        int64
	IsLiked      bool
	IsSaved      bool
	Comments     []Comment
}

// Validate проверяет инварианты элемента перед записью в хранилище.
func (m MediaItem) Validate() error {
	if !m.Kind.IsValid() {
		return fmt.Errorf("%w: kind %q", ErrInvalidMedia, m.Kind)
	}

	if m.URL == "" {
		return fmt.Errorf("%w: empty url", ErrInvalidMedia)
	}

	if m.Likes < 0 {
		return fmt.Errorf("%w: negative likes", ErrInvalidMedia)
	}

	// Свой лайк входит в счётчик, иначе снятие лайка уведёт его ниже нуля.
	if m.IsLiked && m.Likes == 0 {
		return fmt.Errorf("%w: liked item with zero likes", ErrInvalidMedia)
	}

	if m.Kind == KindVideo && (m.Thumbnail == "" || m.Thumbnail == m.URL) {
		return fmt.Errorf("%w: video requires a distinct thumbnail", ErrInvalidMedia)
	}

	return nil
}

// Comment: ответ под публикацией. Редактирования и удаления нет.
// Timestamp: строка для отображения, не пересчитывается.
type Comment struct {
	ID           int64
	Author       string
	AuthorAvatar string
	Text         string
	Timestamp    string
}

// JustNow: отображаемая метка времени нового комментария.
const JustNow = "just now"

// Author: отображаемая личность автора (локальный пользователь).
type Author struct {
	Name   string
	Avatar string
}
