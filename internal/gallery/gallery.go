// Package gallery содержит ядро галереи: проекция вкладок и чистые редьюсеры над коллекцией
// и состоянием просмотра. Ни одна функция пакета не изменяет входные данные:
// результат всегда новая копия.
package gallery

import (
	"github.com/pribylovaa/go-media-hub/internal/models"
)

// Filter возвращает подпоследовательность элементов для вкладки,
// сохраняя относительный порядок.
//   - videos: только видео;
//   - saved: только сохранённые;
//   - home/feed/profile: вся коллекция без фильтрации.
//
// Пустой результат: пустой срез, не ошибка.
func Filter(items []models.MediaItem, tab models.Tab) []models.MediaItem {
	var keep func(models.MediaItem) bool

	switch tab {
	case models.TabVideos:
		keep = func(m models.MediaItem) bool { return m.Kind == models.KindVideo }
	case models.TabSaved:
		keep = func(m models.MediaItem) bool { return m.IsSaved }
	default:
		// home/feed/profile пока не различаются.
		return CloneAll(items)
	}

	out := make([]models.MediaItem, 0, len(items))
	for _, m := range items {
		if keep(m) {
			out = append(out, Clone(m))
		}
	}

	return out
}

// Find ищет элемент по идентификатору.
func Find(items []models.MediaItem, id int64) (models.MediaItem, bool) {
	for _, m := range items {
		if m.ID == id {
			return Clone(m), true
		}
	}

	return models.MediaItem{}, false
}

// ToggleLike инвертирует IsLiked и сдвигает Likes на ±1.
// Если элемента нет: коллекция возвращается без изменений и false.
func ToggleLike(items []models.MediaItem, id int64) ([]models.MediaItem, bool) {
	return update(items, id, func(m *models.MediaItem) {
		if m.IsLiked {
			m.Likes--
		} else {
			m.Likes++
		}
		m.IsLiked = !m.IsLiked
	})
}

// ToggleSave инвертирует только IsSaved.
func ToggleSave(items []models.MediaItem, id int64) ([]models.MediaItem, bool) {
	return update(items, id, func(m *models.MediaItem) {
		m.IsSaved = !m.IsSaved
	})
}

// AppendComment дописывает комментарий в конец последовательности элемента.
func AppendComment(items []models.MediaItem, id int64, c models.Comment) ([]models.MediaItem, bool) {
	return update(items, id, func(m *models.MediaItem) {
		m.Comments = append(m.Comments, c)
	})
}

// Prepend ставит новый элемент в начало коллекции.
func Prepend(items []models.MediaItem, item models.MediaItem) []models.MediaItem {
	out := make([]models.MediaItem, 0, len(items)+1)
	out = append(out, Clone(item))

	return append(out, CloneAll(items)...)
}

// update копирует коллекцию и применяет fn к элементу с нужным id.
func update(items []models.MediaItem, id int64, fn func(*models.MediaItem)) ([]models.MediaItem, bool) {
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}

	if idx < 0 {
		return items, false
	}

	out := CloneAll(items)
	fn(&out[idx])

	return out, true
}

// Clone возвращает глубокую копию элемента, копия и оригинал не делят массив комментариев.
func Clone(m models.MediaItem) models.MediaItem {
	if m.Comments != nil {
		m.Comments = append([]models.Comment(nil), m.Comments...)
	}

	return m
}

// CloneAll: глубокая копия коллекции.
func CloneAll(items []models.MediaItem) []models.MediaItem {
	out := make([]models.MediaItem, len(items))
	for i := range items {
		out[i] = Clone(items[i])
	}

	return out
}
