// dto: JSON-представления галереи для REST API и конвертеры из доменных моделей.
package dto

import (
	"strings"

	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/storage/inline"
)

// Запросы.

type SetTabRequest struct {
	Tab string `json:"tab" validate:"required,oneof=home feed videos saved profile"`
}

// Normalize приводит вкладку к виду models.ParseTab: без пробелов и регистра.
func (r *SetTabRequest) Normalize() {
	r.Tab = strings.ToLower(strings.TrimSpace(r.Tab))
}

type CommentDraftRequest struct {
	Text string `json:"text" validate:"max=2000"`
}

// SubmitCommentRequest: Text == nil означает «взять черновик сессии».
type SubmitCommentRequest struct {
	Text *string `json:"text,omitempty" validate:"omitempty,max=2000"`
}

type UploadTitleRequest struct {
	Title string `json:"title" validate:"max=200"`
}

// Ответы.

type Comment struct {
	ID           int64  `json:"id"`
	Author       string `json:"author"`
	AuthorAvatar string `json:"author_avatar"`
	Text         string `json:"text"`
	Timestamp    string `json:"timestamp"`
}

type MediaItem struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	URL          string    `json:"url"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	AuthorAvatar string    `json:"author_avatar"`
	Likes        int64     `json:"likes"`
	IsLiked      bool      `json:"is_liked"`
	IsSaved      bool      `json:"is_saved"`
	Comments     []Comment `json:"comments"`
}

type FeedResponse struct {
	Tab   string      `json:"tab"`
	Items []MediaItem `json:"items"`
}

// UploadFile: выбранный файл; Preview, data URL для предпросмотра.
type UploadFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Preview     string `json:"preview"`
}

type UploadDialog struct {
	State string      `json:"state"`
	Title string      `json:"title"`
	File  *UploadFile `json:"file,omitempty"`
}

type Notification struct {
	Level   string `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type View struct {
	Tab           string         `json:"tab"`
	Selected      *MediaItem     `json:"selected"`
	CommentDraft  string         `json:"comment_draft"`
	Upload        UploadDialog   `json:"upload"`
	Notifications []Notification `json:"notifications"`
}

// Конвертеры.

func CommentFromModel(c models.Comment) Comment {
	return Comment{
		ID:           c.ID,
		Author:       c.Author,
		AuthorAvatar: c.AuthorAvatar,
		Text:         c.Text,
		Timestamp:    c.Timestamp,
	}
}

func MediaItemFromModel(m models.MediaItem) MediaItem {
	comments := make([]Comment, 0, len(m.Comments))
	for _, c := range m.Comments {
		comments = append(comments, CommentFromModel(c))
	}

	return MediaItem{
		ID:           m.ID,
		Type:         m.Kind.String(),
		URL:          m.URL,
		Thumbnail:    m.Thumbnail,
		Title:        m.Title,
		Author:       m.Author,
		AuthorAvatar: m.AuthorAvatar,
		Likes:        m.Likes,
		IsLiked:      m.IsLiked,
		IsSaved:      m.IsSaved,
		Comments:     comments,
	}
}

func MediaItemsFromModel(items []models.MediaItem) []MediaItem {
	out := make([]MediaItem, 0, len(items))
	for _, it := range items {
		out = append(out, MediaItemFromModel(it))
	}

	return out
}

func ViewFromModel(v models.View) View {
	out := View{
		Tab:           string(v.Tab),
		CommentDraft:  v.CommentDraft,
		Upload:        UploadDialog{State: string(v.Upload.State), Title: v.Upload.Title},
		Notifications: make([]Notification, 0, len(v.Notifications)),
	}

	if v.Selected != nil {
		sel := MediaItemFromModel(*v.Selected)
		out.Selected = &sel
	}

	if f := v.Upload.File; f != nil {
		out.Upload.File = &UploadFile{
			Name:        f.Name,
			ContentType: f.ContentType,
			Size:        f.Size,
			Preview:     inline.DataURL(f.ContentType, f.Data),
		}
	}

	for _, n := range v.Notifications {
		out.Notifications = append(out.Notifications, Notification{
			Level:   string(n.Level),
			Title:   n.Title,
			Message: n.Message,
		})
	}

	return out
}
