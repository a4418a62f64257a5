package models

import (
	"fmt"
	"strings"
)

// Tab: вкладка навигации.
type Tab string

const (
	TabHome    Tab = "home"
	TabFeed    Tab = "feed"
	TabVideos  Tab = "videos"
	TabSaved   Tab = "saved"
	TabProfile Tab = "profile"
)

// DefaultTab: вкладка новой сессии.
const DefaultTab = TabHome

// Tabs: фиксированный порядок вкладок.
var Tabs = []Tab{TabHome, TabFeed, TabVideos, TabSaved, TabProfile}

func (t Tab) IsValid() bool {
	switch t {
	case TabHome, TabFeed, TabVideos, TabSaved, TabProfile:
		return true
	default:
		return false
	}
}

// ParseTab разбирает вкладку без учёта регистра.
func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown tab %q", s)
	}

	return t, nil
}

// UploadState: состояние диалога загрузки.
type UploadState string

const (
	UploadClosed       UploadState = "closed"
	UploadOpen         UploadState = "open"
	UploadFileSelected UploadState = "file_selected"
)

// UploadFile: выбранный локальный файл, уже прочитанный в память.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// UploadDialog: поля диалога загрузки.
// File != nil тогда и только тогда, когда State == UploadFileSelected.
type UploadDialog struct {
	State UploadState
	Title string
	File  *UploadFile
}

// NotificationLevel: уровень уведомления.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
)

// Notification: временное уведомление для пользователя.
type Notification struct {
	Level   NotificationLevel
	Title   string
	Message string
}

// View: эфемерное состояние одной сессии просмотра.
// Selected: копия элемента, открытого в детальном просмотре (или nil).
type View struct {
	Tab           Tab
	Selected      *MediaItem
	CommentDraft  string
	Upload        UploadDialog
	Notifications []Notification
}

// NewView возвращает состояние новой сессии.
func NewView() *View {
	return &View{
		Tab:    DefaultTab,
		Upload: UploadDialog{State: UploadClosed},
	}
}
