package http

// Сквозные тесты REST-слоя поверх in-memory бэкендов.
//
// Запуск:
//   go test ./internal/transport/http -v -race -count=1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/pribylovaa/go-media-hub/internal/config"
	"github.com/pribylovaa/go-media-hub/internal/gallery"
	"github.com/pribylovaa/go-media-hub/internal/service"
	sessmem "github.com/pribylovaa/go-media-hub/internal/session/memory"
	"github.com/pribylovaa/go-media-hub/internal/storage/inline"
	mediamem "github.com/pribylovaa/go-media-hub/internal/storage/memory"
	"github.com/pribylovaa/go-media-hub/internal/transport/http/dto"
	apierrors "github.com/pribylovaa/go-media-hub/internal/transport/http/errors"
	"github.com/pribylovaa/go-media-hub/internal/transport/http/middleware"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type client struct {
	t   *testing.T
	srv *httptest.Server
	sid string
}

func newTestServer(t *testing.T) *client {
	t.Helper()

	media := mediamem.New()
	_, err := media.Seed(context.Background(), gallery.Seed())
	require.NoError(t, err)

	cfg := &config.Config{
		Uploads: config.UploadsConfig{
			MaxSizeBytes:      4096,
			AllowedPrefixes:   []string{"image/", "video/"},
			VideoThumbnailURL: "https://example.com/thumb.jpg",
		},
		User: config.UserConfig{Name: "Вы", Avatar: "https://example.com/me.svg"},
	}
	svc := service.New(media, inline.New(), sessmem.New(time.Hour), cfg, nil)

	h := NewRouter(svc, Options{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:        5 * time.Second,
		UploadTimeout:  10 * time.Second,
		BasePath:       "/api",
		SessionTTL:     time.Hour,
		MaxUploadBytes: cfg.Uploads.MaxSizeBytes,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &client{t: t, srv: srv}
}

func (c *client) do(method, path string, body io.Reader, contentType string) *http.Response {
	c.t.Helper()

	req, err := http.NewRequest(method, c.srv.URL+path, body)
	require.NoError(c.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.sid != "" {
		req.Header.Set(middleware.SessionHeader, c.sid)
	}

	resp, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = resp.Body.Close() })

	if sid := resp.Header.Get(middleware.SessionHeader); sid != "" {
		c.sid = sid
	}

	return resp
}

func (c *client) json(method, path, body string) *http.Response {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return c.do(method, path, r, "application/json")
}

func (c *client) multipart(method, path string, fields map[string]string, fileName, fileType string, data []byte) *http.Response {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(c.t, mw.WriteField(k, v))
	}
	if fileName != "" {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		if fileType != "" {
			hdr.Set("Content-Type", fileType)
		}
		part, err := mw.CreatePart(hdr)
		require.NoError(c.t, err)
		_, err = part.Write(data)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, mw.Close())

	return c.do(method, path, &buf, mw.FormDataContentType())
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRouter_ViewIssuesSession(t *testing.T) {
	c := newTestServer(t)

	resp := c.do(http.MethodGet, "/api/view", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, c.sid)
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	v := decode[dto.View](t, resp)
	require.Equal(t, "home", v.Tab)
	require.Equal(t, "closed", v.Upload.State)
	require.Nil(t, v.Selected)
	require.NotNil(t, v.Notifications)
}

// DELETE /api/view сбрасывает состояние сессии к состоянию по умолчанию.
func TestRouter_ResetView(t *testing.T) {
	c := newTestServer(t)

	require.Equal(t, http.StatusOK, c.json(http.MethodPut, "/api/view/tab", `{"tab":"saved"}`).StatusCode)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/media/2/open", nil, "").StatusCode)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/view/upload", nil, "").StatusCode)

	resp := c.do(http.MethodDelete, "/api/view", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decode[dto.View](t, resp)
	require.Equal(t, "home", v.Tab)
	require.Nil(t, v.Selected)
	require.Equal(t, "closed", v.Upload.State)

	v = decode[dto.View](t, c.do(http.MethodGet, "/api/view", nil, ""))
	require.Equal(t, "home", v.Tab)
	require.Nil(t, v.Selected)
	require.Equal(t, "closed", v.Upload.State)
}

func TestRouter_FeedAndTabs(t *testing.T) {
	c := newTestServer(t)

	feed := decode[dto.FeedResponse](t, c.do(http.MethodGet, "/api/media", nil, ""))
	require.Equal(t, "home", feed.Tab)
	require.Len(t, feed.Items, 8)
	require.Equal(t, int64(1), feed.Items[0].ID)

	resp := c.json(http.MethodPut, "/api/view/tab", `{"tab":"videos"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	feed = decode[dto.FeedResponse](t, c.do(http.MethodGet, "/api/media", nil, ""))
	require.Equal(t, "videos", feed.Tab)
	require.Len(t, feed.Items, 3)

	feed = decode[dto.FeedResponse](t, c.do(http.MethodGet, "/api/media?tab=SAVED", nil, ""))
	require.Equal(t, "saved", feed.Tab)
	require.Len(t, feed.Items, 2)

	resp = c.do(http.MethodGet, "/api/media?tab=trending", nil, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	env := decode[apierrors.ErrorResponse](t, resp)
	require.Equal(t, "invalid_argument", env.Error.Code)
	require.NotEmpty(t, env.Error.RequestID)

	// Регистр и пробелы не важны, как и у ?tab=.
	resp = c.json(http.MethodPut, "/api/view/tab", `{"tab":" Profile "}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "profile", decode[dto.View](t, resp).Tab)

	resp = c.json(http.MethodPut, "/api/view/tab", `{"tab":"trending"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.json(http.MethodPut, "/api/view/tab", `{"tab":"home","extra":1}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_GetMedia(t *testing.T) {
	c := newTestServer(t)

	item := decode[dto.MediaItem](t, c.do(http.MethodGet, "/api/media/2", nil, ""))
	require.Equal(t, "video", item.Type)
	require.NotEmpty(t, item.Thumbnail)

	require.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/media/999", nil, "").StatusCode)
	require.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/media/abc", nil, "").StatusCode)
}

func TestRouter_LikeSave(t *testing.T) {
	c := newTestServer(t)

	item := decode[dto.MediaItem](t, c.do(http.MethodPost, "/api/media/3/like", nil, ""))
	require.False(t, item.IsLiked)
	require.Equal(t, int64(891), item.Likes)

	item = decode[dto.MediaItem](t, c.do(http.MethodPost, "/api/media/3/save", nil, ""))
	require.True(t, item.IsSaved)

	require.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/api/media/999/like", nil, "").StatusCode)
	require.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/api/media/999/save", nil, "").StatusCode)
}

func TestRouter_OpenCommentClose(t *testing.T) {
	c := newTestServer(t)

	v := decode[dto.View](t, c.do(http.MethodPost, "/api/media/1/open", nil, ""))
	require.Equal(t, int64(1), v.Selected.ID)

	// Пустой текст игнорируется.
	require.Equal(t, http.StatusNoContent, c.json(http.MethodPost, "/api/media/1/comments", `{"text":"   "}`).StatusCode)

	// Текст из черновика.
	require.Equal(t, http.StatusOK, c.json(http.MethodPut, "/api/view/comment", `{"text":"Супер"}`).StatusCode)
	item := decode[dto.MediaItem](t, c.do(http.MethodPost, "/api/media/1/comments", nil, ""))
	require.Len(t, item.Comments, 1)
	require.Equal(t, "Супер", item.Comments[0].Text)
	require.Equal(t, "just now", item.Comments[0].Timestamp)
	require.Equal(t, "Вы", item.Comments[0].Author)

	v = decode[dto.View](t, c.do(http.MethodGet, "/api/view", nil, ""))
	require.Len(t, v.Selected.Comments, 1)
	require.Empty(t, v.CommentDraft)
	require.Len(t, v.Notifications, 1)

	// Элемента нет -> 204.
	require.Equal(t, http.StatusNoContent, c.json(http.MethodPost, "/api/media/999/comments", `{"text":"x"}`).StatusCode)

	v = decode[dto.View](t, c.do(http.MethodDelete, "/api/view/selected", nil, ""))
	require.Nil(t, v.Selected)
}

func TestRouter_UploadDialog(t *testing.T) {
	c := newTestServer(t)

	resp := c.do(http.MethodPost, "/api/view/upload/submit", nil, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "invalid_state", decode[apierrors.ErrorResponse](t, resp).Error.Code)

	v := decode[dto.View](t, c.do(http.MethodPost, "/api/view/upload", nil, ""))
	require.Equal(t, "open", v.Upload.State)

	require.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/view/upload/submit", nil, "").StatusCode)

	v = decode[dto.View](t, c.json(http.MethodPut, "/api/view/upload/title", `{"title":"Пиксель"}`))
	require.Equal(t, "Пиксель", v.Upload.Title)
	require.Len(t, v.Notifications, 1)
	require.Equal(t, "error", v.Notifications[0].Level)

	v = decode[dto.View](t, c.multipart(http.MethodPut, "/api/view/upload/file", nil, "p.png", "", pngHeader))
	require.Equal(t, "file_selected", v.Upload.State)
	require.Equal(t, "image/png", v.Upload.File.ContentType)
	require.True(t, strings.HasPrefix(v.Upload.File.Preview, "data:image/png;base64,"))

	v = decode[dto.View](t, c.do(http.MethodDelete, "/api/view/upload/file", nil, ""))
	require.Equal(t, "open", v.Upload.State)
	require.Nil(t, v.Upload.File)

	c.multipart(http.MethodPut, "/api/view/upload/file", nil, "p.png", "image/png", pngHeader)

	resp = c.do(http.MethodPost, "/api/view/upload/submit", nil, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	item := decode[dto.MediaItem](t, resp)
	require.Equal(t, "Пиксель", item.Title)
	require.Equal(t, "image", item.Type)
	require.Zero(t, item.Likes)

	feed := decode[dto.FeedResponse](t, c.do(http.MethodGet, "/api/media", nil, ""))
	require.Equal(t, item.ID, feed.Items[0].ID)

	v = decode[dto.View](t, c.do(http.MethodGet, "/api/view", nil, ""))
	require.Equal(t, "closed", v.Upload.State)
	require.Empty(t, v.Upload.Title)

	v = decode[dto.View](t, c.do(http.MethodPost, "/api/view/upload", nil, ""))
	require.Equal(t, "open", v.Upload.State)
	v = decode[dto.View](t, c.do(http.MethodDelete, "/api/view/upload", nil, ""))
	require.Equal(t, "closed", v.Upload.State)
}

func TestRouter_CreateMedia(t *testing.T) {
	c := newTestServer(t)

	resp := c.multipart(http.MethodPost, "/api/media", map[string]string{"title": "clip"}, "c.mp4", "video/mp4", []byte("fake-video"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	item := decode[dto.MediaItem](t, resp)
	require.Equal(t, "video", item.Type)
	require.Equal(t, "https://example.com/thumb.jpg", item.Thumbnail)

	resp = c.multipart(http.MethodPost, "/api/media", map[string]string{"title": "big"}, "b.png", "image/png", make([]byte, 8192))
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	resp = c.multipart(http.MethodPost, "/api/media", map[string]string{"title": "doc"}, "d.txt", "text/plain", []byte("hello"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.multipart(http.MethodPost, "/api/media", map[string]string{"title": "nofile"}, "", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.json(http.MethodPost, "/api/media", `{"title":"x"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
