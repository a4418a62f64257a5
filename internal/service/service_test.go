package service

// Тесты сервисного слоя галереи.
//
//  Проверяем:
//  - маппинг ошибок storage/session -> service (NotFound / InvalidArgument / Internal / контекст);
//  - тихие no-op для отсутствующих элементов и пустых комментариев;
//  - состояние просмотра: вкладки, детальная копия, черновик, уведомления;
//  - диалог загрузки и разовую загрузку (тип, размер, обложка видео).
//
// Запуск:
//   go test ./internal/service -v -race -count=1
//
// Моки лежат в пакете /mocks (MockMediaStorage, MockBlobStorage, MockSessionStore).

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pribylovaa/go-media-hub/internal/config"
	"github.com/pribylovaa/go-media-hub/internal/gallery"
	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/session"
	sessmem "github.com/pribylovaa/go-media-hub/internal/session/memory"
	"github.com/pribylovaa/go-media-hub/internal/storage"
	"github.com/pribylovaa/go-media-hub/internal/storage/inline"
	mediamem "github.com/pribylovaa/go-media-hub/internal/storage/memory"
	"github.com/pribylovaa/go-media-hub/mocks"
	"github.com/stretchr/testify/require"
)

const testThumb = "https://example.com/thumb.jpg"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func testConfig() *config.Config {
	return &config.Config{
		Uploads: config.UploadsConfig{
			MaxSizeBytes:      1024,
			AllowedPrefixes:   []string{"image/", "video/"},
			VideoThumbnailURL: testThumb,
		},
		User: config.UserConfig{Name: "Вы", Avatar: "https://example.com/me.svg"},
	}
}

func fixedIDs() *gallery.IDSource {
	return gallery.NewIDSource(func() time.Time { return time.UnixMilli(1_700_000_000_000) })
}

func newServiceWithMocks(t *testing.T) (*Service, *mocks.MockMediaStorage, *mocks.MockBlobStorage, *mocks.MockSessionStore, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mm := mocks.NewMockMediaStorage(ctrl)
	mb := mocks.NewMockBlobStorage(ctrl)
	ms := mocks.NewMockSessionStore(ctrl)
	s := New(mm, mb, ms, testConfig(), fixedIDs())
	return s, mm, mb, ms, ctrl
}

// newServiceInMemory: сервис на in-memory бэкендах со стартовым набором.
func newServiceInMemory(t *testing.T) (*Service, *mediamem.MediaStorage) {
	t.Helper()
	media := mediamem.New()
	_, err := media.Seed(context.Background(), gallery.Seed())
	require.NoError(t, err)

	return New(media, inline.New(), sessmem.New(time.Hour), testConfig(), fixedIDs()), media
}

func ptr[T any](v T) *T { return &v }

// Для отсутствующего элемента ToggleLike/ToggleSave ничего не делают.
func TestService_Toggle_MissingIsNoop(t *testing.T) {
	s, mm, _, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	mm.EXPECT().ToggleLike(gomock.Any(), int64(42)).Return(nil, storage.ErrNotFound)
	mm.EXPECT().ToggleSave(gomock.Any(), int64(42)).Return(nil, storage.ErrNotFound)

	item, err := s.ToggleLike(context.Background(), session.NewID(), 42)
	require.NoError(t, err)
	require.Nil(t, item)

	item, err = s.ToggleSave(context.Background(), session.NewID(), 42)
	require.NoError(t, err)
	require.Nil(t, item)
}

// Маппинг: любая иная ошибка стораджа -> ErrInternal, контекст пробрасывается.
func TestService_ToggleLike_ErrorMapping(t *testing.T) {
	s, mm, _, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	mm.EXPECT().ToggleLike(gomock.Any(), int64(1)).Return(nil, errors.New("pg down"))
	_, err := s.ToggleLike(context.Background(), session.NewID(), 1)
	require.ErrorIs(t, err, ErrInternal)

	mm.EXPECT().ToggleLike(gomock.Any(), int64(1)).Return(nil, context.Canceled)
	_, err = s.ToggleLike(context.Background(), session.NewID(), 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestService_Item_NotFound(t *testing.T) {
	s, mm, _, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	mm.EXPECT().ByID(gomock.Any(), int64(9)).Return(nil, storage.ErrNotFound)

	_, err := s.Item(context.Background(), 9)
	require.ErrorIs(t, err, ErrNotFound)
}

// Битый идентификатор сессии -> ErrInvalidArgument.
func TestService_InvalidSession(t *testing.T) {
	s, _ := newServiceInMemory(t)

	_, err := s.View(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

// Пустой после TrimSpace текст: в хранилище ничего не пишется, состояние не сохраняется.
func TestService_SubmitComment_BlankIsNoop(t *testing.T) {
	s, _, _, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	sid := session.NewID()
	v := models.NewView()
	v.CommentDraft = "   "
	ms.EXPECT().Get(gomock.Any(), sid).Return(v, nil).Times(2)

	item, err := s.SubmitComment(context.Background(), sid, 1, nil)
	require.NoError(t, err)
	require.Nil(t, item)

	item, err = s.SubmitComment(context.Background(), sid, 1, ptr("\n\t "))
	require.NoError(t, err)
	require.Nil(t, item)
}

// Отсутствующий элемент: комментарий игнорируется, черновик остаётся.
func TestService_SubmitComment_MissingItem(t *testing.T) {
	s, mm, _, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	sid := session.NewID()
	v := models.NewView()
	v.CommentDraft = "hello"
	ms.EXPECT().Get(gomock.Any(), sid).Return(v, nil)
	mm.EXPECT().AppendComment(gomock.Any(), int64(404), gomock.Any()).Return(nil, storage.ErrNotFound)

	item, err := s.SubmitComment(context.Background(), sid, 404, nil)
	require.NoError(t, err)
	require.Nil(t, item)
}

// У комментария автор это локальный пользователь, метка "just now", свежий id,
// зеркалирование в детальную копию, очистка черновика, уведомление.
func TestService_SubmitComment_FromDraft(t *testing.T) {
	s, media := newServiceInMemory(t)
	ctx := context.Background()
	sid := session.NewID()

	_, err := s.Open(ctx, sid, 1)
	require.NoError(t, err)
	_, err = s.SetCommentDraft(ctx, sid, "  Красиво!  ")
	require.NoError(t, err)

	item, err := s.SubmitComment(ctx, sid, 1, nil)
	require.NoError(t, err)
	require.NotNil(t, item)
	require.Len(t, item.Comments, 1)

	c := item.Comments[0]
	require.Equal(t, int64(1_700_000_000_000), c.ID)
	require.Equal(t, "Красиво!", c.Text)
	require.Equal(t, "Вы", c.Author)
	require.Equal(t, "https://example.com/me.svg", c.AuthorAvatar)
	require.Equal(t, models.JustNow, c.Timestamp)

	stored, err := media.ByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, item.Comments, stored.Comments)

	v, err := s.View(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, v.Selected)
	require.Equal(t, item.Comments, v.Selected.Comments)
	require.Empty(t, v.CommentDraft)
	require.Len(t, v.Notifications, 1)
	require.Equal(t, models.NotifySuccess, v.Notifications[0].Level)

	// Уведомления отдаются один раз.
	v, err = s.View(ctx, sid)
	require.NoError(t, err)
	require.Empty(t, v.Notifications)
}

// Явный текст важнее черновика; комментарий к другому элементу не попадает в копию.
func TestService_SubmitComment_ExplicitTextOtherItem(t *testing.T) {
	s, _ := newServiceInMemory(t)
	ctx := context.Background()
	sid := session.NewID()

	_, err := s.Open(ctx, sid, 2)
	require.NoError(t, err)
	_, err = s.SetCommentDraft(ctx, sid, "draft")
	require.NoError(t, err)

	item, err := s.SubmitComment(ctx, sid, 3, ptr("explicit"))
	require.NoError(t, err)
	require.Equal(t, "explicit", item.Comments[0].Text)

	v, err := s.View(ctx, sid)
	require.NoError(t, err)
	require.Empty(t, v.Selected.Comments)
}

// Комментарии получают строго возрастающие id даже при остановленных часах.
func TestService_SubmitComment_MonotonicIDs(t *testing.T) {
	s, _ := newServiceInMemory(t)
	ctx := context.Background()
	sid := session.NewID()

	for _, txt := range []string{"a", "b", "c"} {
		_, err := s.SubmitComment(ctx, sid, 4, ptr(txt))
		require.NoError(t, err)
	}

	item, err := s.Item(ctx, 4)
	require.NoError(t, err)
	require.Len(t, item.Comments, 3)
	require.Less(t, item.Comments[0].ID, item.Comments[1].ID)
	require.Less(t, item.Comments[1].ID, item.Comments[2].ID)
}

// Лайк меняет коллекцию, но не детальную копию.
func TestService_ToggleLike_NotMirrored(t *testing.T) {
	s, _ := newServiceInMemory(t)
	ctx := context.Background()
	sid := session.NewID()

	_, err := s.Open(ctx, sid, 1)
	require.NoError(t, err)

	item, err := s.ToggleLike(ctx, sid, 1)
	require.NoError(t, err)
	require.True(t, item.IsLiked)
	require.Equal(t, int64(343), item.Likes)

	v, err := s.View(ctx, sid)
	require.NoError(t, err)
	require.False(t, v.Selected.IsLiked)
	require.Equal(t, int64(342), v.Selected.Likes)

	item, err = s.ToggleLike(ctx, sid, 1)
	require.NoError(t, err)
	require.False(t, item.IsLiked)
	require.Equal(t, int64(342), item.Likes)
}

func TestService_Feed_Tabs(t *testing.T) {
	s, _ := newServiceInMemory(t)
	ctx := context.Background()
	sid := session.NewID()

	tab, all, err := s.Feed(ctx, sid, nil)
	require.NoError(t, err)
	require.Equal(t, models.TabHome, tab)
	require.Len(t, all, 8)

	_, err = s.SetTab(ctx, sid, models.TabVideos)
	require.NoError(t, err)

	tab, videos, err := s.Feed(ctx, sid, nil)
	require.NoError(t, err)
	require.Equal(t, models.TabVideos, tab)
	require.Equal(t, []int64{2, 5, 8}, ids(videos))

	_, saved, err := s.Feed(ctx, sid, ptr(models.TabSaved))
	require.NoError(t, err)
	require.Equal(t, []int64{4, 7}, ids(saved))

	_, _, err = s.Feed(ctx, sid, ptr(models.Tab("trending")))
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.SetTab(ctx, sid, models.Tab("trending"))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

// ResetView удаляет состояние сессии через Store.Delete.
func TestService_ResetView(t *testing.T) {
	s, _, _, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	sid := session.NewID()
	ms.EXPECT().Delete(gomock.Any(), sid).Return(nil)

	v, err := s.ResetView(context.Background(), sid)
	require.NoError(t, err)
	require.Equal(t, models.NewView(), v)

	ms.EXPECT().Delete(gomock.Any(), sid).Return(errors.New("redis down"))
	_, err = s.ResetView(context.Background(), sid)
	require.ErrorIs(t, err, ErrInternal)

	_, err = s.ResetView(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_OpenClose(t *testing.T) {
	s, _ := newServiceInMemory(t)
	ctx := context.Background()
	sid := session.NewID()

	_, err := s.Open(ctx, sid, 999)
	require.ErrorIs(t, err, ErrNotFound)

	v, err := s.Open(ctx, sid, 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), v.Selected.ID)

	v, err = s.Close(ctx, sid)
	require.NoError(t, err)
	require.Nil(t, v.Selected)
}

// Диалог: submit в закрытом состоянии, невалидный submit с уведомлением, успешный submit.
func TestService_UploadDialog_Flow(t *testing.T) {
	s, media := newServiceInMemory(t)
	ctx := context.Background()
	sid := session.NewID()

	_, err := s.SubmitUpload(ctx, sid)
	require.ErrorIs(t, err, ErrInvalidState)

	_, err = s.RemoveUploadFile(ctx, sid)
	require.ErrorIs(t, err, ErrInvalidState)

	v, err := s.OpenUpload(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, models.UploadOpen, v.Upload.State)

	_, err = s.SubmitUpload(ctx, sid)
	require.ErrorIs(t, err, ErrInvalidArgument)

	v, err = s.View(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, models.UploadOpen, v.Upload.State)
	require.Len(t, v.Notifications, 1)
	require.Equal(t, models.NotifyError, v.Notifications[0].Level)

	_, err = s.SetUploadTitle(ctx, sid, "Закат")
	require.NoError(t, err)
	v, err = s.SelectUploadFile(ctx, sid, models.UploadFile{Name: "sunset.png", Data: pngHeader})
	require.NoError(t, err)
	require.Equal(t, models.UploadFileSelected, v.Upload.State)
	require.Equal(t, "image/png", v.Upload.File.ContentType)

	v, err = s.RemoveUploadFile(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, models.UploadOpen, v.Upload.State)
	require.Equal(t, "Закат", v.Upload.Title)

	_, err = s.SelectUploadFile(ctx, sid, models.UploadFile{Name: "sunset.png", ContentType: "image/png", Data: pngHeader})
	require.NoError(t, err)

	item, err := s.SubmitUpload(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, models.KindImage, item.Kind)
	require.Equal(t, "Закат", item.Title)
	require.Equal(t, inline.DataURL("image/png", pngHeader), item.URL)
	require.Zero(t, item.Likes)
	require.False(t, item.IsLiked)
	require.False(t, item.IsSaved)
	require.Empty(t, item.Comments)

	list, err := media.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 9)
	require.Equal(t, item.ID, list[0].ID)

	v, err = s.View(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, models.UploadDialog{State: models.UploadClosed}, v.Upload)
	require.Len(t, v.Notifications, 1)
	require.Equal(t, models.NotifySuccess, v.Notifications[0].Level)
}

// Пустой заголовок при выбранном файле: коллекция не меняется, диалог остаётся
// в file_selected, в очереди одно уведомление об ошибке.
func TestService_SubmitUpload_BlankTitleWithFile(t *testing.T) {
	s, media := newServiceInMemory(t)
	ctx := context.Background()
	sid := session.NewID()

	_, err := s.OpenUpload(ctx, sid)
	require.NoError(t, err)
	_, err = s.SetUploadTitle(ctx, sid, "   ")
	require.NoError(t, err)
	_, err = s.SelectUploadFile(ctx, sid, models.UploadFile{Name: "a.png", ContentType: "image/png", Data: pngHeader})
	require.NoError(t, err)

	_, err = s.SubmitUpload(ctx, sid)
	require.ErrorIs(t, err, ErrInvalidArgument)

	list, err := media.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 8)

	v, err := s.View(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, models.UploadFileSelected, v.Upload.State)
	require.NotNil(t, v.Upload.File)
	require.Len(t, v.Notifications, 1)
	require.Equal(t, models.NotifyError, v.Notifications[0].Level)
	require.Equal(t, "Please enter a title", v.Notifications[0].Message)
}

func TestService_CancelUpload_ResetsFields(t *testing.T) {
	s, _ := newServiceInMemory(t)
	ctx := context.Background()
	sid := session.NewID()

	_, err := s.OpenUpload(ctx, sid)
	require.NoError(t, err)
	_, err = s.SetUploadTitle(ctx, sid, "x")
	require.NoError(t, err)

	v, err := s.CancelUpload(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, models.UploadDialog{State: models.UploadClosed}, v.Upload)

	_, err = s.SetUploadTitle(ctx, sid, "y")
	require.ErrorIs(t, err, ErrInvalidState)
}

// Видео получает обложку-заглушку, отличную от URL.
func TestService_Upload_Video(t *testing.T) {
	s, _ := newServiceInMemory(t)

	item, err := s.Upload(context.Background(), session.NewID(), UploadInput{
		Title: "clip",
		File:  models.UploadFile{Name: "clip.mp4", ContentType: "video/mp4", Data: []byte("fake-mp4")},
	})
	require.NoError(t, err)
	require.Equal(t, models.KindVideo, item.Kind)
	require.Equal(t, testThumb, item.Thumbnail)
	require.NotEqual(t, item.URL, item.Thumbnail)
}

func TestService_Upload_Rejections(t *testing.T) {
	s, _ := newServiceInMemory(t)
	ctx := context.Background()
	sid := session.NewID()

	cases := []struct {
		name string
		in   UploadInput
		want error
	}{
		{"blank title", UploadInput{Title: "  ", File: models.UploadFile{ContentType: "image/png", Data: pngHeader}}, ErrInvalidArgument},
		{"no file", UploadInput{Title: "t"}, ErrInvalidArgument},
		{"text file", UploadInput{Title: "t", File: models.UploadFile{ContentType: "text/plain", Data: []byte("hi")}}, ErrInvalidArgument},
		{"sniffed text", UploadInput{Title: "t", File: models.UploadFile{Data: []byte("just text")}}, ErrInvalidArgument},
		{"too large", UploadInput{Title: "t", File: models.UploadFile{ContentType: "image/png", Data: make([]byte, 2048)}}, ErrTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Upload(ctx, sid, tc.in)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

// Ошибка хранилища содержимого -> ErrInternal, коллекция не трогается.
func TestService_Upload_BlobError(t *testing.T) {
	s, _, mb, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	mb.EXPECT().Put(gomock.Any(), "a.png", "image/png", pngHeader).Return("", errors.New("s3 down"))

	_, err := s.Upload(context.Background(), session.NewID(), UploadInput{
		Title: "a",
		File:  models.UploadFile{Name: "a.png", ContentType: "image/png", Data: pngHeader},
	})
	require.ErrorIs(t, err, ErrInternal)
}

// Конфликт id при Prepend -> ErrAlreadyExists.
func TestService_Upload_Conflict(t *testing.T) {
	s, mm, mb, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	mb.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn/a.png", nil)
	mm.EXPECT().Prepend(gomock.Any(), gomock.Any()).Return(nil, storage.ErrAlreadyExists)

	_, err := s.Upload(context.Background(), session.NewID(), UploadInput{
		Title: "a",
		File:  models.UploadFile{Name: "a.png", ContentType: "image/png", Data: pngHeader},
	})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

// Параллельные комментарии одной сессии не теряются.
func TestService_ConcurrentComments(t *testing.T) {
	s, _ := newServiceInMemory(t)
	ctx := context.Background()
	sid := session.NewID()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.SubmitComment(ctx, sid, 6, ptr("hi"))
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	item, err := s.Item(ctx, 6)
	require.NoError(t, err)
	require.Len(t, item.Comments, 20)
	require.Zero(t, s.locks.size())
}

func ids(items []models.MediaItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
