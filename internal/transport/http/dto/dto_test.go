package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/stretchr/testify/require"
)

func TestMediaItemFromModel_CommentsNeverNull(t *testing.T) {
	got := MediaItemFromModel(models.MediaItem{ID: 1, Kind: models.KindImage, URL: "u"})

	require.Equal(t, "image", got.Type)
	require.NotNil(t, got.Comments)
	require.Empty(t, got.Comments)
}

func TestViewFromModel_PreviewAndSelected(t *testing.T) {
	v := models.NewView()
	v.Selected = &models.MediaItem{ID: 2, Kind: models.KindVideo, URL: "v.mp4", Thumbnail: "t.jpg"}
	v.Upload = models.UploadDialog{
		State: models.UploadFileSelected,
		Title: "t",
		File:  &models.UploadFile{Name: "a.png", ContentType: "image/png", Size: 3, Data: []byte("abc")},
	}
	v.Notifications = []models.Notification{{Level: models.NotifyError, Title: "x", Message: "y"}}

	got := ViewFromModel(*v)

	require.Equal(t, "home", got.Tab)
	require.Equal(t, int64(2), got.Selected.ID)
	require.Equal(t, "t.jpg", got.Selected.Thumbnail)
	require.Equal(t, "file_selected", got.Upload.State)
	require.Equal(t, "data:image/png;base64,YWJj", got.Upload.File.Preview)
	require.Equal(t, []Notification{{Level: "error", Title: "x", Message: "y"}}, got.Notifications)
}

func TestRequestValidation(t *testing.T) {
	validate := validator.New()

	require.NoError(t, validate.Struct(SetTabRequest{Tab: "videos"}))
	require.Error(t, validate.Struct(SetTabRequest{Tab: "trending"}))
	require.Error(t, validate.Struct(SetTabRequest{}))

	long := make([]byte, 2001)
	for i := range long {
		long[i] = 'a'
	}
	s := string(long)
	require.Error(t, validate.Struct(SubmitCommentRequest{Text: &s}))
	require.NoError(t, validate.Struct(SubmitCommentRequest{}))
}

func TestSetTabRequest_NormalizeBeforeValidate(t *testing.T) {
	v := validator.New()

	req := SetTabRequest{Tab: "  Videos "}
	require.Error(t, v.Struct(req))

	req.Normalize()
	require.Equal(t, "videos", req.Tab)
	require.NoError(t, v.Struct(req))

	tab, err := models.ParseTab("  Videos ")
	require.NoError(t, err)
	require.Equal(t, string(tab), req.Tab)
}
