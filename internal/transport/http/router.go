package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-media-hub/internal/service"
	"github.com/pribylovaa/go-media-hub/internal/transport/http/handlers"
	"github.com/pribylovaa/go-media-hub/internal/transport/http/middleware"
)

// Options: параметры сборки HTTP-роутера.
type Options struct {
	Logger         *slog.Logger
	Timeout        time.Duration
	UploadTimeout  time.Duration // дедлайн multipart-запросов с файлом
	BasePath       string        // например, "/api"; если пустой: роуты регистрируются на корне.
	SessionTTL     time.Duration // срок жизни cookie сессии
	MaxUploadBytes int64         // лимит размера загружаемого файла
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),                // безопасно ловим паники
		middleware.RequestID(),              // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger),     // кладём request-scoped логгер в контекст и логируем
		middleware.Session(opts.SessionTTL), // идентификатор сессии просмотра
	)
	if opts.Timeout > 0 || opts.UploadTimeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout, opts.UploadTimeout)) // дедлайн запроса, для загрузок свой
	}

	h := handlers.New(svc, opts.MaxUploadBytes)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes: единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// view state
	r.Get("/view", h.GetView)
	r.Delete("/view", h.ResetView)
	r.Put("/view/tab", h.SetTab)
	r.Delete("/view/selected", h.CloseSelected)
	r.Put("/view/comment", h.SetCommentDraft)

	// upload dialog
	r.Post("/view/upload", h.OpenUpload)
	r.Put("/view/upload/title", h.SetUploadTitle)
	r.Put("/view/upload/file", h.SelectUploadFile)
	r.Delete("/view/upload/file", h.RemoveUploadFile)
	r.Delete("/view/upload", h.CancelUpload)
	r.Post("/view/upload/submit", h.SubmitUpload)

	// media
	r.Get("/media", h.ListMedia)
	r.Post("/media", h.CreateMedia)
	r.Get("/media/{id}", h.GetMedia)
	r.Post("/media/{id}/open", h.OpenMedia)
	r.Post("/media/{id}/like", h.LikeMedia)
	r.Post("/media/{id}/save", h.SaveMedia)
	r.Post("/media/{id}/comments", h.CommentMedia)
}
