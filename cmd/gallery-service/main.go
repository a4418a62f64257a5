package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-media-hub/internal/config"
	"github.com/pribylovaa/go-media-hub/internal/gallery"
	"github.com/pribylovaa/go-media-hub/internal/service"
	"github.com/pribylovaa/go-media-hub/internal/session"
	sessmem "github.com/pribylovaa/go-media-hub/internal/session/memory"
	sessredis "github.com/pribylovaa/go-media-hub/internal/session/redis"
	"github.com/pribylovaa/go-media-hub/internal/storage"
	"github.com/pribylovaa/go-media-hub/internal/storage/inline"
	"github.com/pribylovaa/go-media-hub/internal/storage/memory"
	"github.com/pribylovaa/go-media-hub/internal/storage/minio"
	"github.com/pribylovaa/go-media-hub/internal/storage/mongo"
	"github.com/pribylovaa/go-media-hub/internal/storage/postgres"
	galleryhttp "github.com/pribylovaa/go-media-hub/internal/transport/http"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// Время на подключение к внешним бэкендам при старте.
const connectTimeout = 10 * time.Second

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting gallery-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	media, err := openMedia(rootCtx, cfg.Storage)
	if err != nil {
		log.Error("media_storage_init_failed", slog.String("backend", cfg.Storage.Backend), slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer media.Close()
	log.Info("media_storage_ready", slog.String("backend", cfg.Storage.Backend))

	if !cfg.Storage.NoSeed {
		n, err := media.Seed(rootCtx, gallery.Seed())
		if err != nil {
			log.Error("seed_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
		log.Info("seed_done", slog.Int("inserted", n))
	}

	blobs, err := openBlobs(rootCtx, cfg)
	if err != nil {
		log.Error("blob_storage_init_failed", slog.String("backend", cfg.Uploads.Backend), slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("blob_storage_ready", slog.String("backend", cfg.Uploads.Backend))

	sessions, err := openSessions(rootCtx, cfg.Sessions)
	if err != nil {
		log.Error("session_store_init_failed", slog.String("backend", cfg.Sessions.Backend), slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := sessions.Close(); cerr != nil {
			log.Warn("session_store_close_failed", slog.String("err", cerr.Error()))
		}
	}()
	log.Info("session_store_ready", slog.String("backend", cfg.Sessions.Backend))

	svc := service.New(media, blobs, sessions, cfg, nil)
	log.Info("service_initialized")

	apiHandler := galleryhttp.NewRouter(svc, galleryhttp.Options{
		Logger:         log,
		Timeout:        cfg.Timeouts.Service,
		UploadTimeout:  cfg.Timeouts.Upload,
		BasePath:       "/api",
		SessionTTL:     cfg.Sessions.TTL,
		MaxUploadBytes: cfg.Uploads.MaxSizeBytes,
	})

	var ready int32 // 0 = not ready, 1 = ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("gallery_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")
}

// openMedia выбирает бэкенд коллекции публикаций.
func openMedia(ctx context.Context, cfg config.StorageConfig) (storage.MediaStorage, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendPostgres:
		return postgres.New(ctx, cfg.PostgresURL)
	case config.BackendMongo:
		return mongo.New(ctx, cfg.MongoURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// openBlobs выбирает хранилище содержимого загрузок.
func openBlobs(ctx context.Context, cfg *config.Config) (storage.BlobStorage, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.Uploads.Backend {
	case config.BackendInline:
		return inline.New(), nil
	case config.BackendMinio:
		return minio.New(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown uploads backend %q", cfg.Uploads.Backend)
	}
}

// openSessions выбирает хранилище состояний просмотра.
func openSessions(ctx context.Context, cfg config.SessionsConfig) (session.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.Backend {
	case config.BackendMemory:
		return sessmem.New(cfg.TTL), nil
	case config.BackendRedis:
		return sessredis.New(ctx, cfg.RedisURL, cfg.Prefix, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown sessions backend %q", cfg.Backend)
	}
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
