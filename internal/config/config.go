// config реализует конфигурацию gallery-service: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendRedis    = "redis"
	BackendInline   = "inline"
	BackendMinio    = "minio"
)

// Config: корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
	Storage  StorageConfig  `yaml:"storage"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	S3       S3Config       `yaml:"s3"`
	Sessions SessionsConfig `yaml:"sessions"`
	User     UserConfig     `yaml:"user"`
}

// HTTPConfig: публичный REST-сервер.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// TimeoutConfig: дедлайны запросов и время на graceful shutdown.
// Upload: дедлайн multipart-запросов с файлом.
type TimeoutConfig struct {
	Service  time.Duration `yaml:"service" env:"SERVICE" env-default:"15s"`
	Upload   time.Duration `yaml:"upload" env:"UPLOAD_TIMEOUT" env-default:"2m"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN" env-default:"10s"`
}

// StorageConfig: бэкенд коллекции публикаций.
type StorageConfig struct {
	Backend     string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"memory"`
	PostgresURL string `yaml:"postgres_url" env:"POSTGRES_URL"`
	MongoURL    string `yaml:"mongo_url" env:"MONGO_URL"`
	// NoSeed: не заполнять пустое хранилище стартовым набором.
	NoSeed bool `yaml:"no_seed" env:"STORAGE_NO_SEED"`
}

// UploadsConfig: ограничения и бэкенд содержимого загрузок.
type UploadsConfig struct {
	Backend         string   `yaml:"backend" env:"UPLOADS_BACKEND" env-default:"inline"`
	MaxSizeBytes    int64    `yaml:"max_size_bytes" env:"UPLOAD_MAX_SIZE_BYTES" env-default:"20971520"`
	AllowedPrefixes []string `yaml:"allowed_prefixes" env:"UPLOAD_ALLOWED_PREFIXES" env-separator:"," env-default:"image/,video/"`
	// Обложка для загруженных видео: кадр не извлекаем, ставим заглушку.
	VideoThumbnailURL string `yaml:"video_thumbnail_url" env:"VIDEO_THUMBNAIL_URL" env-default:"https://images.unsplash.com/photo-1536240478700-b869070f9279?w=800"`
}

// S3Config: MinIO/S3 для бэкенда minio.
type S3Config struct {
	Endpoint      string `yaml:"endpoint" env:"S3_ENDPOINT"`
	RootUser      string `yaml:"root_user" env:"S3_ROOT_USER"`
	RootPassword  string `yaml:"root_password" env:"S3_ROOT_PASSWORD"`
	Bucket        string `yaml:"bucket" env:"S3_BUCKET" env-default:"media"`
	PublicBaseURL string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

// SessionsConfig: хранилище состояния просмотра.
type SessionsConfig struct {
	Backend  string        `yaml:"backend" env:"SESSIONS_BACKEND" env-default:"memory"`
	RedisURL string        `yaml:"redis_url" env:"REDIS_URL"`
	Prefix   string        `yaml:"prefix" env:"SESSIONS_PREFIX" env-default:"mediahub:view:"`
	TTL      time.Duration `yaml:"ttl" env:"SESSIONS_TTL" env-default:"24h"`
}

// UserConfig: локальный пользователь, от имени которого пишутся комментарии и загрузки.
type UserConfig struct {
	Name   string `yaml:"name" env:"USER_NAME" env-default:"Вы"`
	Avatar string `yaml:"avatar" env:"USER_AVATAR" env-default:"https://api.dicebear.com/7.x/avataaars/svg?seed=You"`
}

// MustLoad: обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	readFile := func(p string) error {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return fmt.Errorf("failed to overlay env: %w", err)
		}

		return nil
	}

	switch {
	// 1) Явный путь.
	case path != "":
		if err := readFile(path); err != nil {
			return nil, err
		}

	// 2) CONFIG_PATH.
	case os.Getenv("CONFIG_PATH") != "":
		if err := readFile(os.Getenv("CONFIG_PATH")); err != nil {
			return nil, err
		}

	// 3) ./local.yaml.
	case fileExists("local.yaml"):
		if err := readFile("local.yaml"); err != nil {
			return nil, err
		}

	// 4) Только ENV.
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// validate: базовая валидация значений и зависимостей между секциями.
func (c *Config) validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	c.Uploads.Backend = strings.ToLower(strings.TrimSpace(c.Uploads.Backend))
	c.Sessions.Backend = strings.ToLower(strings.TrimSpace(c.Sessions.Backend))

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("storage.postgres_url is required for backend %q", BackendPostgres)
		}
	case BackendMongo:
		if c.Storage.MongoURL == "" {
			return fmt.Errorf("storage.mongo_url is required for backend %q", BackendMongo)
		}
	default:
		return fmt.Errorf("storage.backend must be one of memory|postgres|mongo, got %q", c.Storage.Backend)
	}

	switch c.Uploads.Backend {
	case BackendInline:
	case BackendMinio:
		if c.S3.Endpoint == "" {
			return fmt.Errorf("s3.endpoint is required for uploads backend %q", BackendMinio)
		}

		if c.S3.RootUser == "" || c.S3.RootPassword == "" {
			return fmt.Errorf("s3.root_user and s3.root_password are required")
		}

		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required")
		}
	default:
		return fmt.Errorf("uploads.backend must be one of inline|minio, got %q", c.Uploads.Backend)
	}

	if c.Uploads.MaxSizeBytes <= 0 {
		return fmt.Errorf("uploads.max_size_bytes must be > 0")
	}

	if len(c.Uploads.AllowedPrefixes) == 0 {
		return fmt.Errorf("uploads.allowed_prefixes must not be empty")
	}

	if c.Uploads.VideoThumbnailURL == "" {
		return fmt.Errorf("uploads.video_thumbnail_url is required")
	}

	switch c.Sessions.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Sessions.RedisURL == "" {
			return fmt.Errorf("sessions.redis_url is required for backend %q", BackendRedis)
		}
	default:
		return fmt.Errorf("sessions.backend must be one of memory|redis, got %q", c.Sessions.Backend)
	}

	if c.Sessions.TTL < time.Minute {
		return fmt.Errorf("sessions.ttl must be at least 1m")
	}

	if strings.TrimSpace(c.User.Name) == "" {
		return fmt.Errorf("user.name is required")
	}

	return nil
}
