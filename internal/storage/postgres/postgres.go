// postgres предоставляет реализацию storage.MediaStorage на базе PostgreSQL.
// Схема описана в migrations/1_init_media.up.sql.
//   - media_items: position (bigserial) задаёт порядок, выдача по position DESC;
//   - media_comments: seq (bigserial) сохраняет порядок добавления.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pribylovaa/go-media-hub/internal/storage"
)

type MediaStorage struct {
	db *pgxpool.Pool
}

// New создает и инициализирует пул соединений к PostgreSQL.
func New(ctx context.Context, dbURL string) (*MediaStorage, error) {
	const op = "storage/postgres/New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &MediaStorage{db: db}, nil
}

// Close закрывает пул соединений.
func (s *MediaStorage) Close() {
	s.db.Close()
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.MediaStorage = (*MediaStorage)(nil)
