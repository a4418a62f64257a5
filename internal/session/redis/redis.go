// redis: хранилище состояний просмотра в Redis.
// Состояние хранится JSON-строкой по ключу <prefix><id>, TTL продлевается при каждом Save.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/session"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// New создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой: используется "mediahub:view:".
func New(ctx context.Context, redisURL, prefix string, ttl time.Duration) (*Store, error) {
	const op = "session/redis/New"

	if prefix == "" {
		prefix = "mediahub:view:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{rdb: rdb, prefix: prefix, ttl: ttl}, nil
}

func (s *Store) key(id string) string { return s.prefix + id }

func (s *Store) Get(ctx context.Context, id string) (*models.View, error) {
	const op = "session/redis/Get"

	if !session.ValidID(id) {
		return nil, fmt.Errorf("%s: %w", op, session.ErrInvalidID)
	}

	raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.NewView(), nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var v models.View
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return &v, nil
}

func (s *Store) Save(ctx context.Context, id string, v *models.View) error {
	const op = "session/redis/Save"

	if !session.ValidID(id) {
		return fmt.Errorf("%s: %w", op, session.ErrInvalidID)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}

	if err := s.rdb.Set(ctx, s.key(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	const op = "session/redis/Delete"

	if err := s.rdb.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close закрывает клиент Redis.
func (s *Store) Close() error {
	return s.rdb.Close()
}

var _ session.Store = (*Store)(nil)
