// mongo предоставляет реализацию storage.MediaStorage на базе MongoDB.
// Публикация хранится одним документом вместе с комментариями (агрегат),
// порядок выдачи задаёт поле position из счётчика в коллекции counters.
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pribylovaa/go-media-hub/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	mediaCollection    = "media"
	countersCollection = "counters"
	positionCounter    = "media_position"
	defaultDBName      = "mediahub"
)

// MediaStorage: тонкий адаптер над коллекциями MongoDB.
type MediaStorage struct {
	client   *mongodriver.Client
	db       *mongodriver.Database
	media    *mongodriver.Collection
	counters *mongodriver.Collection
}

// New подключается к MongoDB, проверяет соединение и создаёт индексы.
func New(ctx context.Context, uri string) (*MediaStorage, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: empty uri")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(uri))

	s := &MediaStorage{
		client:   cli,
		db:       db,
		media:    db.Collection(mediaCollection),
		counters: db.Collection(countersCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// Close разрывает соединение с кластером.
func (s *MediaStorage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = s.client.Disconnect(ctx)
}

// ensureIndexes: уникальный position (DESC) для выдачи ленты.
func (s *MediaStorage) ensureIndexes(ctx context.Context) error {
	_, err := s.media.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "position", Value: -1}},
		Options: options.Index().SetName("position_desc").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы из пути URI, иначе: значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.MediaStorage = (*MediaStorage)(nil)
