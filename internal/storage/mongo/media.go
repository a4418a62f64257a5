package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type commentDoc struct {
	ID           int64  `bson:"id"`
	Author       string `bson:"author"`
	AuthorAvatar string `bson:"author_avatar"`
	Text         string `bson:"text"`
	Timestamp    string `bson:"timestamp"`
}

type mediaDoc struct {
	ID           int64        `bson:"_id"`
	Position     int64        `bson:"position"`
	Kind         string       `bson:"kind"`
	URL          string       `bson:"url"`
	Thumbnail    string       `bson:"thumbnail"`
	Title        string       `bson:"title"`
	Author       string       `bson:"author"`
	AuthorAvatar string       `bson:"author_avatar"`
	Likes        int64        `bson:"likes"`
	IsLiked      bool         `bson:"is_liked"`
	IsSaved      bool         `bson:"is_saved"`
	Comments     []commentDoc `bson:"comments"`
}

// toDoc: comments всегда массив, иначе $push по null упадёт.
func toDoc(m models.MediaItem, position int64) mediaDoc {
	d := mediaDoc{
		ID:           m.ID,
		Position:     position,
		Kind:         string(m.Kind),
		URL:          m.URL,
		Thumbnail:    m.Thumbnail,
		Title:        m.Title,
		Author:       m.Author,
		AuthorAvatar: m.AuthorAvatar,
		Likes:        m.Likes,
		IsLiked:      m.IsLiked,
		IsSaved:      m.IsSaved,
		Comments:     make([]commentDoc, 0, len(m.Comments)),
	}

	for _, c := range m.Comments {
		d.Comments = append(d.Comments, commentDoc(c))
	}

	return d
}

func fromDoc(d mediaDoc) models.MediaItem {
	m := models.MediaItem{
		ID:           d.ID,
		Kind:         models.MediaKind(d.Kind),
		URL:          d.URL,
		Thumbnail:    d.Thumbnail,
		Title:        d.Title,
		Author:       d.Author,
		AuthorAvatar: d.AuthorAvatar,
		Likes:        d.Likes,
		IsLiked:      d.IsLiked,
		IsSaved:      d.IsSaved,
	}

	for _, c := range d.Comments {
		m.Comments = append(m.Comments, models.Comment(c))
	}

	return m
}

// List возвращает коллекцию по position DESC.
func (s *MediaStorage) List(ctx context.Context) ([]models.MediaItem, error) {
	const op = "storage/mongo/List"

	cur, err := s.media.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "position", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := make([]models.MediaItem, 0, 16)
	for cur.Next(ctx) {
		var d mediaDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		items = append(items, fromDoc(d))
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// ByID возвращает документ по _id. Если нет: storage.ErrNotFound.
func (s *MediaStorage) ByID(ctx context.Context, id int64) (*models.MediaItem, error) {
	const op = "storage/mongo/ByID"

	var d mediaDoc
	if err := s.media.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&d); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := fromDoc(d)

	return &m, nil
}

// ToggleLike использует update pipeline, все выражения одной стадии $set
// вычисляются по исходному документу, likes и is_liked согласованы.
func (s *MediaStorage) ToggleLike(ctx context.Context, id int64) (*models.MediaItem, error) {
	const op = "storage/mongo/ToggleLike"

	likes := bson.D{{Key: "$cond", Value: bson.A{
		"$is_liked",
		bson.D{{Key: "$subtract", Value: bson.A{"$likes", 1}}},
		bson.D{{Key: "$add", Value: bson.A{"$likes", 1}}},
	}}}

	update := mongodriver.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: likes},
			{Key: "is_liked", Value: bson.D{{Key: "$not", Value: bson.A{"$is_liked"}}}},
		}}},
	}

	return s.findOneAndUpdate(ctx, op, id, update)
}

// ToggleSave инвертирует is_saved.
func (s *MediaStorage) ToggleSave(ctx context.Context, id int64) (*models.MediaItem, error) {
	const op = "storage/mongo/ToggleSave"

	update := mongodriver.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "is_saved", Value: bson.D{{Key: "$not", Value: bson.A{"$is_saved"}}}},
		}}},
	}

	return s.findOneAndUpdate(ctx, op, id, update)
}

// AppendComment дописывает комментарий через $push.
func (s *MediaStorage) AppendComment(ctx context.Context, id int64, c models.Comment) (*models.MediaItem, error) {
	const op = "storage/mongo/AppendComment"

	update := bson.D{{Key: "$push", Value: bson.D{{Key: "comments", Value: commentDoc(c)}}}}

	return s.findOneAndUpdate(ctx, op, id, update)
}

// Prepend вставляет документ с position больше всех существующих.
func (s *MediaStorage) Prepend(ctx context.Context, item models.MediaItem) (*models.MediaItem, error) {
	const op = "storage/mongo/Prepend"

	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, storage.ErrInvalidArgument, err)
	}

	pos, err := s.nextPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.media.InsertOne(ctx, toDoc(item, pos)); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	out := item
	out.Comments = append([]models.Comment(nil), item.Comments...)
	if len(out.Comments) == 0 {
		out.Comments = nil
	}

	return &out, nil
}

// Seed заполняет пустую коллекцию, вставляя набор с конца.
func (s *MediaStorage) Seed(ctx context.Context, items []models.MediaItem) (int, error) {
	const op = "storage/mongo/Seed"

	for _, m := range items {
		if err := m.Validate(); err != nil {
			return 0, fmt.Errorf("%s: item %d: %w: %v", op, m.ID, storage.ErrInvalidArgument, err)
		}
	}

	n, err := s.media.CountDocuments(ctx, bson.D{}, options.Count().SetLimit(1))
	if err != nil {
		return 0, fmt.Errorf("%s: count: %w", op, err)
	}

	if n > 0 {
		return 0, nil
	}

	for i := len(items) - 1; i >= 0; i-- {
		pos, err := s.nextPosition(ctx)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}

		if _, err := s.media.InsertOne(ctx, toDoc(items[i], pos)); err != nil {
			return 0, fmt.Errorf("%s: insert %d: %w", op, items[i].ID, err)
		}
	}

	return len(items), nil
}

// nextPosition атомарно увеличивает счётчик позиций.
func (s *MediaStorage) nextPosition(ctx context.Context) (int64, error) {
	var out struct {
		Seq int64 `bson:"seq"`
	}

	err := s.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: positionCounter}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}

	return out.Seq, nil
}

func (s *MediaStorage) findOneAndUpdate(ctx context.Context, op string, id int64, update any) (*models.MediaItem, error) {
	var d mediaDoc

	err := s.media.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := fromDoc(d)

	return &m, nil
}
