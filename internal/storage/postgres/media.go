package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/storage"
)

// mediaColumns: единый список колонок media_items для SELECT/RETURNING.
const mediaColumns = `
id, kind, url, thumbnail, title, author, author_avatar, likes, is_liked, is_saved
`

const commentColumns = `
media_id, id, author, author_avatar, text, timestamp_label
`

// querier: общий интерфейс пула и транзакции.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func scanItem(row pgx.Row) (*models.MediaItem, error) {
	var m models.MediaItem
	var kind string

	if err := row.Scan(
		&m.ID,
		&kind,
		&m.URL,
		&m.Thumbnail,
		&m.Title,
		&m.Author,
		&m.AuthorAvatar,
		&m.Likes,
		&m.IsLiked,
		&m.IsSaved,
	); err != nil {
		return nil, err
	}

	m.Kind = models.MediaKind(kind)

	return &m, nil
}

// List возвращает коллекцию в порядке отображения (position DESC)
// вместе с комментариями в порядке добавления.
func (s *MediaStorage) List(ctx context.Context) ([]models.MediaItem, error) {
	const op = "storage/postgres/media/List"

	rows, err := s.db.Query(ctx, `SELECT `+mediaColumns+` FROM media_items ORDER BY position DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]models.MediaItem, 0, 16)
	for rows.Next() {
		m, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		items = append(items, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	comments, err := loadComments(ctx, s.db, `SELECT `+commentColumns+` FROM media_comments ORDER BY media_id, seq`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range items {
		items[i].Comments = comments[items[i].ID]
	}

	return items, nil
}

// ByID возвращает элемент с комментариями. Ошибки: storage.ErrNotFound.
func (s *MediaStorage) ByID(ctx context.Context, id int64) (*models.MediaItem, error) {
	const op = "storage/postgres/media/ByID"

	m, err := scanItem(s.db.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := withComments(ctx, s.db, m); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return m, nil
}

// ToggleLike выполняет один атомарный UPDATE. В SET видны старые значения строки,
// поэтому likes и is_liked меняются согласованно, строго на ±1.
func (s *MediaStorage) ToggleLike(ctx context.Context, id int64) (*models.MediaItem, error) {
	const op = "storage/postgres/media/ToggleLike"

	q := `
	UPDATE media_items
	SET likes = CASE WHEN is_liked THEN likes - 1 ELSE likes + 1 END,
	    is_liked = NOT is_liked
	WHERE id = $1
	RETURNING ` + mediaColumns

	return s.updateOne(ctx, op, q, id)
}

// ToggleSave инвертирует is_saved.
func (s *MediaStorage) ToggleSave(ctx context.Context, id int64) (*models.MediaItem, error) {
	const op = "storage/postgres/media/ToggleSave"

	q := `UPDATE media_items SET is_saved = NOT is_saved WHERE id = $1 RETURNING ` + mediaColumns

	return s.updateOne(ctx, op, q, id)
}

// AppendComment вставляет комментарий; отсутствие элемента ловим по FK.
func (s *MediaStorage) AppendComment(ctx context.Context, id int64, c models.Comment) (*models.MediaItem, error) {
	const op = "storage/postgres/media/AppendComment"

	_, err := s.db.Exec(ctx, `
	INSERT INTO media_comments (media_id, id, author, author_avatar, text, timestamp_label)
	VALUES ($1, $2, $3, $4, $5, $6)`,
		id, c.ID, c.Author, c.AuthorAvatar, c.Text, c.Timestamp,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ForeignKeyViolation:
				return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
			case pgerrcode.CheckViolation:
				return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
			}
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.ByID(ctx, id)
}

// Prepend вставляет элемент; новый position больше всех существующих.
// Ошибки: storage.ErrAlreadyExists при повторе id, storage.ErrInvalidArgument.
func (s *MediaStorage) Prepend(ctx context.Context, item models.MediaItem) (*models.MediaItem, error) {
	const op = "storage/postgres/media/Prepend"

	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, storage.ErrInvalidArgument, err)
	}

	m, err := insertItem(ctx, s.db, item)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.Comments = nil

	return m, nil
}

// Seed заполняет пустую таблицу. Вставка идёт с конца набора,
// чтобы первый элемент получил наибольший position.
func (s *MediaStorage) Seed(ctx context.Context, items []models.MediaItem) (int, error) {
	const op = "storage/postgres/media/Seed"

	for _, m := range items {
		if err := m.Validate(); err != nil {
			return 0, fmt.Errorf("%s: item %d: %w: %v", op, m.ID, storage.ErrInvalidArgument, err)
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `LOCK TABLE media_items IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return 0, fmt.Errorf("%s: lock: %w", op, err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM media_items)`).Scan(&exists); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if exists {
		return 0, nil
	}

	for i := len(items) - 1; i >= 0; i-- {
		if _, err := insertItem(ctx, tx, items[i]); err != nil {
			return 0, fmt.Errorf("%s: insert %d: %w", op, items[i].ID, err)
		}

		for _, c := range items[i].Comments {
			if _, err := tx.Exec(ctx, `
			INSERT INTO media_comments (media_id, id, author, author_avatar, text, timestamp_label)
			VALUES ($1, $2, $3, $4, $5, $6)`,
				items[i].ID, c.ID, c.Author, c.AuthorAvatar, c.Text, c.Timestamp,
			); err != nil {
				return 0, fmt.Errorf("%s: insert comment: %w", op, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return len(items), nil
}

func insertItem(ctx context.Context, q querier, m models.MediaItem) (*models.MediaItem, error) {
	row := q.QueryRow(ctx, `
	INSERT INTO media_items (id, kind, url, thumbnail, title, author, author_avatar, likes, is_liked, is_saved)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING `+mediaColumns,
		m.ID,
		string(m.Kind),
		m.URL,
		m.Thumbnail,
		m.Title,
		m.Author,
		m.AuthorAvatar,
		m.Likes,
		m.IsLiked,
		m.IsSaved,
	)

	return scanItem(row)
}

func (s *MediaStorage) updateOne(ctx context.Context, op, q string, id int64) (*models.MediaItem, error) {
	m, err := scanItem(s.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := withComments(ctx, s.db, m); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return m, nil
}

func withComments(ctx context.Context, q querier, m *models.MediaItem) error {
	comments, err := loadComments(ctx, q, `SELECT `+commentColumns+` FROM media_comments WHERE media_id = $1 ORDER BY seq`, m.ID)
	if err != nil {
		return err
	}

	m.Comments = comments[m.ID]

	return nil
}

// loadComments группирует комментарии по media_id, сохраняя порядок выборки.
func loadComments(ctx context.Context, q querier, sql string, args ...any) (map[int64][]models.Comment, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("comments: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]models.Comment)
	for rows.Next() {
		var mediaID int64
		var c models.Comment

		if err := rows.Scan(&mediaID, &c.ID, &c.Author, &c.AuthorAvatar, &c.Text, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("comments: scan: %w", err)
		}

		out[mediaID] = append(out[mediaID], c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("comments: rows: %w", err)
	}

	return out, nil
}
