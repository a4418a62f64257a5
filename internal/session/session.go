// session хранит эфемерное состояние просмотра (models.View) по идентификатору сессии.
package session

//go:generate mockgen -source=session.go -destination=../../mocks/session.go -package=mocks -mock_names=Store=MockSessionStore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-media-hub/internal/models"
)

// ErrInvalidID: идентификатор сессии не является UUID.
var ErrInvalidID = errors.New("invalid session id")

// Store: контракт хранилища состояний просмотра.
type Store interface {
	// Get возвращает состояние сессии; для неизвестной сессии: models.NewView().
	Get(ctx context.Context, id string) (*models.View, error)
	// Save сохраняет состояние и продлевает TTL.
	Save(ctx context.Context, id string, v *models.View) error
	// Delete удаляет состояние сессии.
	Delete(ctx context.Context, id string) error
	// Close освобождает ресурсы.
	Close() error
}

// NewID выдаёт новый идентификатор сессии.
func NewID() string { return uuid.NewString() }

// ValidID проверяет формат идентификатора.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
