// memory: хранилище состояний просмотра в памяти процесса с истечением по TTL.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pribylovaa/go-media-hub/internal/gallery"
	"github.com/pribylovaa/go-media-hub/internal/models"
	"github.com/pribylovaa/go-media-hub/internal/session"
)

// sweepInterval: как часто Save вычищает истёкшие записи.
// Между проходами истёкшая запись отбрасывается лениво в Get.
const sweepInterval = time.Minute

type entry struct {
	view      models.View
	expiresAt time.Time
}

type Store struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	views map[string]entry
	// lastSweep: время последнего прохода sweepLocked.
	lastSweep time.Time
}

// New создаёт хранилище; ttl <= 0: без истечения.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		now:   time.Now,
		views: make(map[string]entry),
	}
}

func (s *Store) Get(_ context.Context, id string) (*models.View, error) {
	const op = "session/memory/Get"

	if !session.ValidID(id) {
		return nil, fmt.Errorf("%s: %w", op, session.ErrInvalidID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.views[id]
	if !ok || s.expired(e) {
		delete(s.views, id)
		return models.NewView(), nil
	}

	v := gallery.CloneView(e.view)

	return &v, nil
}

func (s *Store) Save(_ context.Context, id string, v *models.View) error {
	const op = "session/memory/Save"

	if !session.ValidID(id) {
		return fmt.Errorf("%s: %w", op, session.ErrInvalidID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{view: gallery.CloneView(*v)}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.views[id] = e

	if now := s.now(); now.Sub(s.lastSweep) >= sweepInterval {
		s.sweepLocked()
		s.lastSweep = now
	}

	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.views, id)

	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) expired(e entry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}

// sweepLocked удаляет истёкшие записи за один проход. Вызывается под s.mu
// не чаще раза в sweepInterval.
func (s *Store) sweepLocked() {
	for id, e := range s.views {
		if s.expired(e) {
			delete(s.views, id)
		}
	}
}

var _ session.Store = (*Store)(nil)
